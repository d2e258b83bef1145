// Package modkit assembles API modules: shared deps in, a mountable route set and typed ports out
package modkit

import (
	"reqrelay/internal/modkit/module"
	"reqrelay/internal/modkit/repokit"
	"reqrelay/internal/platform/config"
	"reqrelay/internal/platform/logger"
	"reqrelay/internal/platform/store"
)

// Module is the contract the API composes
type Module = module.Module

// Deps is what every module constructor receives
// PG and CH are nil when the backend is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}
