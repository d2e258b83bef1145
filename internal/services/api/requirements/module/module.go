// Package module wires the requirements mailbox into the API using modkit
package module

import (
	modkit "reqrelay/internal/modkit"
	"reqrelay/internal/modkit/httpkit"

	rdom "reqrelay/internal/services/api/requirements/domain"
	rhttp "reqrelay/internal/services/api/requirements/http"
	rrepo "reqrelay/internal/services/api/requirements/repo"
	rsvc "reqrelay/internal/services/api/requirements/service"
)

// Module implements the requirements API module
type Module struct {
	modkit.Base
	svc rsvc.Service
}

// Ports exposes the mailbox to other modules
type Ports struct {
	Mailbox rdom.ServicePort
}

// New constructs the requirements module
// MAILBOX_BACKEND=pg requires deps.PG; the default keeps the slot in memory
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build([]modkit.Option{
		modkit.WithName("requirements"),
		modkit.WithPrefix("/requirements"),
	}, opts...)

	cfg := FromConfig(deps.Cfg)

	var store rrepo.Repo
	switch cfg.Backend {
	case BackendPG:
		if deps.PG == nil {
			panic("requirements module: MAILBOX_BACKEND=pg requires a postgres store")
		}
		store = rrepo.NewPG().Bind(deps.PG)
	case BackendMemory, "":
		store = rrepo.NewMemory()
	default:
		panic("requirements module: unknown MAILBOX_BACKEND " + cfg.Backend)
	}

	log := deps.Log.With().Str("component", "requirements").Logger()
	svc := rsvc.New(store, rsvc.Options{Log: &log})

	b.Lead(httpkit.Bounded(cfg.Timeout)...)
	return &Module{Base: b, svc: svc}
}

// MountRoutes mounts the mailbox endpoints
func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) { rhttp.Register(rr, m.svc) })
}

// Ports returns the mailbox port
func (m *Module) Ports() any { return Ports{Mailbox: m.svc} }
