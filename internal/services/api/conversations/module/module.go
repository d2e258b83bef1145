// Package module wires conversation histories into the API
package module

import (
	"strings"
	"time"

	modkit "reqrelay/internal/modkit"
	"reqrelay/internal/modkit/httpkit"
	"reqrelay/internal/platform/config"

	cdom "reqrelay/internal/services/api/conversations/domain"
	chttp "reqrelay/internal/services/api/conversations/http"
	crepo "reqrelay/internal/services/api/conversations/repo"
	csvc "reqrelay/internal/services/api/conversations/service"
)

// Options controls conversation storage, read from CONVERSATIONS_*
type Options struct {
	Backend string // memory | pg
	Timeout time.Duration
}

// FromConfig reads CONVERSATIONS_BACKEND and CONVERSATIONS_TIMEOUT
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CONVERSATIONS_")
	return Options{
		Backend: strings.ToLower(c.MayString("BACKEND", "memory")),
		Timeout: c.MayDuration("TIMEOUT", 10*time.Second),
	}
}

// Module implements the conversations API module
type Module struct {
	modkit.Base
	svc csvc.Service
}

// Ports exposes conversation storage to other modules
type Ports struct {
	Conversations cdom.ServicePort
}

// New constructs the module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build([]modkit.Option{
		modkit.WithName("conversations"),
		modkit.WithPrefix("/conversations"),
	}, opts...)
	cfg := FromConfig(deps.Cfg)

	var store crepo.Repo
	switch cfg.Backend {
	case "pg":
		if deps.PG == nil {
			panic("conversations module: CONVERSATIONS_BACKEND=pg requires a postgres store")
		}
		store = crepo.NewPG().Bind(deps.PG)
	case "memory", "":
		store = crepo.NewMemory()
	default:
		panic("conversations module: unknown CONVERSATIONS_BACKEND " + cfg.Backend)
	}

	b.Lead(httpkit.Bounded(cfg.Timeout)...)
	return &Module{Base: b, svc: csvc.New(store, nil, nil)}
}

// MountRoutes mounts the history endpoints
func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) { chttp.Register(rr, m.svc) })
}

// Ports exposes the history service
func (m *Module) Ports() any { return Ports{Conversations: m.svc} }
