// Package module wires the meta endpoints: liveness, readiness, version and service info
package module

import (
	"time"

	modkit "reqrelay/internal/modkit"
	"reqrelay/internal/modkit/httpkit"

	metahttp "reqrelay/internal/services/api/meta/http"
)

// Module serves /meta
type Module struct {
	modkit.Base
	deps metahttp.Deps
}

// New constructs the meta module; components maps module names to their storage backend
func New(deps modkit.Deps, components map[string]string, opts ...modkit.Option) modkit.Module {
	b := modkit.Build([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)

	return &Module{Base: b, deps: metahttp.Deps{
		ServiceName: "reqrelay-api",
		StartedAt:   time.Now(),
		PG:          deps.PG,
		CH:          deps.CH,
		Components:  components,
	}}
}

// MountRoutes mounts the meta endpoints
func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Ports is nil; nothing consumes meta
func (m *Module) Ports() any { return nil }
