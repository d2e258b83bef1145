// Package module wires the streaming relay into the API using modkit
package module

import (
	"reqrelay/internal/adapters/chatengine"
	modkit "reqrelay/internal/modkit"
	"reqrelay/internal/modkit/httpkit"

	rlhttp "reqrelay/internal/services/api/relay/http"
	rlrepo "reqrelay/internal/services/api/relay/repo"
	rlsvc "reqrelay/internal/services/api/relay/service"
)

// Module implements the relay API module
// No request deadline is applied; streams live as long as the engine keeps talking
type Module struct {
	modkit.Base
	svc    rlsvc.Service
	ledger *rlrepo.CH
}

// Ports exposes the relay service and its optional ledger
type Ports struct {
	Relay  rlsvc.Service
	Ledger *rlrepo.CH
}

// New constructs the relay module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build([]modkit.Option{
		modkit.WithName("relay"),
		modkit.WithPrefix("/relay"),
	}, opts...)

	cfg := FromConfig(deps.Cfg)

	engine := chatengine.NewClient(chatengine.Options{
		URL:        cfg.EngineURL,
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryBase:  cfg.RetryBase,
	})
	if cfg.EngineURL == "" {
		deps.Log.Warn().Msg("CHAT_ENGINE_URL is not set; relay requests will fail with 502")
	}

	log := deps.Log.With().Str("component", "relay").Logger()
	sopts := rlsvc.Options{WorkDir: cfg.WorkDir, Log: &log}

	var ledger *rlrepo.CH
	if cfg.Ledger && deps.CH != nil {
		ledger = rlrepo.NewCH(deps.CH)
		sopts.Ledger = ledger
	}

	b.Lead(httpkit.Limited(cfg.MaxStreams)...)
	return &Module{Base: b, svc: rlsvc.New(engine, sopts), ledger: ledger}
}

// MountRoutes mounts the streaming endpoint
func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) { rlhttp.Register(rr, m.svc) })
}

// Ports returns the relay ports
func (m *Module) Ports() any { return Ports{Relay: m.svc, Ledger: m.ledger} }
