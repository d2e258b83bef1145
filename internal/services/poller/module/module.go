// Package module wires the poller worker and its conversation session
package module

import (
	"reqrelay/internal/adapters/relayapi"
	"reqrelay/internal/modkit"
	"reqrelay/internal/modkit/httpkit"
	"reqrelay/internal/services/poller/domain"
	"reqrelay/internal/services/poller/service"
)

// Ports exposes the worker loop and the session it drives
type Ports struct {
	Worker  domain.Worker
	Session *service.Session
}

// Module defines the poller module
type Module struct {
	ports Ports
}

// New constructs the poller; non-zero overrides win over config
// client may be nil, in which case a relayapi client for BaseURL is used
func New(deps modkit.Deps, overrides Options, client domain.Client) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.BaseURL != "" {
		opts.BaseURL = overrides.BaseURL
	}
	if overrides.Interval > 0 {
		opts.Interval = overrides.Interval
	}
	if overrides.SampleWindow > 0 {
		opts.SampleWindow = overrides.SampleWindow
	}
	if overrides.Location != "" {
		opts.Location = overrides.Location
	}

	if client == nil {
		client = relayapi.New(relayapi.Options{BaseURL: opts.BaseURL, Timeout: opts.Timeout})
	}
	log := deps.Log.With().Str("component", "poller").Logger()
	sessionLog := deps.Log.With().Str("component", "session").Logger()

	session := service.NewSession(client, service.SessionOptions{
		Location:     opts.Location,
		SampleWindow: opts.SampleWindow,
		Log:          &sessionLog,
	})
	return &Module{ports: Ports{
		Worker:  service.New(client, session, opts.Interval, &log),
		Session: session,
	}}
}

// Name returns the module name
func (m *Module) Name() string { return "poller" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix is empty; the poller serves no routes
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op for the worker
func (m *Module) MountRoutes(_ httpkit.Router) {}
