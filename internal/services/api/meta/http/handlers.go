// Package http serves liveness, readiness, build and service info
package http

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"reqrelay/internal/core/version"
	"reqrelay/internal/modkit/httpkit"
	"reqrelay/internal/platform/store"
)

// probeTimeout bounds the whole readiness check
const probeTimeout = 2 * time.Second

// Deps feeds the meta handlers
// PG and CH are nil when the backend is disabled; values that are not a store.Pinger report "unknown"
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	Components  map[string]string
	Now         func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// Register adds GET /health, /ready, /version and /service to r
func Register(r httpkit.Router, d Deps) {
	httpkit.Get(r, "/health", d.health)
	httpkit.Get(r, "/ready", d.ready)
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
	httpkit.Get(r, "/service", d.service)
}

// HealthResponse answers the liveness probe
type HealthResponse struct {
	OK      bool   `json:"ok" example:"true"`
	Service string `json:"service" example:"reqrelay-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Now     string `json:"now" example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck is one backend probe: ok, fail, skipped or unknown
type ReadyCheck struct {
	Name   string `json:"name" example:"pg"`
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse is "fail" when any probe failed
// a skipped backend leaves the service ready since the in-memory stores take over
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// Component is a mounted module and the backend behind it
type Component struct {
	Name    string `json:"name" example:"requirements"`
	Backend string `json:"backend" example:"memory"`
}

// ServiceResponse reports uptime in whole seconds
type ServiceResponse struct {
	Name       string      `json:"name" example:"reqrelay-api"`
	Started    string      `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime     int64       `json:"uptime" example:"300"`
	Components []Component `json:"components"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (d Deps) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: d.ServiceName, Started: stamp(d.StartedAt), Now: stamp(d.now())}, nil
}

// @Summary Readiness with backend probes
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (d Deps) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	res := ReadyResponse{Status: "ok", Now: stamp(d.now())}
	for _, b := range []struct {
		name string
		v    any
	}{{"pg", d.PG}, {"ch", d.CH}} {
		c := check(ctx, b.name, b.v)
		if c.Status == "fail" {
			res.Status = "fail"
		}
		res.Checks = append(res.Checks, c)
	}
	return res, nil
}

func check(ctx context.Context, name string, v any) ReadyCheck {
	c := ReadyCheck{Name: name, Status: "skipped"}
	switch p := v.(type) {
	case nil:
	case store.Pinger:
		c.Status = "ok"
		if err := p.Ping(ctx); err != nil {
			c.Status, c.Error = "fail", err.Error()
		}
	default:
		c.Status = "unknown"
	}
	return c
}

// @Summary Service info and mounted components
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (d Deps) service(*http.Request) (any, error) {
	out := ServiceResponse{
		Name:       d.ServiceName,
		Started:    stamp(d.StartedAt),
		Uptime:     int64(d.now().Sub(d.StartedAt) / time.Second),
		Components: make([]Component, 0, len(d.Components)),
	}
	for name, backend := range d.Components {
		out.Components = append(out.Components, Component{Name: name, Backend: backend})
	}
	slices.SortFunc(out.Components, func(a, b Component) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}
