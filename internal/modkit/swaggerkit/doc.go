package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Operations maps a lowercased method to its operation object
type Operations map[string]map[string]any

// Doc is the slice of an OpenAPI 3 document the UI needs to list operations
type Doc struct {
	OpenAPI string                `json:"openapi"`
	Info    map[string]string     `json:"info"`
	Servers []map[string]string   `json:"servers"`
	Paths   map[string]Operations `json:"paths"`
}

// Build walks routes and returns one operation per method and path under /api/
func Build(routes chi.Routes, title, version string) Doc {
	d := Doc{
		OpenAPI: "3.0.3",
		Info:    map[string]string{"title": title, "version": version},
		Servers: []map[string]string{{"url": "/"}},
		Paths:   map[string]Operations{},
	}
	if routes == nil {
		return d
	}
	_ = chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if !strings.HasPrefix(route, "/api/v") {
			return nil
		}
		route = strings.TrimSuffix(strings.ReplaceAll(route, "/*/", "/"), "/*")
		if len(route) > 1 {
			route = strings.TrimSuffix(route, "/")
		}
		ops := d.Paths[route]
		if ops == nil {
			ops = Operations{}
			d.Paths[route] = ops
		}
		ops[strings.ToLower(method)] = map[string]any{
			"tags":      []string{tagOf(route)},
			"responses": map[string]any{"default": map[string]any{"description": "envelope"}},
		}
		return nil
	})
	return d
}

// tagOf returns the first segment after the version prefix
func tagOf(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	if len(parts) >= 3 {
		return parts[2]
	}
	return "api"
}

func serveDoc(routes func() chi.Routes, title, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		d := Build(routes(), title, version)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(d)
	}
}
