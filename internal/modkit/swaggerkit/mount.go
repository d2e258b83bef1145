// Package swaggerkit mounts Swagger UI over an OpenAPI document built from the live route tree
package swaggerkit

import (
	"net/http"

	"reqrelay/internal/core/version"
	phttp "reqrelay/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount the Swagger UI and JSON document if enabled
// The document is rebuilt per request so routes mounted after Mount are listed
func Mount(r phttp.Router, enabled bool, title string) {
	if !enabled {
		return
	}
	routes := func() chi.Routes {
		rt, _ := r.Mux().(chi.Routes)
		return rt
	}
	r.Get("/api/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDoc(routes, title, version.Info().Version))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
