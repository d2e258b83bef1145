// Package middleware collects the HTTP middlewares modules stack, keeping chi and cors types out of module code
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Func is a standard net/http middleware
type Func = func(http.Handler) http.Handler

// RequestID reuses an inbound X-Request-Id or mints one
func RequestID() Func { return chimw.RequestID }

// RealIP trusts X-Real-IP and X-Forwarded-For for RemoteAddr
func RealIP() Func { return chimw.RealIP }

// Timeout bounds the request context to d
func Timeout(d time.Duration) Func { return chimw.Timeout(d) }

// NoCache disables client and proxy caching
func NoCache() Func { return chimw.NoCache }

// Compress gzips/deflates compressible content types at level
func Compress(level int) Func { return chimw.NewCompressor(level).Handler }

// RedirectSlashes redirects /x/ to /x
func RedirectSlashes() Func { return chimw.RedirectSlashes }

// StripSlashes routes /x/ as /x
func StripSlashes() Func { return chimw.StripSlashes }

// Throttle admits at most limit concurrent requests and rejects the rest with 429
func Throttle(limit int) Func { return chimw.Throttle(limit) }

// Heartbeat answers GET path with 200 before routing
func Heartbeat(path string) Func { return chimw.Heartbeat(path) }

// CORSOptions is the subset of cors options the API configures
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

var (
	defaultMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	defaultHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}
)

// CORS applies o, filling empty method and header lists with defaults
func CORS(o CORSOptions) Func {
	if len(o.AllowedMethods) == 0 {
		o.AllowedMethods = defaultMethods
	}
	if len(o.AllowedHeaders) == 0 {
		o.AllowedHeaders = defaultHeaders
	}
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   o.AllowedMethods,
		AllowedHeaders:   o.AllowedHeaders,
		ExposedHeaders:   o.ExposedHeaders,
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
