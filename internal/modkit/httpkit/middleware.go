package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"reqrelay/internal/platform/net/middleware"
)

// CommonStack returns a baseline per module middleware slice
// it carries no request deadline so event streams stay open; add Bounded per module
// origins feeds CORS; none means any origin
func CommonStack(origins ...string) []func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond}),

		middleware.CORS(middleware.CORSOptions{AllowedOrigins: origins}),
		// text/event-stream is not in the compressible set so streams pass through
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
	}
}

// Bounded returns middlewares for request/response modules that should not outlive d
func Bounded(d time.Duration) []func(http.Handler) http.Handler {
	if d <= 0 {
		d = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{middleware.Timeout(d)}
}

// Limited caps concurrent requests for long lived routes such as event streams
// n <= 0 disables the cap
func Limited(n int) []func(http.Handler) http.Handler {
	if n <= 0 {
		return nil
	}
	return []func(http.Handler) http.Handler{middleware.Throttle(n)}
}
