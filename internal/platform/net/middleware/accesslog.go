package middleware

import (
	"net/http"
	"time"

	"reqrelay/internal/platform/logger"
)

// AccessLogOptions configures AccessLogZerolog
type AccessLogOptions struct {
	// Slow promotes requests at or over this duration to warn; 0 disables
	Slow time.Duration
}

// statusRecorder remembers the status and body size while passing writes through
type statusRecorder struct {
	http.ResponseWriter
	status int
	n      int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.n += n
	return n, err
}

// Unwrap lets http.ResponseController reach the real writer
func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

// Flush is needed by wrappers that type-assert http.Flusher, chi's compressor among them
func (s *statusRecorder) Flush() {
	_ = http.NewResponseController(s.ResponseWriter).Flush()
}

// AccessLogZerolog writes one line per request on the request scoped logger
func AccessLogZerolog(opt AccessLogOptions) Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			took := time.Since(start)

			log := logger.C(r.Context())
			ev := log.Info()
			if opt.Slow > 0 && took >= opt.Slow {
				ev = log.Warn()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Int("bytes", rec.n).
				Dur("elapsed", took).
				Msg("request done")
		})
	}
}
