package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"sync"
	"time"

	"reqrelay/internal/platform/config"
	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server owns the root chi mux and the listener serving it
type Server struct {
	mux *chi.Mux
	srv *stdhttp.Server

	mu    sync.Mutex
	bound string
}

// NewServer builds a server listening on API_PORT (default :4000)
// opts see the raw mux before any route is mounted
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	m := chi.NewRouter()
	m.NotFound(NotFound)
	m.MethodNotAllowed(MethodNotAllowed)
	for _, o := range opts {
		o(m)
	}
	return &Server{
		mux: m,
		srv: &stdhttp.Server{
			Addr:              cfg.MayString("API_PORT", ":4000"),
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router is the mount surface for modules
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr is the bound address once Run is listening, the configured one before
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bound != "" {
		return s.bound
	}
	return s.srv.Addr
}

// Run listens and serves until Shutdown; a clean shutdown returns nil
// ctx scopes the listener's base context
func (s *Server) Run(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.srv.Addr)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "listen %s", s.srv.Addr)
	}
	s.mu.Lock()
	s.bound = ln.Addr().String()
	s.mu.Unlock()

	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }
	logger.Named("http").Info().Str("addr", ln.Addr().String()).Msg("http listening")

	if err := s.srv.Serve(ln); !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }

// NotFound answers unmatched routes with a 404 envelope
func NotFound(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	RespondError(w, r, perr.NotFoundf("no route for %s", r.URL.Path))
}

// MethodNotAllowed answers a known path hit with the wrong verb
func MethodNotAllowed(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	RespondError(w, r, perr.MethodNotAllowedf("method %s not allowed on %s", r.Method, r.URL.Path))
}
