package modkit

import (
	"net/http"

	"reqrelay/internal/modkit/httpkit"
)

// Option adjusts a module's mount settings
type Option func(*Base)

// WithName overrides the module name
func WithName(name string) Option { return func(b *Base) { b.name = name } }

// WithPrefix overrides the path the module mounts under
func WithPrefix(prefix string) Option { return func(b *Base) { b.prefix = prefix } }

// WithMiddlewares appends mw after the module's own middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Base) { b.mw = append(b.mw, mw...) }
}

// WithSubrouter wraps the module router before routes are registered
func WithSubrouter(fn func(httpkit.Router) httpkit.Router) Option {
	return func(b *Base) { b.subrouter = fn }
}

// WithRegister adds routes after the module's own
func WithRegister(fn func(httpkit.Router)) Option { return func(b *Base) { b.extra = fn } }

// Base holds the mount settings modules embed
type Base struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler

	subrouter func(httpkit.Router) httpkit.Router
	extra     func(httpkit.Router)
}

// Build applies defaults first and opts after, so callers override module defaults
func Build(defaults []Option, opts ...Option) Base {
	var b Base
	for _, o := range append(defaults, opts...) {
		o(&b)
	}
	return b
}

// Name is the module name
func (b Base) Name() string { return b.name }

// Prefix is the mount path below the API version
func (b Base) Prefix() string { return b.prefix }

// Middlewares lists the module scoped middlewares in the order they run
func (b Base) Middlewares() []func(http.Handler) http.Handler { return b.mw }

// Lead puts mw ahead of the middlewares configured so far
func (b *Base) Lead(mw ...func(http.Handler) http.Handler) {
	b.mw = append(append([]func(http.Handler) http.Handler(nil), mw...), b.mw...)
}

// Mount registers routes under the prefix behind the module middlewares
func (b Base) Mount(r httpkit.Router, routes func(httpkit.Router)) {
	httpkit.MountUnder(r, b.prefix, b.mw, func(sub httpkit.Router) {
		if b.subrouter != nil {
			sub = b.subrouter(sub)
		}
		routes(sub)
		if b.extra != nil {
			b.extra(sub)
		}
	})
}
