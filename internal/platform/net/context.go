// Package net holds transport neutral request context helpers
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequestID stores id where chi's RequestID middleware would put it
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, id)
}

// RequestID returns the id set by WithRequestID or the RequestID middleware, or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
