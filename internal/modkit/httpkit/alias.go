// Package httpkit is the handler and routing surface modules build on
// modules import this instead of internal/platform/net/http
package httpkit

import (
	"net/http"

	phttp "reqrelay/internal/platform/net/http"
	"reqrelay/internal/platform/net/http/bind"
)

type (
	// Envelope is the JSON body every endpoint answers with
	Envelope = phttp.Envelope

	// Response is what return-style handlers produce
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router

	// EventStream writes text/event-stream frames
	EventStream = phttp.EventStream
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error returns a response whose status and envelope come from err
func Error(err error) Response { return phttp.Error(err) }

// JSON decodes a strict JSON body into T before calling fn
// unknown fields are rejected and validate tags run first
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler {
	return decoded(fn, func(r *http.Request) (T, error) { return bind.ParseJSON[T](r) })
}

// Body is JSON that also accepts urlencoded and multipart posts
func Body[T any](fn func(*http.Request, T) (any, error), opts ...bind.BodyOptions) Handler {
	return decoded(fn, func(r *http.Request) (T, error) { return bind.ParseBody[T](r, opts...) })
}

// Call adapts a handler that reads no body
func Call(fn func(*http.Request) (any, error)) Handler {
	return decoded(func(r *http.Request, _ struct{}) (any, error) { return fn(r) },
		func(*http.Request) (struct{}, error) { return struct{}{}, nil })
}

func decoded[T any](fn func(*http.Request, T) (any, error), parse func(*http.Request) (T, error)) Handler {
	return phttp.Handle(func(r *http.Request) Response {
		in, err := parse(r)
		if err != nil {
			return phttp.Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return phttp.Error(err)
		}
		// handlers may pick their own status
		if resp, ok := out.(Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// NewEventStream wraps w for streaming; headers are committed on the first frame
func NewEventStream(w http.ResponseWriter) *EventStream { return phttp.NewEventStream(w) }

// RespondError writes err as an error envelope
func RespondError(w http.ResponseWriter, r *http.Request, err error) { phttp.RespondError(w, r, err) }

// ParseBody decodes a JSON or form body into T and validates it
func ParseBody[T any](r *http.Request, opts ...bind.BodyOptions) (T, error) {
	return bind.ParseBody[T](r, opts...)
}

// RequireParam returns a path parameter or a validation error when it is empty
func RequireParam(r *http.Request, name string) (string, error) { return phttp.RequireParam(r, name) }
