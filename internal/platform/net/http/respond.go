// Package http is the transport layer: a chi backed router seam, the JSON envelope and event streams
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "reqrelay/internal/platform/errors"
	lumnet "reqrelay/internal/platform/net"
)

// Envelope wraps every JSON body the API writes
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Response is the value return-style handlers produce
// Body may be an error, in which case status comes from the error code
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// NoContent returns a 204 response
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error returns a response mapped from err
func Error(err error) Response { return Response{Body: err} }

// Handle adapts a return-style handler
func Handle(h func(*stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) { h(r).write(w, r) }
}

// RespondError writes err as an error envelope
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	Error(err).write(w, r)
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}

	env := Envelope{StatusCode: resp.Status, RequestID: lumnet.RequestID(r.Context())}
	if err, ok := resp.Body.(error); ok && err != nil {
		wire := perr.WireFrom(err)
		env.StatusCode, env.Code, env.Error = perr.HTTPStatus(err), wire.Code, wire.Message
	} else {
		env.Data = resp.Body
	}
	if env.StatusCode == 0 {
		env.StatusCode = stdhttp.StatusOK
	}
	if env.StatusCode == stdhttp.StatusNoContent {
		w.WriteHeader(stdhttp.StatusNoContent)
		return
	}
	env.Status = stdhttp.StatusText(env.StatusCode)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(env.StatusCode)
	_ = json.NewEncoder(w).Encode(env)
}
