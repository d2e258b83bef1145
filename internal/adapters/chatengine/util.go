package chatengine

import (
	"errors"
	"io"
	"net/http"
)

// StatusError wraps a non-2xx engine response; it unwraps to an upstream coded error
type StatusError struct {
	Status int
	Body   string
	Err    error
}

// Error interface
func (e *StatusError) Error() string { return e.Err.Error() }

// Unwrap interface
func (e *StatusError) Unwrap() error { return e.Err }

// HTTPStatus interface
func (e *StatusError) HTTPStatus() int { return e.Status }

// StatusOf returns the engine status carried by err, or 0
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

func transient(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// drainAndClose returns a short body tail for diagnostics and closes rc
func drainAndClose(rc io.ReadCloser) string {
	b, _ := io.ReadAll(io.LimitReader(rc, 512))
	_ = rc.Close()
	return string(b)
}
