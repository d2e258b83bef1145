package http

import (
	"encoding/json"
	"fmt"
	stdhttp "net/http"

	perr "reqrelay/internal/platform/errors"
)

// EventStream writes text/event-stream frames of the form "data: <json>\n\n"
// Each frame is flushed as soon as it is written
type EventStream struct {
	w       stdhttp.ResponseWriter
	rc      *stdhttp.ResponseController
	started bool
}

// NewEventStream wraps w; headers are not sent until the first frame or Start
func NewEventStream(w stdhttp.ResponseWriter) *EventStream {
	return &EventStream{w: w, rc: stdhttp.NewResponseController(w)}
}

// Started reports whether headers have been committed
func (s *EventStream) Started() bool { return s.started }

// Start commits the event-stream headers with a 200 status
func (s *EventStream) Start() {
	if s.started {
		return
	}
	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	s.w.WriteHeader(stdhttp.StatusOK)
	s.started = true
}

// Send marshals v and writes it as one frame
func (s *EventStream) Send(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode event")
	}
	return s.SendRaw(b)
}

// SendRaw writes an already encoded JSON payload as one frame
func (s *EventStream) SendRaw(payload []byte) error {
	s.Start()
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	// writers that cannot flush still receive the bytes
	if err := s.rc.Flush(); err != nil && err != stdhttp.ErrNotSupported {
		return err
	}
	return nil
}
