package framing

import (
	"context"
	"errors"
	"io"

	"reqrelay/internal/platform/logger"
)

// Sink receives outward frames in order
type Sink interface {
	Send(v any) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(v any) error

// Send implements Sink
func (f SinkFunc) Send(v any) error { return f(v) }

// Stats summarizes one reframe run
type Stats struct {
	Forwarded int
	Dropped   int
	Ignored   int
}

// Reframe brackets the recognized frames of src between the opening and closing
// progress frames and writes them to sink. src is closed on every return path.
// The closing frame is only written when src ended cleanly
func Reframe(ctx context.Context, src io.ReadCloser, sink Sink, existing bool, log logger.Logger) (st Stats, err error) {
	defer func() {
		if cerr := src.Close(); cerr != nil {
			log.Debug().Err(cerr).Msg("closing inbound stream")
		}
	}()

	if err := sink.Send(Opening(existing)); err != nil {
		return st, err
	}

	dec := NewDecoder(src, log)
	defer func() {
		st.Dropped, st.Ignored = dec.Dropped, dec.Ignored
	}()

	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		f, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return st, ctxErr
			}
			return st, err
		}
		if err := sink.Send(f); err != nil {
			return st, err
		}
		st.Forwarded++
	}

	if err := sink.Send(Closing(existing)); err != nil {
		return st, err
	}
	return st, nil
}
