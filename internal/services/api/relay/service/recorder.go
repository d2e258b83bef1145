package service

import (
	"encoding/json"
	"time"

	"reqrelay/internal/core/framing"
	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/services/api/relay/domain"
)

// rawSink is implemented by sinks that accept pre-encoded payloads
type rawSink interface {
	SendRaw(payload []byte) error
}

// recorder encodes each frame once, forwards it and keeps a ledger record
type recorder struct {
	inner framing.Sink
	id    string
	now   func() time.Time
	recs  []domain.FrameRecord
}

func newRecorder(inner framing.Sink, id string, now func() time.Time) *recorder {
	return &recorder{inner: inner, id: id, now: now}
}

func (r *recorder) Send(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode frame")
	}
	if raw, ok := r.inner.(rawSink); ok {
		err = raw.SendRaw(b)
	} else {
		err = r.inner.Send(v)
	}
	if err != nil {
		return err
	}

	rec := domain.FrameRecord{
		RelayID: r.id,
		Seq:     uint32(len(r.recs)),
		At:      r.now().UTC(),
		Payload: string(b),
	}
	if f, ok := v.(framing.Frame); ok {
		rec.Kind, rec.Label, rec.Status = string(f.Type), f.Label, f.Status
	}
	r.recs = append(r.recs, rec)
	return nil
}
