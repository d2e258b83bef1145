package framing

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"reqrelay/internal/platform/testkit"
)

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error { c.closed = true; return nil }

type captureSink struct {
	frames []Frame
	failAt int
}

func (s *captureSink) Send(v any) error {
	if s.failAt > 0 && len(s.frames)+1 == s.failAt {
		return errors.New("consumer gone")
	}
	s.frames = append(s.frames, v.(Frame))
	return nil
}

func TestReframe_BracketsForwardedFrames(t *testing.T) {
	log, _ := testkit.CaptureLogger()
	src := &closeTracker{Reader: strings.NewReader(twoFrames)}
	sink := &captureSink{}

	st, err := Reframe(context.Background(), src, sink, false, log)
	if err != nil {
		t.Fatalf("Reframe: %v", err)
	}
	if len(sink.frames) != 4 {
		t.Fatalf("got %d frames: %+v", len(sink.frames), sink.frames)
	}
	first, last := sink.frames[0], sink.frames[3]
	if first.Label != LabelFileProcessing || first.Status != StatusComplete || first.Message != "File processed successfully" {
		t.Fatalf("opening = %+v", first)
	}
	if last.Label != LabelPreview || last.Status != StatusComplete || last.Message != "Code generation and deployment complete" {
		t.Fatalf("closing = %+v", last)
	}
	if sink.frames[1].Type != KindMessage || sink.frames[2].Type != KindCodeContext {
		t.Fatalf("forwarded order wrong: %+v", sink.frames[1:3])
	}
	if st.Forwarded != 2 || !src.closed {
		t.Fatalf("stats=%+v closed=%v", st, src.closed)
	}
}

func TestReframe_ExistingProjectWording(t *testing.T) {
	log, _ := testkit.CaptureLogger()
	sink := &captureSink{}
	_, err := Reframe(context.Background(), &closeTracker{Reader: strings.NewReader("")}, sink, true, log)
	if err != nil {
		t.Fatalf("Reframe: %v", err)
	}
	if len(sink.frames) != 2 ||
		sink.frames[0].Message != "Feature requests processed successfully" ||
		sink.frames[1].Message != "Feature implementation and deployment complete" {
		t.Fatalf("unexpected frames: %+v", sink.frames)
	}
}

func TestReframe_SinkFailureClosesSource(t *testing.T) {
	log, _ := testkit.CaptureLogger()
	src := &closeTracker{Reader: strings.NewReader(twoFrames)}
	sink := &captureSink{failAt: 2}

	if _, err := Reframe(context.Background(), src, sink, false, log); err == nil {
		t.Fatalf("expected sink error")
	}
	if !src.closed {
		t.Fatalf("source must be closed on error")
	}
	if len(sink.frames) != 1 {
		t.Fatalf("no closing frame expected after failure, got %+v", sink.frames)
	}
}

func TestReframe_CanceledContextStops(t *testing.T) {
	log, _ := testkit.CaptureLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &closeTracker{Reader: strings.NewReader(twoFrames)}
	sink := &captureSink{}

	_, err := Reframe(ctx, src, sink, false, log)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want canceled", err)
	}
	if !src.closed || len(sink.frames) != 1 {
		t.Fatalf("closed=%v frames=%d", src.closed, len(sink.frames))
	}
}

func TestReframe_MalformedCounted(t *testing.T) {
	log, _ := testkit.CaptureLogger()
	sink := &captureSink{}
	st, err := Reframe(context.Background(), &closeTracker{Reader: strings.NewReader("data: nope\n" + twoFrames)}, sink, false, log)
	if err != nil || st.Dropped != 1 || st.Forwarded != 2 || len(sink.frames) != 4 {
		t.Fatalf("err=%v stats=%+v frames=%d", err, st, len(sink.frames))
	}
}
