// Package service runs relays: seed the chat engine then reframe its stream
package service

import (
	"context"
	"io"
	"time"

	"reqrelay/internal/adapters/chatengine"
	"reqrelay/internal/core/framing"
	"reqrelay/internal/core/requirements"
	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/platform/logger"
	"reqrelay/internal/services/api/relay/domain"
	"reqrelay/internal/services/api/relay/repo"

	"github.com/google/uuid"
)

// Engine opens a chat engine event stream
type Engine interface {
	Stream(ctx context.Context, req chatengine.Request, cookie string) (io.ReadCloser, error)
}

// Service is the public service port
type Service interface {
	Open(ctx context.Context, in domain.RelayInput, cookie string) (*Run, error)
	Stream(ctx context.Context, run *Run, sink framing.Sink) (framing.Stats, error)
}

// Run is an accepted relay whose engine stream is open but not yet forwarded
type Run struct {
	ID       string
	Existing bool
	Target   string
	FileName string
	Lines    int

	body io.ReadCloser
}

// Close releases the engine stream of a run that will never be streamed
func (r *Run) Close() error {
	if r == nil || r.body == nil {
		return nil
	}
	err := r.body.Close()
	r.body = nil
	return err
}

// Svc implements Service
type Svc struct {
	engine        Engine
	ledger        repo.Ledger
	ledgerTimeout time.Duration
	workDir       string
	log           logger.Logger
	now           func() time.Time
	newID         func() string
}

// Options control service behavior
type Options struct {
	WorkDir string

	// Ledger is optional; when set every outward frame is recorded after the run
	Ledger        repo.Ledger
	LedgerTimeout time.Duration

	Log   *logger.Logger
	Now   func() time.Time
	NewID func() string
}

// New constructs the service
func New(engine Engine, opt Options) *Svc {
	if engine == nil {
		panic("relay.Service requires a non nil Engine")
	}
	s := &Svc{
		engine:        engine,
		ledger:        opt.Ledger,
		ledgerTimeout: opt.LedgerTimeout,
		workDir:       opt.WorkDir,
		now:           opt.Now,
		newID:         opt.NewID,
	}
	if opt.Log != nil {
		s.log = *opt.Log
	} else {
		s.log = *logger.Named("relay")
	}
	if s.workDir == "" {
		s.workDir = requirements.DefaultWorkDir
	}
	if s.ledgerTimeout <= 0 {
		s.ledgerTimeout = 5 * time.Second
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	return s
}

// Open synthesizes the seed and starts the engine call
// Failures here happen before anything is written outward
func (s *Svc) Open(ctx context.Context, in domain.RelayInput, cookie string) (*Run, error) {
	run := &Run{
		ID:       s.newID(),
		Existing: in.Existing(),
		Target:   in.Routing(),
		FileName: in.File(),
	}
	log := s.runLog(run)

	seed, err := requirements.Build(in.Text(), run.Existing, s.workDir)
	if err != nil {
		log.Warn().Err(err).Msg("relay rejected")
		return nil, err
	}
	run.Lines = len(seed.Lines)
	log.Info().Int("lines", run.Lines).Int("content_len", len(in.Text())).Msg("relay seeded")

	body, err := s.engine.Stream(ctx, chatengine.RequestFromSeed(seed, run.Target), cookie)
	if err != nil {
		log.Error().Err(err).Msg("chat engine request failed")
		return nil, err
	}
	run.body = body
	return run, nil
}

// Stream forwards the run's engine stream into sink between the bracketing progress frames
func (s *Svc) Stream(ctx context.Context, run *Run, sink framing.Sink) (framing.Stats, error) {
	if run == nil || run.body == nil {
		return framing.Stats{}, perr.InvalidArgf("relay run is not open")
	}
	log := s.runLog(run)

	var rec *recorder
	if s.ledger != nil {
		rec = newRecorder(sink, run.ID, s.now)
		sink = rec
	}

	body := run.body
	run.body = nil
	st, err := framing.Reframe(ctx, body, sink, run.Existing, log)

	evt := log.Info()
	if err != nil {
		evt = log.Warn().Err(err)
	}
	evt.Int("forwarded", st.Forwarded).
		Int("dropped", st.Dropped).
		Int("ignored", st.Ignored).
		Msg("relay finished")

	if rec != nil {
		s.persist(ctx, rec.recs, log)
	}
	return st, err
}

// persist outlives a disconnected client so partial runs are still recorded
func (s *Svc) persist(ctx context.Context, recs []domain.FrameRecord, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.ledgerTimeout)
	defer cancel()
	if err := s.ledger.Append(ctx, recs); err != nil {
		log.Error().Err(err).Int("frames", len(recs)).Msg("relay ledger append failed")
	}
}

func (s *Svc) runLog(run *Run) logger.Logger {
	return s.log.With().
		Str("relay_id", run.ID).
		Str("file", run.FileName).
		Str("target", run.Target).
		Bool("existing", run.Existing).
		Logger()
}
