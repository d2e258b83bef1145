// Package service implements the requirements mailbox workflows
package service

import (
	"context"
	"strings"
	"time"

	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/platform/logger"
	"reqrelay/internal/services/api/requirements/domain"
	"reqrelay/internal/services/api/requirements/repo"

	"github.com/google/uuid"
)

// Service is the public service port
type Service interface {
	domain.ServicePort
	Handle(ctx context.Context, in domain.SubmitInput) (domain.Ack, error)
}

// Svc implements the service port over a mailbox repo
type Svc struct {
	repo  repo.Repo
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

// Options control service behavior
type Options struct {
	Log   *logger.Logger
	Now   func() time.Time
	NewID func() string
}

// New constructs the service
func New(r repo.Repo, opt Options) *Svc {
	if r == nil {
		panic("requirements.Service requires a non nil Repo")
	}
	s := &Svc{repo: r, now: opt.Now, newID: opt.NewID}
	if opt.Log != nil {
		s.log = *opt.Log
	} else {
		s.log = *logger.Named("requirements")
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	return s
}

// Handle dispatches an ingest body to Submit or MarkProcessed
func (s *Svc) Handle(ctx context.Context, in domain.SubmitInput) (domain.Ack, error) {
	if in.MarkAsProcessed {
		return s.MarkProcessed(ctx, in.EntryID)
	}
	return s.Submit(ctx, in.Text(), in.Routing())
}

// Submit replaces the mailbox entry
func (s *Svc) Submit(ctx context.Context, content, target string) (domain.Ack, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Ack{}, perr.WithField(
			perr.Validationf(`requirements content is required and must be a string (use field name "content" or "requirements")`),
			"content",
		)
	}
	e := domain.Entry{
		ID:        s.newID(),
		Content:   content,
		Target:    strings.TrimSpace(target),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Put(ctx, e); err != nil {
		return domain.Ack{}, err
	}
	s.log.Info().
		Str("entry_id", e.ID).
		Str("target", e.Target).
		Int("content_len", len(e.Content)).
		Msg("requirements stored")
	return domain.Ack{Success: true, Message: "Requirements received", ID: e.ID}, nil
}

// MarkProcessed flags the current entry; entryID may be empty
func (s *Svc) MarkProcessed(ctx context.Context, entryID string) (domain.Ack, error) {
	ok, err := s.repo.MarkProcessed(ctx, entryID)
	if err != nil {
		return domain.Ack{}, err
	}
	if !ok {
		return domain.Ack{}, perr.NotFoundf("no requirements to mark as processed")
	}
	s.log.Info().Str("entry_id", entryID).Msg("requirements marked processed")
	return domain.Ack{Success: true, Message: "Requirements marked as processed", ID: entryID}, nil
}

// Status projects the mailbox without mutating it
func (s *Svc) Status(ctx context.Context) (domain.Status, error) {
	e, ok, err := s.repo.Peek(ctx)
	if err != nil {
		return domain.Status{}, err
	}
	return domain.StatusOf(e, ok), nil
}
