// Package service stores and serves conversation histories
package service

import (
	"context"
	"time"

	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/services/api/conversations/domain"
	"reqrelay/internal/services/api/conversations/repo"

	"github.com/google/uuid"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Svc implements the service port
type Svc struct {
	repo  repo.Repo
	now   func() time.Time
	newID func() string
}

// New constructs the service; now and newID may be nil
func New(r repo.Repo, now func() time.Time, newID func() string) *Svc {
	if r == nil {
		panic("conversations.Service requires a non nil Repo")
	}
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &Svc{repo: r, now: now, newID: newID}
}

// Save replaces the message list of id, assigning ids to messages that lack one
func (s *Svc) Save(ctx context.Context, id string, in domain.SaveInput) (domain.SaveOutput, error) {
	if id == "" {
		return domain.SaveOutput{}, perr.WithField(perr.Validationf("conversation id is required"), "id")
	}
	msgs := make([]domain.Message, len(in.Messages))
	for i, m := range in.Messages {
		if m.ID == "" {
			m.ID = s.newID()
		}
		msgs[i] = m
	}
	h := domain.History{ID: id, Messages: msgs, UpdatedAt: s.now().UTC()}
	if err := s.repo.Save(ctx, h); err != nil {
		return domain.SaveOutput{}, err
	}
	return domain.SaveOutput{ID: id, Count: len(msgs), UpdatedAt: h.UpdatedAt}, nil
}

// Load returns the stored history of id
func (s *Svc) Load(ctx context.Context, id string) (domain.History, error) {
	if id == "" {
		return domain.History{}, perr.WithField(perr.Validationf("conversation id is required"), "id")
	}
	return s.repo.Load(ctx, id)
}
