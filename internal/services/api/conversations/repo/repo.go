// Package repo stores conversation histories
package repo

import (
	"context"
	"sync"

	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/services/api/conversations/domain"
)

// Repo is the history surface used by the service layer
type Repo interface {
	Save(ctx context.Context, h domain.History) error
	Load(ctx context.Context, id string) (domain.History, error)
}

// Memory keeps histories in process
type Memory struct {
	mu   sync.RWMutex
	byID map[string]domain.History
}

// NewMemory returns an empty in-process store
func NewMemory() *Memory { return &Memory{byID: map[string]domain.History{}} }

// Save replaces the history of h.ID
func (m *Memory) Save(_ context.Context, h domain.History) error {
	h.Messages = append([]domain.Message(nil), h.Messages...)
	m.mu.Lock()
	m.byID[h.ID] = h
	m.mu.Unlock()
	return nil
}

// Load returns a copy of the history of id
func (m *Memory) Load(_ context.Context, id string) (domain.History, error) {
	m.mu.RLock()
	h, ok := m.byID[id]
	m.mu.RUnlock()
	if !ok {
		return domain.History{}, perr.NotFoundf("conversation %s not found", id)
	}
	h.Messages = append([]domain.Message(nil), h.Messages...)
	return h, nil
}
