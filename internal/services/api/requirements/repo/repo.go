// Package repo provides the single-slot mailbox stores
package repo

import (
	"context"
	"sync"

	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/services/api/requirements/domain"
)

// Repo is the mailbox surface used by the service layer
// Every call is atomic with respect to the others
type Repo interface {
	// Put replaces the slot unconditionally
	Put(ctx context.Context, e domain.Entry) error
	// MarkProcessed flags the current entry; false when the slot is empty
	// a non-empty entryID that no longer matches the slot yields a conflict error
	MarkProcessed(ctx context.Context, entryID string) (bool, error)
	// Peek returns a copy of the current entry
	Peek(ctx context.Context) (domain.Entry, bool, error)
}

// Memory is the in-process mailbox
type Memory struct {
	mu    sync.Mutex
	entry *domain.Entry
}

// NewMemory returns an empty in-process mailbox
func NewMemory() *Memory { return &Memory{} }

// Put replaces the slot
func (m *Memory) Put(_ context.Context, e domain.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = &e
	return nil
}

// MarkProcessed flags the current entry
func (m *Memory) MarkProcessed(_ context.Context, entryID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entry == nil {
		return false, nil
	}
	if entryID != "" && entryID != m.entry.ID {
		return false, staleAck(entryID)
	}
	m.entry.Processed = true
	return true, nil
}

// Peek returns a copy of the current entry
func (m *Memory) Peek(_ context.Context) (domain.Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entry == nil {
		return domain.Entry{}, false, nil
	}
	return *m.entry, true, nil
}

func staleAck(entryID string) error {
	return perr.WithField(perr.Conflictf("entry %s was replaced before acknowledgement", entryID), "entryId")
}
