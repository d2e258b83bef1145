// Package store opens the optional storage backends and exposes them behind small seams
// Postgres backs the mailbox and conversation histories; ClickHouse backs the relay ledger
package store

import (
	"context"
	"errors"
	"fmt"

	"reqrelay/internal/platform/logger"
)

// Row is a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set; callers must Close it
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag reports what a statement did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier runs SQL statements
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner is a RowQuerier that can also run fn inside one transaction
// fn's error rolls the transaction back
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam; Insert takes rows as [][]any in column order
type Clickhouse interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Insert(ctx context.Context, table string, data any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger is implemented by backends that can report liveness
type Pinger interface{ Ping(context.Context) error }

// Store holds whichever backends were enabled; a nil field means disabled
type Store struct {
	Log logger.Logger
	PG  TxRunner
	CH  Clickhouse
}

// Option configures Open
type Option func(*Store) error

// WithLogger sets the logger backends trace and warn through
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// Open connects every backend enabled in cfg
// A failing backend aborts the open and closes the ones already connected
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	if cfg.PG.Enabled {
		pg, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		s.PG = pg
	}
	if cfg.CH.Enabled {
		ch, err := openCH(ctx, cfg, s)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("open clickhouse: %w", err), s.Close(ctx))
		}
		s.CH = ch
	}
	return s, nil
}

// Guard pings every enabled backend that supports it and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil store")
	}
	var errs []error
	for name, b := range map[string]any{"pg": s.PG, "ch": s.CH} {
		if p, ok := b.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases every backend; disabled ones are skipped
func (s *Store) Close(context.Context) error {
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
