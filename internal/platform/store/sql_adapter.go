package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/platform/store/pg"
)

// pgxQuerier is what a pool and a pgx.Tx have in common
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced forwards to q and hands every finished statement to tracer
// pgx.Rows and pgconn.CommandTag already satisfy Rows and CommandTag
type traced struct {
	q      pgxQuerier
	tracer pg.QueryTracer
	slowMs int
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	done := t.observe(ctx, sql, args)
	ct, err := t.q.Exec(ctx, sql, args...)
	done(err)
	return ct, err
}

func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	done := t.observe(ctx, sql, args)
	rs, err := t.q.Query(ctx, sql, args...)
	done(err)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// QueryRow reports after Scan so a missing row shows up in the event
func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return scanHook{Row: t.q.QueryRow(ctx, sql, args...), done: t.observe(ctx, sql, args)}
}

// observe starts the clock for one statement; the returned func reports it
func (t traced) observe(ctx context.Context, sql string, args []any) func(error) {
	if t.tracer == nil {
		return func(error) {}
	}
	began := time.Now()
	return func(err error) {
		took := time.Since(began)
		t.tracer.OnQuery(ctx, pg.QueryEvent{
			SQL:       sql,
			Args:      args,
			ElapsedUS: took.Microseconds(),
			Err:       err,
			Slow:      t.slowMs >= 0 && took >= time.Duration(t.slowMs)*time.Millisecond,
		})
	}
}

type scanHook struct {
	Row
	done func(error)
}

func (s scanHook) Scan(dst ...any) error {
	err := s.Row.Scan(dst...)
	s.done(err)
	return err
}

// pgAdapter is the TxRunner over a pg pool
type pgAdapter struct {
	traced
	db *pg.PG
}

func newPGAdapter(db *pg.PG) *pgAdapter {
	return &pgAdapter{db: db, traced: traced{q: db.Pool, tracer: db.Tracer, slowMs: db.SlowMs}}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.db == nil {
		return perr.New(perr.ErrorCodeUnavailable, "postgres not connected")
	}
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *pgAdapter) Close() error {
	a.db.Close()
	return nil
}

// Tx runs fn on a traced transaction; fn's error rolls it back
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) (err error) {
	tx, err := a.db.Pool.Begin(ctx)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()
	if err = fn(traced{q: tx, tracer: a.tracer, slowMs: a.slowMs}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
