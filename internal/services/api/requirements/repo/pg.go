package repo

import (
	"context"
	"errors"
	"time"

	"reqrelay/internal/modkit/repokit"
	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/platform/store"
	"reqrelay/internal/services/api/requirements/domain"
)

// Schema creates the single-row mailbox table
const Schema = `
CREATE TABLE IF NOT EXISTS requirements_mailbox (
	slot       smallint    PRIMARY KEY DEFAULT 1 CHECK (slot = 1),
	id         uuid        NOT NULL,
	content    text        NOT NULL,
	target     text,
	created_at timestamptz NOT NULL,
	processed  boolean     NOT NULL DEFAULT false
)`

type (
	// PG binds the mailbox to a Postgres Queryer
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres mailbox
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres mailbox
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: repokit.RequireQueryer(q)} }

// Put upserts the only row and resets the processed flag
func (r *queries) Put(ctx context.Context, e domain.Entry) error {
	const sql = `
		INSERT INTO requirements_mailbox (slot, id, content, target, created_at, processed)
		VALUES (1, $1::uuid, $2, NULLIF($3, ''), $4, false)
		ON CONFLICT (slot) DO UPDATE SET
			id         = EXCLUDED.id,
			content    = EXCLUDED.content,
			target     = EXCLUDED.target,
			created_at = EXCLUDED.created_at,
			processed  = false`
	if _, err := store.Exec(ctx, r.q, sql, e.ID, e.Content, e.Target, e.CreatedAt); err != nil {
		return perr.FromPostgres(err, "store requirements")
	}
	return nil
}

// MarkProcessed flags the row in one statement and reports what it saw
// the id check runs on the updated row itself, so an UPDATE that waited on a
// concurrent Put re-checks against the new entry and leaves it unprocessed
func (r *queries) MarkProcessed(ctx context.Context, entryID string) (bool, error) {
	const sql = `
		WITH cur AS (
			SELECT id FROM requirements_mailbox WHERE slot = 1
		), upd AS (
			UPDATE requirements_mailbox m SET processed = true
			WHERE m.slot = 1 AND ($1 = '' OR m.id::text = $1)
			RETURNING m.id
		)
		SELECT (SELECT count(*) FROM cur), (SELECT count(*) FROM upd)`
	var present, updated int64
	if err := r.q.QueryRow(ctx, sql, entryID).Scan(&present, &updated); err != nil {
		return false, perr.FromPostgres(err, "mark requirements processed")
	}
	switch {
	case present == 0:
		return false, nil
	case updated == 0:
		return false, staleAck(entryID)
	}
	return true, nil
}

// Peek reads the only row
func (r *queries) Peek(ctx context.Context) (domain.Entry, bool, error) {
	const sql = `
		SELECT id::text, content, target, created_at, processed
		FROM requirements_mailbox WHERE slot = 1`
	e, err := store.One(ctx, r.q, scanEntry, sql)
	if errors.Is(err, perr.ErrNotFound) {
		return domain.Entry{}, false, nil
	}
	if err != nil {
		return domain.Entry{}, false, perr.FromPostgres(err, "read requirements")
	}
	return e, true, nil
}

func scanEntry(row store.Row) (domain.Entry, error) {
	var (
		e      domain.Entry
		target *string
		at     time.Time
	)
	if err := row.Scan(&e.ID, &e.Content, &target, &at, &e.Processed); err != nil {
		return domain.Entry{}, err
	}
	if target != nil {
		e.Target = *target
	}
	e.CreatedAt = at.UTC()
	return e, nil
}
