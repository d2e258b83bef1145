package repo

import (
	"context"
	"encoding/json"
	"errors"

	"reqrelay/internal/modkit/repokit"
	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/platform/store"
	"reqrelay/internal/services/api/conversations/domain"
)

// Schema creates the history table
const Schema = `
CREATE TABLE IF NOT EXISTS conversation_messages (
	conversation_id text        PRIMARY KEY,
	messages        jsonb       NOT NULL,
	message_count   integer     NOT NULL,
	updated_at      timestamptz NOT NULL
)`

type (
	// PG binds histories to a Postgres Queryer
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres store
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: repokit.RequireQueryer(q)} }

// Save upserts the history row
func (r *queries) Save(ctx context.Context, h domain.History) error {
	doc, err := json.Marshal(h.Messages)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode messages")
	}
	const sql = `
		INSERT INTO conversation_messages (conversation_id, messages, message_count, updated_at)
		VALUES ($1, $2::jsonb, $3, $4)
		ON CONFLICT (conversation_id) DO UPDATE SET
			messages      = EXCLUDED.messages,
			message_count = EXCLUDED.message_count,
			updated_at    = EXCLUDED.updated_at`
	if _, err := store.Exec(ctx, r.q, sql, h.ID, string(doc), len(h.Messages), h.UpdatedAt); err != nil {
		return perr.FromPostgresf(err, "save conversation %s", h.ID)
	}
	return nil
}

// Load reads the history row
func (r *queries) Load(ctx context.Context, id string) (domain.History, error) {
	const sql = `
		SELECT conversation_id, messages::text, updated_at
		FROM conversation_messages WHERE conversation_id = $1`
	h, err := store.One(ctx, r.q, scanHistory, sql, id)
	if errors.Is(err, perr.ErrNotFound) {
		return domain.History{}, perr.NotFoundf("conversation %s not found", id)
	}
	if err != nil {
		return domain.History{}, perr.FromPostgresf(err, "load conversation %s", id)
	}
	return h, nil
}

func scanHistory(row store.Row) (domain.History, error) {
	var (
		h   domain.History
		doc string
	)
	if err := row.Scan(&h.ID, &doc, &h.UpdatedAt); err != nil {
		return domain.History{}, err
	}
	if err := json.Unmarshal([]byte(doc), &h.Messages); err != nil {
		return domain.History{}, perr.Wrap(err, perr.ErrorCodeJSON, "decode messages")
	}
	h.UpdatedAt = h.UpdatedAt.UTC()
	return h, nil
}
