// Package repo records relayed frames in ClickHouse
package repo

import (
	"context"

	"reqrelay/internal/platform/store"
	"reqrelay/internal/services/api/relay/domain"
)

// Table holds one row per outward frame
const Table = "relay_frames"

// Schema creates the ledger table
const Schema = `
CREATE TABLE IF NOT EXISTS relay_frames (
	relay_id String,
	seq      UInt32,
	at       DateTime64(3, 'UTC'),
	kind     LowCardinality(String),
	label    LowCardinality(String),
	status   LowCardinality(String),
	payload  String
) ENGINE = MergeTree
ORDER BY (relay_id, seq)`

// Ledger appends frame records
type Ledger interface {
	Append(ctx context.Context, recs []domain.FrameRecord) error
}

// CH is the ClickHouse ledger
type CH struct{ ch store.Clickhouse }

// NewCH binds the ledger to a ClickHouse seam
func NewCH(c store.Clickhouse) *CH {
	if c == nil {
		panic("relay ledger requires a clickhouse seam")
	}
	return &CH{ch: c}
}

// EnsureSchema creates the table when missing
func (l *CH) EnsureSchema(ctx context.Context) error {
	return l.ch.Exec(ctx, Schema)
}

// Append writes recs as one batch
func (l *CH) Append(ctx context.Context, recs []domain.FrameRecord) error {
	if len(recs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []any{r.RelayID, r.Seq, r.At, r.Kind, r.Label, r.Status, r.Payload})
	}
	return l.ch.Insert(ctx, Table, rows)
}
