package repokit

import (
	"context"
	"errors"
	"testing"
)

func TestWithTx(t *testing.T) {
	t.Parallel()

	tx := &recTx{recQ: &recQ{}}
	err := WithTx(context.Background(), tx, func(q Queryer) error {
		_, err := q.Exec(context.Background(), "insert")
		return err
	})
	if err != nil || tx.txCalls != 1 || len(tx.sql) != 1 {
		t.Fatalf("err=%v calls=%d sql=%v", err, tx.txCalls, tx.sql)
	}

	want := errors.New("fn failed")
	if err := WithTx(context.Background(), tx, func(Queryer) error { return want }); !errors.Is(err, want) {
		t.Fatalf("fn error not propagated: %v", err)
	}

	commit := errors.New("commit failed")
	tx.err = commit
	if err := WithTx(context.Background(), tx, func(Queryer) error { return nil }); !errors.Is(err, commit) {
		t.Fatalf("runner error not propagated: %v", err)
	}
}
