package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code string) error { return &pgconn.PgError{Code: code, Message: "pg " + code} }

func TestDBErrorCode(t *testing.T) {
	cases := map[string]ErrorCode{
		"23505": ErrorCodeDuplicateKey,
		"23503": ErrorCodeInvalidArgument,
		"23502": ErrorCodeValidation,
		"22P02": ErrorCodeInvalidArgument,
		"40001": ErrorCodeDB,
		"57P03": ErrorCodeUnavailable,
		"XX000": ErrorCodeDB,
	}
	for state, want := range cases {
		got, ok := DBErrorCode(fmt.Errorf("exec: %w", pgErr(state)))
		if !ok || got != want {
			t.Errorf("%s: got %v ok=%v, want %v", state, got, ok, want)
		}
	}
	if _, ok := DBErrorCode(stderrs.New("plain")); ok {
		t.Fatalf("plain errors are not pg errors")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil || FromPostgresf(nil, "x %d", 1) != nil {
		t.Fatalf("nil should stay nil")
	}

	err := FromPostgresf(pgErr("23505"), "store conversation %s", "c1")
	if CodeOf(err) != ErrorCodeDuplicateKey {
		t.Fatalf("code = %v", CodeOf(err))
	}
	if pe, ok := PgError(err); !ok || pe.Code != "23505" {
		t.Fatalf("pg error not reachable through the wrap")
	}

	if CodeOf(FromPostgres(stderrs.New("conn closed"), "read")) != ErrorCodeDB {
		t.Fatalf("non pg errors map to DB")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{pgErr("40001"), true},
		{pgErr("40P01"), true},
		{pgErr("23505"), false},
		{stderrs.New("ERROR: commit unexpectedly resulted in rollback"), true},
		{stderrs.New("syntax error"), false},
		{fmt.Errorf("query: %w", context.DeadlineExceeded), false},
		{context.Canceled, false},
	}
	for i, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Errorf("case %d (%v): got %v want %v", i, c.err, got, c.want)
		}
	}
	if !Retryable(FromPostgres(pgErr("40P01"), "ack")) {
		t.Fatalf("Retryable should defer to the pg classification")
	}
}
