package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"reqrelay/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpen_ParseError(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpen_PoolError(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})
	if _, err := Open(context.Background(), Config{URL: "postgres://u:p@h:5432/db"}, nil, nil); err == nil {
		t.Fatalf("expected pool error")
	}
}

func TestOpen_AppliesConfig(t *testing.T) {
	testkit.Serial(t)

	var seen *pgxpool.Config
	testkit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return &pgxpool.Pool{}, nil
	})

	cfg := Config{URL: "postgres://u:p@h:5432/db?sslmode=disable", AppName: "reqrelay-api", MaxConns: 7, SlowMs: 250}
	p, err := Open(context.Background(), cfg, nil, func(pc *pgxpool.Config) {
		pc.MaxConnIdleTime = time.Minute
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if seen.MaxConns != 7 || seen.MaxConnIdleTime != time.Minute {
		t.Fatalf("pool config not applied: %d %v", seen.MaxConns, seen.MaxConnIdleTime)
	}
	if got := seen.ConnConfig.RuntimeParams["application_name"]; got != "reqrelay-api" {
		t.Fatalf("application_name = %q", got)
	}
	if p.SlowMs != 250 || p.Pool == nil {
		t.Fatalf("unexpected client %+v", p)
	}
}

func TestClose_NilSafe(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}
