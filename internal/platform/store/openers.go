package store

import (
	"context"
	"fmt"
	"time"

	"reqrelay/internal/core/version"
	chx "reqrelay/internal/platform/store/ch"
	"reqrelay/internal/platform/store/pg"
)

const (
	defaultConnectRetries = 6
	defaultPingTimeout    = 5 * time.Second
	backoffStart          = 250 * time.Millisecond
	backoffCeiling        = 8 * time.Second
)

// openPG opens the pool and waits for the server to answer before handing out the adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = defaultConnectRetries
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		// ping the pool directly so boot retries stay out of the SQL trace
		lastErr = p.Pool.Ping(pingCtx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}

		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Int("of", attempts).Msg("postgres not ready")
		select {
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	role := cfg.CH.Role
	if role == "" {
		role = cfg.AppName
	}
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: role, Tag: version.Info().Version})
	if err != nil {
		return nil, err
	}
	return chAdapter{c: c}, nil
}
