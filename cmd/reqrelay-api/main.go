// @title         reqrelay API
// @version       0.1.0
// @description   Requirements mailbox, stream relay and conversation history

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reqrelay/internal/modkit/repokit"
	"reqrelay/internal/platform/config"
	"reqrelay/internal/platform/logger"
	phttp "reqrelay/internal/platform/net/http"
	"reqrelay/internal/platform/store"

	"reqrelay/internal/services/api"

	"golang.org/x/sync/errgroup"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// both backends are optional; the mailbox and histories default to memory
	cfg := store.Config{AppName: "reqrelay-api"}
	if pgCfg.MayBool("ENABLED", false) {
		cfg.PG = store.PGConfig{
			Enabled:        true,
			URL:            pgCfg.MustString("DBURL"),
			MaxConns:       int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs:    pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:         pgCfg.MayBool("LOG_SQL", false),
			ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 6),
			PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 5*time.Second),
		}
	}
	if chCfg.MayBool("ENABLED", false) {
		cfg.CH = store.CHConfig{
			Enabled: true,
			URL:     chCfg.MustString("DBURL"),
			Role:    "api",
		}
	}

	st, err := store.Open(ctx, cfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)
	if err := api.EnsureSchema(ctx, st); err != nil {
		l.Panic().Err(err).Msg("schema bootstrap failed")
	}

	// reads CORE_API_API_PORT
	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", nil),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
