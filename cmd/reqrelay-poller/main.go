package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"reqrelay/internal/modkit"
	"reqrelay/internal/modkit/module"
	"reqrelay/internal/platform/config"
	"reqrelay/internal/platform/logger"

	pollmod "reqrelay/internal/services/poller/module"

	"golang.org/x/sync/errgroup"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	var (
		fBase     = flag.String("base-url", "", "reqrelay API base url (POLLER_BASE_URL)")
		fInterval = flag.Duration("interval", 0, "poll interval (POLLER_INTERVAL, default 3s)")
		fWindow   = flag.Duration("sample-window", 0, "history persistence window (POLLER_SAMPLE_WINDOW, default 50ms)")
		fLocation = flag.String("location", "", "initial session location, / or /chat/<id> (POLLER_LOCATION)")
	)
	flag.Parse()

	// flags win over env; export them so FromConfig sees one source
	mustSetEnv("POLLER_BASE_URL", *fBase)
	mustSetEnv("POLLER_LOCATION", *fLocation)
	if *fInterval > 0 {
		mustSetEnv("POLLER_INTERVAL", fInterval.String())
	}
	if *fWindow > 0 {
		mustSetEnv("POLLER_SAMPLE_WINDOW", fWindow.String())
	}

	l := logger.Get()
	deps := modkit.Deps{Cfg: config.New(), Log: *l}

	pm := pollmod.New(deps, pollmod.Options{}, nil)
	ports := module.MustPortsOf[pollmod.Ports](pm)
	defer ports.Session.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ports.Worker.Run(gctx) })
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		l.Error().Err(err).Msg("poller stopped")
	}
}
