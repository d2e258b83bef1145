// Package api provides the HTTP API for the application
package api

import (
	"context"

	"reqrelay/internal/platform/config"
	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/platform/logger"
	phttp "reqrelay/internal/platform/net/http"
	"reqrelay/internal/platform/store"

	"reqrelay/internal/modkit"
	"reqrelay/internal/modkit/httpkit"
	"reqrelay/internal/modkit/repokit"
	"reqrelay/internal/modkit/swaggerkit"

	convmod "reqrelay/internal/services/api/conversations/module"
	convrepo "reqrelay/internal/services/api/conversations/repo"
	metamod "reqrelay/internal/services/api/meta/module"
	relaymod "reqrelay/internal/services/api/relay/module"
	relayrepo "reqrelay/internal/services/api/relay/repo"
	reqmod "reqrelay/internal/services/api/requirements/module"
	reqrepo "reqrelay/internal/services/api/requirements/repo"
)

// Options are the API options
// Config is the root process config; modules read their own prefixes from it
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	CORSOrigins    []string
}

func (o Options) deps() modkit.Deps {
	d := modkit.Deps{Cfg: o.Config}
	if o.Logger != nil {
		d.Log = *o.Logger
	}
	if o.Store != nil {
		d.PG = o.Store.PG
		d.CH = o.Store.CH
	}
	return d
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := opt.deps()

	reqs := reqmod.FromConfig(deps.Cfg)
	convs := convmod.FromConfig(deps.Cfg)
	ledger := "off"
	if relaymod.FromConfig(deps.Cfg).Ledger && deps.CH != nil {
		ledger = "clickhouse"
	}

	mods := []modkit.Module{
		metamod.New(deps, map[string]string{
			"requirements":  reqs.Backend,
			"conversations": convs.Backend,
			"relay.ledger":  ledger,
		}),
		reqmod.New(deps),
		relaymod.New(deps),
		convmod.New(deps),
	}

	// docs and profiler sit outside the versioned stack
	swaggerkit.Mount(r, opt.EnableSwagger, "reqrelay API")
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.CORSOrigins...), func(api httpkit.Router) {
		for _, m := range mods {
			deps.Log.Debug().Str("module", m.Name()).Msg("mounting module")
			m.MountRoutes(api)
		}
	})
}

// schemaLockKey is "reqrelay" in ASCII
const schemaLockKey int64 = 0x72657172656c6179

// EnsureSchema creates the tables the configured backends need
// Backends absent from st are skipped
func EnsureSchema(ctx context.Context, st *store.Store) error {
	if st == nil {
		return nil
	}
	if st.PG != nil {
		// replicas booting together take turns on the DDL
		tx := repokit.WithBeginHooks(st.PG, repokit.AdvisoryLock(schemaLockKey))
		err := repokit.WithTx(ctx, tx, func(q repokit.Queryer) error {
			for _, ddl := range []string{reqrepo.Schema, convrepo.Schema} {
				if _, err := q.Exec(ctx, ddl); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return perr.FromPostgresf(err, "ensure schema")
		}
	}
	if st.CH != nil {
		if err := relayrepo.NewCH(st.CH).EnsureSchema(ctx); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "ensure relay ledger")
		}
	}
	return nil
}
