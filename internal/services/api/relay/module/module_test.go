package module

import (
	"context"
	"testing"

	modkit "reqrelay/internal/modkit"
	"reqrelay/internal/modkit/module"
	"reqrelay/internal/platform/config"
	"reqrelay/internal/platform/store"
)

type nopCH struct{ execs int }

func (n *nopCH) Exec(context.Context, string, ...any) error                { n.execs++; return nil }
func (n *nopCH) Insert(context.Context, string, any) error                 { return nil }
func (n *nopCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (n *nopCH) Close() error                                              { return nil }

func TestNew_LedgerFollowsClickhouse(t *testing.T) {
	m := New(modkit.Deps{Cfg: config.New()})
	p := module.MustPortsOf[Ports](m)
	if p.Relay == nil || p.Ledger != nil {
		t.Fatalf("expected relay without ledger, got %+v", p)
	}

	ch := &nopCH{}
	m = New(modkit.Deps{Cfg: config.New(), CH: ch})
	p = module.MustPortsOf[Ports](m)
	if p.Ledger == nil {
		t.Fatalf("expected ledger when clickhouse is configured")
	}
	if err := p.Ledger.EnsureSchema(context.Background()); err != nil || ch.execs != 1 {
		t.Fatalf("ensure schema: %v execs=%d", err, ch.execs)
	}
}

func TestNew_LedgerDisabledByConfig(t *testing.T) {
	t.Setenv("CORE_API_RELAY_LEDGER", "false")
	m := New(modkit.Deps{Cfg: config.New(), CH: &nopCH{}})
	if p := module.MustPortsOf[Ports](m); p.Ledger != nil {
		t.Fatalf("ledger should be off")
	}
}

func TestFromConfig_Defaults(t *testing.T) {
	o := FromConfig(config.New())
	if o.WorkDir != "/home/project" || !o.Ledger || o.MaxRetries != 2 {
		t.Fatalf("unexpected defaults %+v", o)
	}
}
