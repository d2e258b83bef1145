package module

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	modkit "reqrelay/internal/modkit"
	"reqrelay/internal/modkit/module"
	"reqrelay/internal/platform/config"
	phttp "reqrelay/internal/platform/net/http"
)

func TestNew_MemoryBackendMountsRoutes(t *testing.T) {
	t.Setenv("MAILBOX_BACKEND", "memory")
	m := New(modkit.Deps{Cfg: config.New()})

	srv := phttp.NewServer(config.New())
	m.MountRoutes(srv.Router())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/requirements", strings.NewReader(`{"content":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().Mux().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body=%s", rec.Code, rec.Body.String())
	}

	ports, ok := module.PortsOf[Ports](m)
	if !ok || ports.Mailbox == nil {
		t.Fatalf("expected mailbox port")
	}
	st, err := ports.Mailbox.Status(req.Context())
	if err != nil || !st.HasEntry {
		t.Fatalf("port should observe the submission: %+v %v", st, err)
	}
}

func TestNew_PGBackendWithoutStorePanics(t *testing.T) {
	t.Setenv("MAILBOX_BACKEND", "pg")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic without a postgres store")
		}
	}()
	New(modkit.Deps{Cfg: config.New()})
}

func TestFromConfig_Defaults(t *testing.T) {
	o := FromConfig(config.New())
	if o.Backend != BackendMemory || o.Timeout <= 0 {
		t.Fatalf("unexpected defaults %+v", o)
	}
}
