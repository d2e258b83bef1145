package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reqrelay/internal/platform/config"
	phttp "reqrelay/internal/platform/net/http"
	"reqrelay/internal/services/api/conversations/domain"
	"reqrelay/internal/services/api/conversations/repo"
	svc "reqrelay/internal/services/api/conversations/service"
)

func newMux() stdhttp.Handler {
	srv := phttp.NewServer(config.New())
	r := srv.Router()
	r.Route("/conversations", func(rr phttp.Router) {
		Register(rr, svc.New(repo.NewMemory(), nil, nil))
	})
	return r.Mux()
}

func serve(h stdhttp.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPutThenGet(t *testing.T) {
	h := newMux()
	rec := serve(h, "PUT", "/conversations/c1/messages",
		`{"messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"yo"}]}`)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("put code %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(h, "GET", "/conversations/c1/messages", "")
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("get code %d: %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data domain.History `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.ID != "c1" || len(env.Data.Messages) != 2 || env.Data.Messages[1].Content != "yo" {
		t.Fatalf("unexpected history %+v", env.Data)
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name, method, path, body string
		want                     int
	}{
		{"unknown conversation", "GET", "/conversations/zz/messages", "", stdhttp.StatusNotFound},
		{"bad role", "PUT", "/conversations/c1/messages", `{"messages":[{"role":"robot","content":"x"}]}`, stdhttp.StatusBadRequest},
		{"missing messages", "PUT", "/conversations/c1/messages", `{}`, stdhttp.StatusBadRequest},
		{"post not allowed", "POST", "/conversations/c1/messages", `{}`, stdhttp.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := serve(newMux(), tc.method, tc.path, tc.body); rec.Code != tc.want {
				t.Fatalf("code = %d, want %d body=%s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}
