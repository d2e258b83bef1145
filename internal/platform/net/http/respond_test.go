package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "reqrelay/internal/platform/errors"
	pnet "reqrelay/internal/platform/net"
	phttp "reqrelay/internal/platform/net/http"
)

func run(t *testing.T, resp phttp.Response) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(pnet.WithRequestID(req.Context(), "rid-1"))
	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response { return resp })(rec, req)

	var env phttp.Envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rec, env
}

func TestHandle_Envelopes(t *testing.T) {
	cases := []struct {
		name   string
		resp   phttp.Response
		status int
		code   perr.ErrorCode
		errMsg string
		data   any
	}{
		{"ok", phttp.OK("hi"), http.StatusOK, 0, "", "hi"},
		{"zero status is 200", phttp.Response{Body: 1.0}, http.StatusOK, 0, "", 1.0},
		{"custom status", phttp.Response{Status: http.StatusAccepted, Body: "queued"}, http.StatusAccepted, 0, "", "queued"},
		{"project error", phttp.Error(perr.Conflictf("stale entry")), http.StatusConflict, perr.ErrorCodeConflict, "stale entry", nil},
		{"empty input", phttp.Error(perr.EmptyInputf("nothing usable")), http.StatusBadRequest, perr.ErrorCodeEmptyInput, "nothing usable", nil},
		{"foreign error", phttp.Error(errors.New("disk on fire")), http.StatusInternalServerError, perr.ErrorCodeUnknown, "disk on fire", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := run(t, tc.resp)
			if rec.Code != tc.status || env.StatusCode != tc.status || env.Status != http.StatusText(tc.status) {
				t.Fatalf("status %d / %+v", rec.Code, env)
			}
			if env.Code != tc.code || env.Error != tc.errMsg || env.Data != tc.data {
				t.Fatalf("envelope %+v", env)
			}
			if env.RequestID != "rid-1" {
				t.Fatalf("request id = %q", env.RequestID)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
				t.Fatalf("content type = %q", ct)
			}
		})
	}
}

func TestHandle_NoContentAndHeaders(t *testing.T) {
	resp := phttp.NoContent()
	resp.Header = http.Header{"Location": {"/api/v1/requirements"}}
	rec, _ := run(t, resp)
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Location") != "/api/v1/requirements" {
		t.Fatalf("header lost: %v", rec.Header())
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.RespondError(rec, httptest.NewRequest(http.MethodGet, "/", nil), perr.NotFoundf("no conversation"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
