package bind

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "reqrelay/internal/platform/errors"
	kit "reqrelay/internal/platform/testkit"
)

type ack struct {
	EntryID string `json:"entryId" validate:"required,uuid"`
	Note    string `json:"note,omitempty" validate:"max=5"`
	Tries   int    `json:"tries" validate:"min=0"`
	Raw     string `json:"-"`
	Plain   string
}

func post(body string) *http.Request {
	if body == "" {
		return httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	}
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

const goodID = "0f8fad5b-d9cb-469f-a165-70867728950e"

func TestParseJSON(t *testing.T) {
	cases := []struct {
		name  string
		req   *http.Request
		opts  []JSONOptions
		code  perr.ErrorCode
		field string
	}{
		{name: "valid", req: post(`{"entryId":"` + goodID + `","tries":2}`)},
		{name: "empty body", req: post(""), code: perr.ErrorCodeJSON},
		{name: "empty body on GET", req: httptest.NewRequest(http.MethodGet, "/", http.NoBody)},
		{name: "syntax", req: post(`{"entryId":`), code: perr.ErrorCodeJSON},
		{name: "unknown field", req: post(`{"entryId":"` + goodID + `","x":1}`), code: perr.ErrorCodeJSON},
		{name: "unknown field allowed", req: post(`{"entryId":"` + goodID + `","x":1}`), opts: []JSONOptions{{}}},
		{name: "trailing data", req: post(`{"entryId":"` + goodID + `"} {}`), code: perr.ErrorCodeJSON},
		{name: "wrong type", req: post(`{"entryId":"` + goodID + `","tries":"two"}`), code: perr.ErrorCodeValidation, field: "tries"},
		{name: "required", req: post(`{"tries":1}`), code: perr.ErrorCodeValidation, field: "entryId"},
		{name: "not a uuid", req: post(`{"entryId":"nope"}`), code: perr.ErrorCodeValidation, field: "entryId"},
		{name: "too long", req: post(`{"entryId":"` + goodID + `","note":"toolong"}`), code: perr.ErrorCodeValidation, field: "note"},
		{name: "over the byte cap", req: post(`{"entryId":"` + goodID + `"}`), opts: []JSONOptions{{MaxBytes: 8, DisallowUnknown: true}}, code: perr.ErrorCodeJSON},
		{name: "empty allowed then validated", req: post(""), opts: []JSONOptions{{AllowEmptyBody: true}}, code: perr.ErrorCodeValidation, field: "entryId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseJSON[ack](tc.req, tc.opts...)
			if tc.code == 0 && tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if perr.CodeOf(err) != tc.code {
				t.Fatalf("code = %v, want %v (%v)", perr.CodeOf(err), tc.code, err)
			}
			if e, _ := perr.As(err); tc.field != "" && e.Field() != tc.field {
				t.Fatalf("field = %q, want %q", e.Field(), tc.field)
			}
		})
	}
}

func TestParseJSON_TrailingSeam(t *testing.T) {
	kit.Swap(t, &moreInput, func(*json.Decoder) bool { return true })
	_, err := ParseJSON[ack](post(`{"entryId":"` + goodID + `"}`))
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON error, got %v", err)
	}
}

func TestMessagesUseJSONNames(t *testing.T) {
	_, err := Validate(ack{EntryID: goodID, Note: "sixsix"})
	kit.MustContain(t, err.Error(), "note must be at most 5")

	type bare struct {
		Plain string `validate:"required"`
	}
	_, err = Validate(bare{})
	if e, _ := perr.As(err); e.Field() != "Plain" {
		t.Fatalf("untagged field should keep its Go name, got %q", e.Field())
	}
}

func TestValidate_NonStruct(t *testing.T) {
	if _, err := Validate(42); perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON code for a non struct, got %v", err)
	}
}

func TestFirstFailure(t *testing.T) {
	if f, m := FirstFailure(nil); f != "" || m != "" {
		t.Fatalf("nil error: %q %q", f, m)
	}
	if f, m := FirstFailure(errors.New("plain")); f != "" || m != "plain" {
		t.Fatalf("plain error: %q %q", f, m)
	}
	if Shared() != Shared() {
		t.Fatalf("Shared should return one instance")
	}
}
