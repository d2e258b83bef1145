package normalize

import (
	"reflect"
	"testing"
)

func TestLine(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"trim", "  add login \t", "add login"},
		{"nfc composes", "cafe\u0301", "caf\u00e9"},
		{"zero width space", "dark\u200bmode", "darkmode"},
		{"bom prefix", "\ufeffexport csv", "export csv"},
		{"emoji joiner kept", "ship \U0001F468\u200d\U0001F4BB", "ship \U0001F468\u200d\U0001F4BB"},
		{"controls dropped", "a\x00b\x7fc\u0085d", "abcd"},
		{"invalid utf8", "ok\xffay", "okay"},
		{"blank", " \u200b ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Line(tc.in); got != tc.want {
				t.Fatalf("Line(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestLines_LineEndings(t *testing.T) {
	got := Lines("one\r\ntwo\rthree\n\n  \nfour")
	want := []string{"one", "two", "three", "four"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Lines = %q, want %q", got, want)
	}
	if got := Lines(""); len(got) != 0 {
		t.Fatalf("Lines(empty) = %q", got)
	}
}

func TestSanitize_CleanInputUnchanged(t *testing.T) {
	s := "tabs\tand\nnewlines stay"
	if got := Sanitize(s); got != s {
		t.Fatalf("Sanitize changed clean input: %q", got)
	}
}

func TestSanitize_DropsOnlyUnwanted(t *testing.T) {
	cases := map[string]string{
		"a\x01b":        "ab",
		"\x7f":          "",
		"ok\xc3":        "ok",
		"keep � too":    "keep � too",
		"\u0080x\u009f": "x",
		"line\r\nnext":  "line\r\nnext",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Fatalf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
