package requirements

import (
	"reflect"
	"strings"
	"testing"

	perr "reqrelay/internal/platform/errors"
)

func TestLines_TrimsAndDropsBlanks(t *testing.T) {
	got := Lines("a\nb\n\n c ")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Lines = %#v, want %#v", got, want)
	}
}

func TestLines_NormalizesToNFC(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune
	got := Lines("cafe\u0301")
	if len(got) != 1 || got[0] != "caf\u00e9" {
		t.Fatalf("Lines = %q, want composed form", got)
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "\n\n", "   \n\t\n"} {
		_, err := Build(in, false, "")
		if !perr.IsCode(err, perr.ErrorCodeEmptyInput) {
			t.Fatalf("Build(%q) err = %v, want empty input", in, err)
		}
	}
}

func TestBuild_NewProject(t *testing.T) {
	s, err := Build("login page\r\nsignup page", false, "")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if len(s.Messages) != 2 || s.Messages[0].Role != "system" || s.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", s.Messages)
	}
	if !strings.HasPrefix(s.Messages[1].Content, "Requirements to implement:\n\n1. login page\n2. signup page\n\n") {
		t.Fatalf("user message = %q", s.Messages[1].Content)
	}
	if s.Files["/home/project/requirements.txt"] != "login page\nsignup page" {
		t.Fatalf("requirements.txt = %q", s.Files["/home/project/requirements.txt"])
	}
	if !strings.HasPrefix(s.Files["/home/project/README.md"], "# Project Requirements\n\n1. login page") {
		t.Fatalf("README.md = %q", s.Files["/home/project/README.md"])
	}
	if !s.ContextOptimization || s.PromptID != "file-input" || s.ExistingProject {
		t.Fatalf("unexpected flags: %+v", s)
	}
}

func TestBuild_ExistingProjectCustomWorkDir(t *testing.T) {
	s, err := Build("dark mode", true, "/srv/app/")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if !strings.Contains(s.Messages[0].Content, "existing project") {
		t.Fatalf("system prompt not the existing-project variant")
	}
	if !strings.HasPrefix(s.Messages[1].Content, "Feature requests for the existing project:\n\n1. dark mode") {
		t.Fatalf("user message = %q", s.Messages[1].Content)
	}
	if _, ok := s.Files["/srv/app/README.md"]; !ok {
		t.Fatalf("files = %v", s.Files)
	}
	if !strings.HasPrefix(s.Files["/srv/app/README.md"], "# Feature Requests") {
		t.Fatalf("README heading wrong: %q", s.Files["/srv/app/README.md"])
	}
}
