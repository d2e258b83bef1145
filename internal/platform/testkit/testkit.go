// Package testkit holds assertions and seams shared by package tests
package testkit

import (
	"strings"
	"testing"
)

// MustPanic fails t unless fn panics
func MustPanic(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic")
		}
	}()
	fn()
}

// MustNotPanic fails t if fn panics
func MustNotPanic(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain fails t unless s contains sub; long outputs are printed in full
func MustContain(t testing.TB, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("missing %q in:\n%s", sub, s)
	}
}
