package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeGuard struct{ err error }

func (f fakeGuard) Guard(context.Context) error { return f.err }

func TestMustGuard(t *testing.T) {
	t.Parallel()

	MustGuard(context.Background(), fakeGuard{})

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !strings.Contains(err.Error(), "dependency guard failed: pg down") {
			t.Fatalf("unexpected panic value %v", r)
		}
	}()
	MustGuard(context.Background(), fakeGuard{err: errors.New("pg down")})
}
