package testkit

import (
	"sync"
	"testing"
)

var serial sync.Mutex

// Swap replaces *target for the rest of the test
func Swap[T any](t testing.TB, target *T, with T) {
	t.Helper()
	prev := *target
	*target = with
	t.Cleanup(func() { *target = prev })
}

// Serial holds a process wide lock until the test ends; tests sharing package level seams call it first
func Serial(t testing.TB) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}
