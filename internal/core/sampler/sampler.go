// Package sampler rate limits a side effect to at most one call per window,
// always using the most recent arguments (trailing edge)
package sampler

import (
	"sync"
	"time"
)

// DefaultWindow is the window used by conversation persistence
const DefaultWindow = 50 * time.Millisecond

type timer interface{ Stop() bool }

// afterFunc is the scheduling seam; tests swap it for a manual clock
var afterFunc = func(d time.Duration, f func()) timer { return time.AfterFunc(d, f) }

// Sampler delays fn until window has elapsed since the first unfired Call,
// then runs it once with the latest value passed to Call
type Sampler[T any] struct {
	mu      sync.Mutex
	window  time.Duration
	fn      func(T)
	latest  T
	pending bool
	gen     uint64
	t       timer
	stopped bool
}

// New returns a sampler; a window <= 0 uses DefaultWindow
func New[T any](window time.Duration, fn func(T)) *Sampler[T] {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Sampler[T]{window: window, fn: fn}
}

// Call records v and schedules a fire if none is pending
func (s *Sampler[T]) Call(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.latest = v
	if s.pending {
		return
	}
	s.pending = true
	s.gen++
	gen := s.gen
	s.t = afterFunc(s.window, func() { s.fire(gen) })
}

// Pending reports whether a fire is scheduled
func (s *Sampler[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Flush runs a pending call now
func (s *Sampler[T]) Flush() {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return
	}
	if s.t != nil {
		s.t.Stop()
	}
	v := s.take()
	s.mu.Unlock()
	s.fn(v)
}

// Stop cancels a pending call and ignores later ones
func (s *Sampler[T]) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.pending && s.t != nil {
		s.t.Stop()
	}
	s.take()
}

func (s *Sampler[T]) fire(gen uint64) {
	s.mu.Lock()
	// a flush or stop already consumed this schedule
	if !s.pending || gen != s.gen {
		s.mu.Unlock()
		return
	}
	v := s.take()
	s.mu.Unlock()
	s.fn(v)
}

// take clears pending state and returns the latest value; caller holds mu
func (s *Sampler[T]) take() T {
	v := s.latest
	var zero T
	s.latest = zero
	s.pending = false
	s.t = nil
	return v
}
