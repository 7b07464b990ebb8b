// Package testutil provides deterministic fixtures shared by package tests.
package testutil

import "sync"

// TB is the subset of testing.TB (and *rapid.T) a Source reports through.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Source is a dice.Source that replays a scripted sequence of raw Intn
// results. Values are the zero-based draws, so a stress die showing 1 is
// scripted as 1 while an exploding die showing 7 is scripted as 6.
//
// Intn fails the test when the script is exhausted or a scripted value does
// not fit in [0, n).
type Source struct {
	mu     sync.Mutex
	t      TB
	values []int
	next   int
}

// NewSource returns a Source that replays values in order.
func NewSource(t TB, values ...int) *Source {
	return &Source{t: t, values: values}
}

// Intn returns the next scripted value.
func (s *Source) Intn(n int) int {
	s.t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.values) {
		s.t.Fatalf("testutil.Source: script exhausted after %d draws (Intn(%d))", len(s.values), n)
		return 0
	}
	v := s.values[s.next]
	s.next++
	if v < 0 || v >= n {
		s.t.Fatalf("testutil.Source: scripted draw %d out of range for Intn(%d)", v, n)
		return 0
	}
	return v
}

// Remaining returns how many scripted draws have not been consumed.
func (s *Source) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) - s.next
}
