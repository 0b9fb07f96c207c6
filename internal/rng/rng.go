// Package rng provides the random source shared by the failure engine.
package rng

import (
	"fmt"
	"math/rand"
	"time"
)

// Source is the subset of *rand.Rand the engine consumes. Float64 drives the
// damage, escalation and cascade rolls; Intn drives the part draw.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// New returns a seeded source. A zero seed uses the current time.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Sequence replays scripted values. It panics when a list runs dry so a test
// that consumes more randomness than it planned fails loudly.
type Sequence struct {
	Floats []float64
	Ints   []int

	floatsUsed int
	intsUsed   int
}

// Float64 returns the next scripted float.
func (s *Sequence) Float64() float64 {
	if s.floatsUsed >= len(s.Floats) {
		panic(fmt.Sprintf("rng: float sequence exhausted after %d draws", s.floatsUsed))
	}
	v := s.Floats[s.floatsUsed]
	s.floatsUsed++
	return v
}

// Intn returns the next scripted int, reduced modulo n.
func (s *Sequence) Intn(n int) int {
	if s.intsUsed >= len(s.Ints) {
		panic(fmt.Sprintf("rng: int sequence exhausted after %d draws", s.intsUsed))
	}
	v := s.Ints[s.intsUsed]
	s.intsUsed++
	return v % n
}

// Draws reports how many floats and ints have been consumed.
func (s *Sequence) Draws() (floats, ints int) {
	return s.floatsUsed, s.intsUsed
}
