package testutil

import (
	"math/rand"

	"github.com/rs/zerolog"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// SequenceRand replays a scripted sequence of draws. Each value is reduced
// modulo n, and the sequence wraps around when exhausted.
type SequenceRand struct {
	Values []int
	pos    int
}

// NewSequenceRand creates a SequenceRand over values
func NewSequenceRand(values ...int) *SequenceRand {
	return &SequenceRand{Values: values}
}

// Intn returns the next scripted value in [0, n)
func (s *SequenceRand) Intn(n int) int {
	if len(s.Values) == 0 || n <= 0 {
		return 0
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Draws returns how many values have been consumed
func (s *SequenceRand) Draws() int {
	return s.pos
}
