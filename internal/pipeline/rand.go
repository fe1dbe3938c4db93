package pipeline

import "math/rand/v2"

// Rand is the source of randomness used by the randomized stages.
type Rand interface {
	// IntN returns a non-negative pseudo-random number in [0,n). It panics if n <= 0.
	IntN(n int) int
	// Float64 returns a pseudo-random number in [0.0,1.0).
	Float64() float64
}

// globalRand draws from the process-wide math/rand/v2 source.
type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand returns a Rand backed by the process-wide math/rand/v2 source.
// It is safe for concurrent use.
func DefaultRand() Rand {
	return globalRand{}
}

// NewSeededRand returns a deterministic Rand. Two sources created with the
// same seeds produce the same sequence.
func NewSeededRand(seed1, seed2 uint64) Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// between returns a random integer in [lo,hi].
func between(r Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

// pick returns a random element of items.
func pick(r Rand, items []string) string {
	return items[r.IntN(len(items))]
}
