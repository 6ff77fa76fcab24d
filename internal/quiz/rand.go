package quiz

import (
	"math/rand"
	"time"
)

// Rand is the random source used by every selector. *rand.Rand satisfies it;
// tests pass a seeded one.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a Rand seeded with seed
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewTimeRand returns a Rand seeded from the clock
func NewTimeRand() *rand.Rand {
	return NewRand(time.Now().UnixNano())
}
