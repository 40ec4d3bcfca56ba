package engine

import (
	"math/rand"
	"time"
)

// RandomSource supplies the randomness used for question order and choice
// narrowing. *rand.Rand satisfies it; tests substitute a seeded or scripted source.
type RandomSource interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRandomSource returns a source seeded with seed, or with the clock when seed is 0
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
