package rng

import "math/rand"

// Seeded returns a deterministic generator for the given seed.
// Only tests should rely on a fixed seed.
func Seeded(seed int64) Generator {
	return rand.New(rand.NewSource(seed))
}
