package services

import (
	"math/rand/v2"
	"sync"
)

// Randomizer is the only randomness source used for imposter and content selection.
type Randomizer interface {
	IntN(n int) int
}

type globalRandomizer struct{}

func (globalRandomizer) IntN(n int) int { return rand.IntN(n) }

// NewRandomizer returns a randomizer backed by the runtime's global source.
func NewRandomizer() Randomizer { return globalRandomizer{} }

type seededRandomizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRandomizer is deterministic for a given seed and safe for concurrent use.
func NewSeededRandomizer(seed uint64) Randomizer {
	return &seededRandomizer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededRandomizer) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
