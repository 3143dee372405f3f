// Package rng provides the shared deterministic random source. Every
// stochastic decision in a run draws from one seeded generator held as a
// world resource, so two runs with the same seed make identical choices.
package rng

import "math/rand"

// Source is the deterministic random source for a simulation run.
type Source struct {
	seed int64
	rand *rand.Rand
}

// New creates a source seeded with the given value.
func New(seed int64) *Source {
	return &Source{seed: seed, rand: rand.New(rand.NewSource(seed))}
}

// Seed returns the seed the source was last initialized with.
func (s *Source) Seed() int64 { return s.seed }

// Reseed resets the generator to a fresh stream for the given seed.
func (s *Source) Reseed(seed int64) {
	s.seed = seed
	s.rand = rand.New(rand.NewSource(seed))
}

// Float returns a value in [0, 1).
func (s *Source) Float() float64 { return s.rand.Float64() }

// IntRange returns a value in [low, high). It panics when high <= low,
// matching the underlying generator.
func (s *Source) IntRange(low, high int) int {
	return low + s.rand.Intn(high-low)
}

// Chance reports true with probability p.
func (s *Source) Chance(p float64) bool { return s.rand.Float64() < p }

// WeightedChoice returns an index drawn with probability proportional to its
// weight. Non-positive weights never win. Returns -1 when no weight is
// positive.
func (s *Source) WeightedChoice(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	target := s.rand.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		target -= w
		if target < 0 {
			return i
		}
	}
	return len(weights) - 1
}

// Shuffle permutes n elements in place through the swap function.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.rand.Shuffle(n, swap)
}
