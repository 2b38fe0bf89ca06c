// Package rng provides the random sources used across noisynet.
//
// Nothing in noisynet reaches for a global random state. Weight initialisation, dropout masks
// and example shuffling all draw from a Source handed to them, so each can be seeded (or mocked)
// independently of the others.
package rng

import (
	gorng "github.com/leesper/go_rng"
)

// Source is a random source.
type Source interface {
	// Intn returns a uniformly distributed integer in [0, n).
	Intn(n int) int
	// Float64 returns a uniformly distributed float in [0, 1).
	Float64() float64
	// NormFloat64 returns a standard normally distributed float.
	NormFloat64() float64
}

// Rand is the default Source. It is not safe for concurrent use.
type Rand struct {
	seed  int64
	uni   *gorng.UniformGenerator
	gauss *gorng.GaussianGenerator
}

// New creates a Rand seeded with seed. Two Rands with the same seed produce the same sequence.
func New(seed int64) *Rand {
	return &Rand{
		seed:  seed,
		uni:   gorng.NewUniformGenerator(seed),
		gauss: gorng.NewGaussianGenerator(seed + 1),
	}
}

// Seed returns the seed the Rand was created with.
func (r *Rand) Seed() int64 { return r.seed }

func (r *Rand) Intn(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to Intn")
	}
	return int(r.uni.Int64n(int64(n)))
}

func (r *Rand) Float64() float64 { return r.uni.Float64() }

func (r *Rand) NormFloat64() float64 { return r.gauss.Gaussian(0, 1) }

// Split derives a new, independently seeded Rand from r.
func (r *Rand) Split() *Rand { return New(int64(r.uni.Int64n(1<<62)) + 1) }

// Shuffle performs a Fisher-Yates shuffle of n elements using src.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}

// Sample picks k distinct indices out of [0, n), in the order they were drawn.
func Sample(src Source, n, k int) []int {
	if k > n {
		k = n
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	retVal := make([]int, 0, k)
	for len(retVal) < k {
		j := src.Intn(len(pool))
		retVal = append(retVal, pool[j])
		pool[j] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return retVal
}
