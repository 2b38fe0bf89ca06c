package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandDeterministic(t *testing.T) {
	a, b := New(1337), New(1337)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(10), b.Intn(10))
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.NormFloat64(), b.NormFloat64())
	}
}

func TestRandRanges(t *testing.T) {
	r := New(42)
	for i := 0; i < 1000; i++ {
		n := r.Intn(7)
		if n < 0 || n >= 7 {
			t.Fatalf("Intn(7) returned %d", n)
		}
		f := r.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64 returned %v", f)
		}
	}
}

func TestSequence(t *testing.T) {
	s := &Sequence{Ints: []int{2, 1, 3}, Floats: []float64{0.25}}
	assert.Equal(t, 2, s.Intn(4))
	assert.Equal(t, 1, s.Intn(4))
	assert.Equal(t, 3, s.Intn(4))
	assert.Equal(t, 2, s.Intn(4), "sequence should wrap around")
	assert.Equal(t, 0.25, s.Float64())
	assert.Equal(t, 0.0, s.NormFloat64())
	s.Reset()
	assert.Equal(t, 2, s.Intn(4))
}

func TestSample(t *testing.T) {
	r := New(7)
	idx := Sample(r, 10, 4)
	assert.Len(t, idx, 4)
	seen := make(map[int]bool)
	for _, i := range idx {
		assert.True(t, i >= 0 && i < 10)
		assert.False(t, seen[i], "index %d drawn twice", i)
		seen[i] = true
	}
	assert.Len(t, Sample(r, 3, 5), 3)
}

func TestShuffle(t *testing.T) {
	xs := []int{0, 1, 2, 3, 4, 5}
	Shuffle(New(3), len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
	sum := 0
	for _, x := range xs {
		sum += x
	}
	assert.Equal(t, 15, sum)
}
