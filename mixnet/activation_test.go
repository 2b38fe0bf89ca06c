package mix

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorgonia/noisynet/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allActs = []string{ActSigmoid, ActTanh, ActRelu, ActLinear, ActSoftmax, ActOr, ActAnd, ActNegOr}

func TestNewActivation(t *testing.T) {
	for _, id := range allActs {
		act, err := NewActivation(id, 3, SGD{Eta: 1})
		require.NoError(t, err)
		assert.Equal(t, id, act.String())
		assert.Equal(t, SGD{Eta: 1}, act.Opt())
	}

	_, err := NewActivation("softplus", 3, SGD{})
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), "softplus")
}

func TestActivation_Deterministic(t *testing.T) {
	src := rng.New(7)
	w := positiveNormal(src, 1, 3, 4)
	b := positiveNormal(src, 1, 3)
	a := input(4, 8)
	for _, id := range allActs {
		act, err := NewActivation(id, 3, SGD{})
		require.NoError(t, err)

		z1, err := act.WeightedSum(w, b, a)
		require.NoError(t, err)
		z2, err := act.WeightedSum(w, b, a)
		require.NoError(t, err)
		if diff := cmp.Diff(floats(act.Apply(z1)), floats(act.Apply(z2))); diff != "" {
			t.Errorf("%v: two forward passes differ: %s", id, diff)
		}
	}
}

func TestNoisyOr_Range(t *testing.T) {
	or := NewNoisyOr(nil)
	for _, v := range []float64{0, 1e-9, 0.3, 1, 5, 30} {
		o := floats(or.Apply(NewVec(v)))[0]
		assert.True(t, o >= 0 && o < 1, "noisy-or of %v is %v", v, o)
	}

	// non-negative parameters and inputs in [0, 1] keep z in the region
	src := rng.New(3)
	w := positiveNormal(src, 2, 5, 4)
	b := positiveNormal(src, 2, 5)
	z, err := or.WeightedSum(w, b, input(4, 4))
	require.NoError(t, err)
	for _, o := range floats(or.Apply(z)) {
		assert.True(t, o >= 0 && o < 1, "output %v out of range", o)
	}
}

func TestNoisyAnd_Range(t *testing.T) {
	and := NewNoisyAnd(nil)
	src := rng.New(5)
	w := positiveNormal(src, 2, 5, 4)
	b := positiveNormal(src, 2, 5)
	z, err := and.WeightedSum(w, b, input(4, 6))
	require.NoError(t, err)
	for _, o := range floats(and.Apply(z)) {
		assert.True(t, o > 0 && o <= 1, "output %v out of range", o)
	}

	// every input on and no leak: the unit is certainly on
	z, err = and.WeightedSum(w, zeroVec(5), NewVec(1, 1, 1, 1))
	require.NoError(t, err)
	for _, o := range floats(and.Apply(z)) {
		assert.Equal(t, 1.0, o)
	}
}

func TestNoisyOrNegable(t *testing.T) {
	nor := NewNoisyOrNegable(nil)
	out := floats(nor.Apply(NewVec(0, math.Log(2))))
	if diff := cmp.Diff([]float64{0, 0.5, 1, 0.5}, out, approx); diff != "" {
		t.Error(diff)
	}
	prime := floats(nor.Prime(NewVec(out...)))
	if diff := cmp.Diff([]float64{1, 0.5, -1, -0.5}, prime, approx); diff != "" {
		t.Error(diff)
	}
	folded := floats(nor.Fold(NewVec(1, 2, 10, 20)))
	assert.Equal(t, []float64{11, 22}, folded)
	assert.Equal(t, 2, nor.Expansion())
}

func TestSoftmax(t *testing.T) {
	sm := NewSoftmax(nil)
	out := floats(sm.Apply(NewVec(1000, 1000, 1000)))
	for _, v := range out {
		assert.InDelta(t, 1.0/3, v, 1e-12)
	}
	out = floats(sm.Apply(NewVec(0, math.Log(3))))
	if diff := cmp.Diff([]float64{0.25, 0.75}, out, approx); diff != "" {
		t.Error(diff)
	}
}

func TestRelu(t *testing.T) {
	r := NewRelu(3, nil)
	out := r.Apply(NewVec(-1, 0, 2))
	assert.Equal(t, []float64{0, 0, 2}, floats(out))
	assert.Equal(t, []float64{0, 0, 1}, floats(r.Prime(out)))
	assert.Equal(t, 3, r.Width())
}
