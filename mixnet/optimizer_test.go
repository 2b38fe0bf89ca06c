package mix

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSGD(t *testing.T) {
	w := NewMat(1, 2, []float64{1, 2})
	dw := NewMat(1, 2, []float64{4, -4})
	got, err := SGD{Eta: 0.5}.UpdateWeights(w, dw, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1}, floats(got))
	assert.Equal(t, []float64{1, 2}, floats(w), "arguments must not be modified")

	_, err = SGD{Eta: 0.5}.UpdateBiases(NewVec(1, 2), NewVec(1, 2, 3), 1)
	assert.True(t, IsShapeMismatch(err))
}

func TestRegSGD(t *testing.T) {
	opt := RegSGD{Eta: 0.5, Lambda: 0.2}
	w, err := opt.UpdateWeights(NewMat(1, 2, []float64{10, -10}), NewMat(1, 2, []float64{0, 2}), 1)
	require.NoError(t, err)
	if diff := cmp.Diff([]float64{9, -8}, floats(w), approx); diff != "" {
		t.Error(diff)
	}
	b, err := opt.UpdateBiases(NewVec(10), NewVec(2), 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{11}, floats(b))
}

func TestPositiveSGD(t *testing.T) {
	opts := []Optimizer{
		PositiveSGD{SGD{Eta: 1}},
		PositiveSGD{RegSGD{Eta: 1, Lambda: 0.5}},
		PositiveSGD{FrozenBiases{SGD{Eta: 3}}},
	}
	ws := [][]float64{{0, 0.5, -1, 3}, {-2, -2, -2, -2}, {5, 5, 5, 5}}
	gs := [][]float64{{-1, -1, 0.5, 1}, {100, -100, 0, 3}, {-20, -4, 4, 0}}
	for _, opt := range opts {
		for _, wd := range ws {
			for _, gd := range gs {
				w, err := opt.UpdateWeights(NewMat(2, 2, append([]float64(nil), wd...)), NewMat(2, 2, append([]float64(nil), gd...)), 2)
				require.NoError(t, err)
				b, err := opt.UpdateBiases(NewVec(append([]float64(nil), wd...)...), NewVec(append([]float64(nil), gd...)...), 2)
				require.NoError(t, err)
				for _, v := range append(floats(w), floats(b)...) {
					assert.True(t, v >= 0, "%T left a negative parameter %v", opt, v)
				}
			}
		}
	}
}

func TestFrozenBiases(t *testing.T) {
	opt := FrozenBiases{SGD{Eta: 1}}
	b, err := opt.UpdateBiases(NewVec(1, 2), NewVec(5, 5), 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, floats(b))

	w, err := opt.UpdateWeights(NewMat(1, 1, []float64{1}), NewMat(1, 1, []float64{5}), 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{6}, floats(w))
}
