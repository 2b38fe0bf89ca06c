package mix

import (
	"testing"

	"github.com/gorgonia/noisynet/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func onesLike(ts []*tensor.Dense) []*tensor.Dense {
	retVal := make([]*tensor.Dense, len(ts))
	for i, t := range ts {
		retVal[i] = zerosLike(t)
		data := floats(retVal[i])
		for j := range data {
			data[j] = 1
		}
	}
	return retVal
}

func zeroColumns(m *tensor.Dense) []int {
	var retVal []int
	data := floats(m)
	for j := 0; j < cols(m); j++ {
		zero := true
		for i := 0; i < rows(m); i++ {
			if data[i*cols(m)+j] != 0 {
				zero = false
			}
		}
		if zero {
			retVal = append(retVal, j)
		}
	}
	return retVal
}

func TestDropNull(t *testing.T) {
	n := mustMix(t, DefaultConf([]int{3, 4, 2}, ActSigmoid, ActLinear), 1)
	ws := cloneAll(n.Weights())
	var d DropNull
	d.NewBatch()
	sameData(t, ws, d.DropWeights(n.Weights()))
	sameData(t, ws, d.DropGrads(n.Weights()))
	d.HalfWeights(n.Weights())
	sameData(t, ws, n.Weights())
}

func dropSchemes(sizes []int) map[string]DropScheme {
	return map[string]DropScheme{
		DropOutScheme:     NewDropOut(sizes, 2, rng.New(1)),
		DropSysScheme:     NewDropSys(sizes, 2, rng.New(1)),
		DropConnectScheme: NewDropConnect(2, rng.New(1)),
	}
}

func TestDropScheme_SameMaskWithinBatch(t *testing.T) {
	sizes := []int{3, 8, 6, 2}
	n := mustMix(t, DefaultConf(sizes, ActSigmoid, ActSigmoid, ActLinear), 1)
	for name, d := range dropSchemes(sizes) {
		t.Run(name, func(t *testing.T) {
			d.NewBatch()
			a := d.DropWeights(n.Weights())
			b := d.DropWeights(n.Weights())
			sameData(t, a, b)

			// the gradients lose what the forward pass lost
			ones := onesLike(n.Weights())
			dropped := d.DropWeights(ones)
			grads := d.DropGrads(ones)
			for l := range dropped {
				for i, v := range floats(dropped[l]) {
					if v == 0 {
						assert.Equal(t, 0.0, floats(grads[l])[i], "layer %d entry %d", l, i)
					}
				}
			}
			// and nothing was modified in place
			for _, o := range ones {
				for _, v := range floats(o) {
					require.Equal(t, 1.0, v)
				}
			}
		})
	}
}

func TestDropOut_Units(t *testing.T) {
	sizes := []int{3, 8, 2}
	d := NewDropOut(sizes, 2, &rng.Sequence{Floats: []float64{0.1, 0.9}})
	d.NewBatch()
	ones := onesLike([]*tensor.Dense{NewMat(8, 3, nil), NewMat(2, 8, nil)})

	ws := d.DropWeights(ones)
	assert.Equal(t, []int{1, 3, 5, 7}, zeroColumns(ws[1]))
	assert.Empty(t, zeroColumns(ws[0]), "the input layer is never dropped")

	gs := d.DropGrads(ones)
	assert.Equal(t, []int{1, 3, 5, 7}, zeroColumns(gs[1]))
	for _, r := range []int{1, 3, 5, 7} {
		assert.Equal(t, []float64{0, 0, 0}, floats(gs[0])[r*3:r*3+3], "incoming weights of unit %d", r)
	}
}

func TestDropSys_KeepsExactly(t *testing.T) {
	sizes := []int{3, 10, 7, 2}
	d := NewDropSys(sizes, 3, rng.New(4))
	ones := onesLike([]*tensor.Dense{NewMat(10, 3, nil), NewMat(7, 10, nil), NewMat(2, 7, nil)})
	for i := 0; i < 5; i++ {
		d.NewBatch()
		ws := d.DropWeights(ones)
		// ⌈10/3⌉ and ⌈7/3⌉ units survive
		assert.Len(t, zeroColumns(ws[1]), 10-4)
		assert.Len(t, zeroColumns(ws[2]), 7-3)
	}
}

func TestDropOut_NegatedLayer(t *testing.T) {
	sizes := []int{3, 4, 2}
	d := NewDropOut(sizes, 2, &rng.Sequence{Floats: []float64{0.9, 0.1, 0.1, 0.1}})
	d.NewBatch()
	// the layer after a nor has a column per unit and per negated unit
	ws := d.DropWeights(onesLike([]*tensor.Dense{NewMat(4, 3, nil), NewMat(2, 8, nil)}))
	assert.Equal(t, []int{0, 4}, zeroColumns(ws[1]))
}

func TestDropScheme_HalfDouble(t *testing.T) {
	sizes := []int{3, 8, 6, 2}
	n := mustMix(t, DefaultConf(sizes, ActSigmoid, ActSigmoid, ActLinear), 1)
	for name, d := range dropSchemes(sizes) {
		t.Run(name, func(t *testing.T) {
			ws := cloneAll(n.Weights())
			d.HalfWeights(ws)
			assert.NotEqual(t, floats(n.Weights()[1]), floats(ws[1]))
			d.DoubleWeights(ws)
			sameData(t, n.Weights(), ws, approx)
		})
	}
}

func TestNewDropScheme(t *testing.T) {
	sizes := []int{3, 4, 2}
	cases := []struct {
		drop Drop
		want DropScheme
	}{
		{Drop{}, DropNull{}},
		{Drop{Scheme: DropOutScheme, N: 2}, &DropOut{}},
		{Drop{Scheme: DropSysScheme, N: 2}, &DropSys{}},
		{Drop{Scheme: DropConnectScheme, N: 2}, &DropConnect{}},
	}
	for _, c := range cases {
		d, err := NewDropScheme(c.drop, sizes, rng.New(1))
		require.NoError(t, err)
		assert.IsType(t, c.want, d)
	}

	_, err := NewDropScheme(Drop{Scheme: "drop_half", N: 2}, sizes, nil)
	assert.True(t, IsConfigurationError(err))
	_, err = NewDropScheme(Drop{Scheme: DropOutScheme}, sizes, nil)
	assert.True(t, IsConfigurationError(err))
}
