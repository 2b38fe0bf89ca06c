package mix

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/gorgonia/noisynet/rng"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

var approx = cmpopts.EquateApprox(1e-6, 1e-9)

func mustMix(t *testing.T, conf Config, seed int64) *Network {
	t.Helper()
	n, err := Mix(conf, rng.New(seed))
	require.NoError(t, err, "%+v", err)
	return n
}

// input makes a vector of width w with entries in (0, 1).
func input(w int, seed int64) *tensor.Dense {
	src := rng.New(seed)
	data := make([]float64, w)
	for i := range data {
		data[i] = 0.05 + 0.9*src.Float64()
	}
	return NewVec(data...)
}

func oneHot(w, k int) *tensor.Dense {
	data := make([]float64, w)
	data[k] = 1
	return NewVec(data...)
}

func sameData(t *testing.T, want, got []*tensor.Dense, opts ...cmp.Option) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		if diff := cmp.Diff(floats(want[i]), floats(got[i]), opts...); diff != "" {
			t.Errorf("tensor %d differs (-want +got):\n%s", i, diff)
		}
	}
}

func cloneAll(ts []*tensor.Dense) []*tensor.Dense {
	retVal := make([]*tensor.Dense, len(ts))
	for i, t := range ts {
		retVal[i] = clone(t)
	}
	return retVal
}

// flatParams lays out every weight matrix followed by its bias vector.
func flatParams(n *Network) []float64 {
	var retVal []float64
	for i := range n.weights {
		retVal = append(retVal, floats(n.weights[i])...)
		retVal = append(retVal, floats(n.biases[i])...)
	}
	return retVal
}

func setParams(n *Network, p []float64) {
	for i := range n.weights {
		p = p[copy(floats(n.weights[i]), p):]
		p = p[copy(floats(n.biases[i]), p):]
	}
}

func flatGrads(dw, db []*tensor.Dense) []float64 {
	var retVal []float64
	for i := range dw {
		retVal = append(retVal, floats(dw[i])...)
		retVal = append(retVal, floats(db[i])...)
	}
	return retVal
}
