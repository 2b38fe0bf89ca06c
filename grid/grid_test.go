package grid

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorgonia/noisynet"
	mix "github.com/gorgonia/noisynet/mixnet"
	"github.com/gorgonia/noisynet/rng"
)

func TestBuildHypers(t *testing.T) {
	h, err := BuildHypers(0.1, 0.3, 0.01, 3)
	require.NoError(t, err)
	assert.Equal(t, "[0.1, (0.3, 0.01), 0.1]", mix.Hypers(h))

	h, err = BuildHypers(0.1, 0.3, 0.01, 4)
	require.NoError(t, err)
	assert.Equal(t, "[0.1, 0.1, (0.3, 0.01), 0.1]", mix.Hypers(h))

	_, err = BuildHypers(0.1, 0.3, 0.01, 2)
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "sig-or-sm-784-30-30-10", FileName([]string{"sig", "or", "sm"}, []int{784, 30, 30, 10}))
}

func TestWriteResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, []mix.Hyper{mix.Eta(0.1), {Eta: 0.3, Scale: 0.01}}, []float64{0.5, 0.25}))
	require.NoError(t, WriteResult(&buf, []mix.Hyper{mix.Eta(3)}, []float64{0.125}))
	assert.Equal(t, "[0.1, (0.3, 0.01)]\n0.5\n0.25\n\n[3]\n0.125\n\n", buf.String())
}

func toyData(n int, seed int64) []mix.Example {
	src := rng.New(seed)
	var retVal []mix.Example
	for i := 0; i < n; i++ {
		k := i % 2
		x := mix.NewVec(float64(k)+0.1*src.Float64(), float64(1-k)+0.1*src.Float64())
		y := mix.NewVec(float64(1-k), float64(k))
		retVal = append(retVal, mix.Example{X: x, Y: y})
	}
	return retVal
}

func newSearch(sizes []int, acts ...string) (*Search, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Search{
		Sizes:           sizes,
		Acts:            acts,
		Runner:          noisynet.NewRunner(rng.New(1)),
		Training:        toyData(10, 1),
		Validation:      toyData(4, 2),
		Hyperparameters: noisynet.Hyperparameters{Epochs: 2, BatchSize: 5},
		Out:             &buf,
		Src:             rng.New(3),
	}, &buf
}

// results splits the output of a search into its runs.
func results(buf *bytes.Buffer) [][]string {
	var retVal [][]string
	for _, block := range strings.Split(strings.TrimSuffix(buf.String(), "\n\n"), "\n\n") {
		retVal = append(retVal, strings.Split(block, "\n"))
	}
	return retVal
}

func TestSearch(t *testing.T) {
	s, buf := newSearch([]int{2, 3, 3, 2}, "sig", "or", "sm")
	require.NoError(t, s.Hypers([]float64{0.1}, []float64{0.1, 0.2}, []float64{0.01}))
	runs := results(buf)
	require.Len(t, runs, 2)
	assert.Equal(t, "[0.1, (0.2, 0.01), 0.1]", runs[1][0])
	assert.Len(t, runs[1], 3, "the hypers and two epochs")

	s, buf = newSearch([]int{2, 3, 2}, "sig", "sm")
	require.NoError(t, s.Vanilla([]float64{0.1, 1, 3}))
	assert.Len(t, results(buf), 3)

	s, buf = newSearch([]int{2, 3, 3, 3, 2}, "sig", "or", "and", "sm")
	require.NoError(t, s.TwoLogics([]float64{0.1}, []float64{0.1}, []float64{0.1, 0.01}))
	runs = results(buf)
	require.Len(t, runs, 2)
	assert.Equal(t, "[0.1, (0.1, 0.1), (0.1, 0.01), 0.1]", runs[1][0])

	s, buf = newSearch([]int{2, 3, 2}, "or", "and")
	require.NoError(t, s.OrAnd([]float64{0.1}, []float64{0.3}))
	assert.Equal(t, "[(0.1, 0.01), (0.3, 0.001)]", results(buf)[0][0])

	s, _ = newSearch([]int{2, 3, 2}, "or", "and")
	assert.Error(t, s.TwoLogics([]float64{0.1}, []float64{0.1}, []float64{0.1}))
	s, _ = newSearch([]int{2, 2}, "sm")
	assert.Error(t, s.Hypers([]float64{0.1}, []float64{0.1}, []float64{0.1}))
}

func TestOptimal(t *testing.T) {
	for _, name := range OptimalNames() {
		conf, ok := Optimal(name)
		require.True(t, ok)
		assert.NoError(t, conf.Validate(), name)
		assert.Equal(t, name, conf.Name())
	}
	_, ok := Optimal("tanh-sm")
	assert.False(t, ok)

	conf, _ := Optimal("sig-sm")
	conf.Sizes[0] = 1
	again, _ := Optimal("sig-sm")
	assert.Equal(t, 784, again.Sizes[0])
}
