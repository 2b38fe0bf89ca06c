package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvData = `1,0,255,51
0,255,0,0
2,102,0,255
`

func TestReadCSV(t *testing.T) {
	samples, err := ReadCSV(strings.NewReader(csvData), 3)
	require.NoError(t, err)
	assert.Equal(t, []Sample{
		{Input: []float32{0, 255, 51}, Label: 1},
		{Input: []float32{255, 0, 0}, Label: 0},
		{Input: []float32{102, 0, 255}, Label: 2},
	}, samples)

	bad := []string{
		"",
		"1\n",
		"x,1,2\n",
		"3,1,2\n",
		"1,NaN,2\n",
		"1,1,+Inf\n",
		"1,1,2\n0,1\n",
	}
	for _, b := range bad {
		_, err := ReadCSV(strings.NewReader(b), 3)
		assert.Error(t, err, "%q", b)
	}
}

func TestNormalize(t *testing.T) {
	samples, err := ReadCSV(strings.NewReader(csvData), 3)
	require.NoError(t, err)
	Normalize(samples, 1.0/255)
	assert.InDeltaSlice(t, []float32{0, 1, 0.2}, samples[0].Input, 1e-6)
}

func TestStandardize(t *testing.T) {
	samples := []Sample{
		{Input: []float32{2, -8, 0}},
		{Input: []float32{-4, 4, 0}},
	}
	Standardize(samples)
	assert.Equal(t, []float32{0.5, -1, 0}, samples[0].Input)
	assert.Equal(t, []float32{-1, 0.5, 0}, samples[1].Input)
}

func TestVectorize(t *testing.T) {
	samples := []Sample{{Input: []float32{0.5, 1}, Label: 2}}
	examples, err := Vectorize(samples, 3)
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, []float64{0.5, 1}, examples[0].X.Data())
	assert.Equal(t, []float64{0, 0, 1}, examples[0].Y.Data())

	_, err = Vectorize(samples, 2)
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	samples := make([]Sample, 10)
	for i := range samples {
		samples[i].Label = i
	}
	tr, va, te, err := Split(samples, 6, 3)
	require.NoError(t, err)
	assert.Len(t, tr, 6)
	assert.Len(t, va, 3)
	assert.Len(t, te, 1)
	assert.Equal(t, 6, va[0].Label)

	_, _, _, err = Split(samples, 8, 3)
	assert.Error(t, err)
}
