// Package dataset loads labelled samples and turns them into training examples.
package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/vecf32"

	mix "github.com/gorgonia/noisynet/mixnet"
)

// Sample is a labelled input.
type Sample struct {
	Input []float32
	Label int
}

// ReadCSV reads one sample per record: the label first, then the features. Every record must have
// the same number of features, and every label must be in [0, classes).
func ReadCSV(r io.Reader, classes int) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	var retVal []Sample
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		s, err := parse(record, classes)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		retVal = append(retVal, s)
	}
	if len(retVal) == 0 {
		return nil, errors.New("no samples")
	}
	return retVal, nil
}

func parse(record []string, classes int) (s Sample, err error) {
	if len(record) < 2 {
		return s, errors.Errorf("expected a label and at least one feature, got %d fields", len(record))
	}
	if s.Label, err = strconv.Atoi(record[0]); err != nil {
		return s, errors.WithStack(err)
	}
	if s.Label < 0 || s.Label >= classes {
		return s, errors.Errorf("label %d out of [0, %d)", s.Label, classes)
	}
	s.Input = make([]float32, len(record)-1)
	for i, field := range record[1:] {
		var v float64
		if v, err = strconv.ParseFloat(field, 32); err != nil {
			return s, errors.WithStack(err)
		}
		f := float32(v)
		if math32.IsNaN(f) || math32.IsInf(f, 0) {
			return s, errors.Errorf("feature %d is %v", i, f)
		}
		s.Input[i] = f
	}
	return s, nil
}

// Normalize scales every input by scale, in place. Pixels in [0, 255] are normalized with 1/255.
func Normalize(samples []Sample, scale float32) {
	for _, s := range samples {
		vecf32.Scale(s.Input, scale)
	}
}

// Standardize divides every feature by its largest absolute value over samples, in place, so that
// all features lie in [-1, 1]. Features that are zero everywhere are left alone.
func Standardize(samples []Sample) {
	if len(samples) == 0 {
		return
	}
	max := make([]float32, len(samples[0].Input))
	for _, s := range samples {
		for i, v := range s.Input {
			max[i] = math32.Max(max[i], math32.Abs(v))
		}
	}
	inv := make([]float32, len(max))
	for i, m := range max {
		inv[i] = 1
		if m > 0 {
			inv[i] = 1 / m
		}
	}
	for _, s := range samples {
		vecf32.Mul(s.Input, inv)
	}
}

// Vectorize turns samples into examples with one-hot targets over classes.
func Vectorize(samples []Sample, classes int) ([]mix.Example, error) {
	retVal := make([]mix.Example, 0, len(samples))
	for i, s := range samples {
		if s.Label < 0 || s.Label >= classes {
			return nil, errors.Errorf("sample %d: label %d out of [0, %d)", i, s.Label, classes)
		}
		x := make([]float64, len(s.Input))
		for j, v := range s.Input {
			x[j] = float64(v)
		}
		y := make([]float64, classes)
		y[s.Label] = 1
		retVal = append(retVal, mix.Example{X: mix.NewVec(x...), Y: mix.NewVec(y...)})
	}
	return retVal, nil
}

// Split cuts samples into a training set of train samples, a validation set of valid samples, and
// a test set of whatever is left.
func Split(samples []Sample, train, valid int) (training, validation, test []Sample, err error) {
	if train < 0 || valid < 0 || train+valid > len(samples) {
		return nil, nil, nil, errors.Errorf("cannot split %d samples into %d and %d", len(samples), train, valid)
	}
	return samples[:train], samples[train : train+valid], samples[train+valid:], nil
}
