package hinton

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gorgonia.org/tensor"

	mix "github.com/gorgonia/noisynet/mixnet"
)

// MaximalUnitWeights feeds x through the first l layers of net and returns the index of the most
// active unit of layer l along with its incoming weights.
func MaximalUnitWeights(net *mix.Network, x *tensor.Dense, l int) (unit int, ws []float64, err error) {
	if l < 1 || l > net.Layers() {
		return 0, nil, errors.Errorf("layer %d out of [1, %d]", l, net.Layers())
	}
	a, err := net.FeedforwardTo(x, l)
	if err != nil {
		return 0, nil, err
	}
	unit = floats.MaxIdx(a.Data().([]float64))
	w := net.Weights()[l-1]
	cols := w.Shape()[1]
	if unit >= w.Shape()[0] {
		// the negated half of an expanded layer
		unit -= w.Shape()[0]
	}
	row := w.Data().([]float64)[unit*cols : (unit+1)*cols]
	return unit, append([]float64(nil), row...), nil
}

// WeightsOver returns the weights greater than t and their indices.
func WeightsOver(t float64, ws []float64) (weights []float64, inds []int) {
	for i, w := range ws {
		if w > t {
			weights = append(weights, w)
			inds = append(inds, i)
		}
	}
	return weights, inds
}

// FeatureMap combines the input weights of the first layer units inds, weighted by big, into an h×w
// image of what the units detect together as a noisy-AND: exp(-Σ big·(1-w)).
func FeatureMap(net *mix.Network, big []float64, inds []int, h, w int) (*image.Gray, error) {
	if len(big) != len(inds) {
		return nil, errors.Errorf("%d weights for %d units", len(big), len(inds))
	}
	w0 := net.Weights()[0]
	rows, cols := w0.Shape()[0], w0.Shape()[1]
	if cols != h*w {
		return nil, errors.Errorf("cannot show %d inputs as %d×%d", cols, h, w)
	}
	data := w0.Data().([]float64)
	sum := make([]float64, h*w)
	for k, ind := range inds {
		if ind < 0 || ind >= rows {
			return nil, errors.Errorf("unit %d out of [0, %d)", ind, rows)
		}
		for i, v := range data[ind*cols : (ind+1)*cols] {
			sum[i] += big[k] * (1 - v)
		}
	}
	for i, v := range sum {
		sum[i] = math.Exp(-v)
	}
	return Image(sum, h, w)
}

// Image renders values as an h×w grey image, darker for larger values.
func Image(values []float64, h, w int) (*image.Gray, error) {
	if len(values) != h*w {
		return nil, errors.Errorf("cannot show %d values as %d×%d", len(values), h, w)
	}
	lo, hi := floats.Min(values), floats.Max(values)
	im := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range values {
		var shade float64
		if hi > lo {
			shade = (v - lo) / (hi - lo)
		}
		im.SetGray(i%w, i/w, color.Gray{Y: uint8(math.Round(255 * (1 - shade)))})
	}
	return im, nil
}

// Histogram counts values into bins of equal width spanning their range. It returns the bin edges
// and the counts.
func Histogram(values []float64, bins int) (dividers, counts []float64) {
	if len(values) == 0 || bins < 1 {
		return nil, nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		hi = lo + 1
	}
	dividers = make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// the last divider is exclusive
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts = stat.Histogram(nil, dividers, sorted, nil)
	return dividers, counts
}
