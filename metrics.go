package noisynet

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	mix "github.com/gorgonia/noisynet/mixnet"
)

// Misclassified is the fraction of data whose largest output is not the largest target.
func Misclassified(n *mix.Network, data []mix.Example) (float64, error) {
	if len(data) == 0 {
		return 0, errors.New("no data to evaluate on")
	}
	var wrong int
	for i, ex := range data {
		out, err := n.Feedforward(ex.X)
		if err != nil {
			return 0, errors.Wrapf(err, "example %d", i)
		}
		if floats.MaxIdx(out.Data().([]float64)) != floats.MaxIdx(ex.Y.Data().([]float64)) {
			wrong++
		}
	}
	return float64(wrong) / float64(len(data)), nil
}

// MeanCost is the mean quadratic cost over data.
func MeanCost(n *mix.Network, data []mix.Example) (float64, error) {
	if len(data) == 0 {
		return 0, errors.New("no data to evaluate on")
	}
	costs := make([]float64, len(data))
	for i, ex := range data {
		c, err := n.Cost(ex)
		if err != nil {
			return 0, errors.Wrapf(err, "example %d", i)
		}
		costs[i] = c
	}
	return floats.Sum(costs) / float64(len(data)), nil
}
