package mix

import (
	"gorgonia.org/tensor"
	"gorgonia.org/vecf64"
)

// Optimizer turns the gradients accumulated over a mini-batch into new parameters.
//
// dw and db are sums over the m examples of the batch, oriented as ascent directions (see
// Activation). The returned tensors are new; the arguments are not modified.
type Optimizer interface {
	UpdateWeights(w, dw *tensor.Dense, m int) (*tensor.Dense, error)
	UpdateBiases(b, db *tensor.Dense, m int) (*tensor.Dense, error)
}

// SGD is plain stochastic gradient descent: p' = p + (η/m)·g.
type SGD struct {
	Eta float64
}

func (o SGD) UpdateWeights(w, dw *tensor.Dense, m int) (*tensor.Dense, error) {
	return step(w, dw, o.Eta, m, 1, -1)
}

func (o SGD) UpdateBiases(b, db *tensor.Dense, m int) (*tensor.Dense, error) {
	return step(b, db, o.Eta, m, 1, -1)
}

// RegSGD is SGD with L2 weight decay: w' = (1-ηλ/m)·w + (η/m)·g. Biases are not decayed.
type RegSGD struct {
	Eta    float64
	Lambda float64
}

func (o RegSGD) UpdateWeights(w, dw *tensor.Dense, m int) (*tensor.Dense, error) {
	return step(w, dw, o.Eta, m, 1-o.Eta*o.Lambda/float64(m), -1)
}

func (o RegSGD) UpdateBiases(b, db *tensor.Dense, m int) (*tensor.Dense, error) {
	return step(b, db, o.Eta, m, 1, -1)
}

// PositiveSGD performs the step of the wrapped Optimizer and then clamps every parameter to be
// non-negative. The probabilistic activations are undefined for negative weights.
type PositiveSGD struct {
	Optimizer
}

func (o PositiveSGD) UpdateWeights(w, dw *tensor.Dense, m int) (*tensor.Dense, error) {
	retVal, err := o.Optimizer.UpdateWeights(w, dw, m)
	if err != nil {
		return nil, err
	}
	clampPositive(retVal)
	return retVal, nil
}

func (o PositiveSGD) UpdateBiases(b, db *tensor.Dense, m int) (*tensor.Dense, error) {
	retVal, err := o.Optimizer.UpdateBiases(b, db, m)
	if err != nil {
		return nil, err
	}
	clampPositive(retVal)
	return retVal, nil
}

// FrozenBiases updates weights with the wrapped Optimizer and never touches the biases.
type FrozenBiases struct {
	Optimizer
}

func (o FrozenBiases) UpdateBiases(b, db *tensor.Dense, m int) (*tensor.Dense, error) {
	if b.Shape().TotalSize() != db.Shape().TotalSize() {
		return nil, shapeErr("bias gradient", -1, b.Shape(), db.Shape())
	}
	return clone(b), nil
}

// step computes decay·p + (η/m)·g into a new tensor. layer is only used for error reporting.
func step(p, g *tensor.Dense, eta float64, m int, decay float64, layer int) (*tensor.Dense, error) {
	if !p.Shape().Eq(g.Shape()) {
		return nil, shapeErr("gradient", layer, p.Shape(), g.Shape())
	}
	if m < 1 {
		m = 1
	}
	retVal := clone(p)
	data := floats(retVal)
	if decay != 1 {
		vecf64.Scale(data, decay)
	}
	vecf64.Add(data, scaled(floats(g), eta/float64(m)))
	return retVal, nil
}

func clampPositive(t *tensor.Dense) {
	data := floats(t)
	for i, v := range data {
		if v < 0 {
			data[i] = 0
		}
	}
}
