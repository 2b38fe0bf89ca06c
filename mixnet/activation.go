package mix

import (
	"math"

	"gorgonia.org/tensor"
	"gorgonia.org/vecf64"
)

// Activation is the per-layer strategy of a Network. It owns the way a layer combines its
// inputs, the nonlinearity, the local derivative and the gradient rule for the layer's parameters.
//
// Prime takes the output of Apply, not the pre-activation. WeightGrad receives the delta of the
// layer and the output of the previous layer, and returns the ascent direction for the layer's
// weights and biases: the direction that decreases the cost. Optimizers add it.
type Activation interface {
	WeightedSum(w, b, a *tensor.Dense) (*tensor.Dense, error)
	Apply(z *tensor.Dense) *tensor.Dense
	Prime(a *tensor.Dense) *tensor.Dense
	WeightGrad(delta, prev *tensor.Dense) (dw, db *tensor.Dense, err error)
	Opt() Optimizer

	// String returns the identifier the activation was built from.
	String() string
}

// Widther is an Activation that knows the width of its layer.
type Widther interface {
	Width() int
}

// Expander is an Activation whose output is wider than its layer.
//
// Expansion is the ratio between output length and layer width. Fold maps a delta computed
// against the expanded output back onto the layer's units.
type Expander interface {
	Expansion() int
	Fold(delta *tensor.Dense) *tensor.Dense
}

// std carries what the ordinary, chain-rule activations share: W·a+b and an outer product
// gradient.
type std struct {
	opt Optimizer
}

func (s std) Opt() Optimizer { return s.opt }

func (s std) WeightedSum(w, b, a *tensor.Dense) (*tensor.Dense, error) { return affine(w, b, a) }

func (s std) WeightGrad(delta, prev *tensor.Dense) (dw, db *tensor.Dense, err error) {
	var l linear
	dw = l.outer(delta, prev)
	if l.err != nil {
		return nil, nil, l.err
	}
	return dw, clone(delta), nil
}

func ones(a *tensor.Dense) *tensor.Dense { return mapVec(a, func(float64) float64 { return 1 }) }

// Sigmoid is the logistic activation.
type Sigmoid struct{ std }

func NewSigmoid(opt Optimizer) *Sigmoid { return &Sigmoid{std{opt}} }

func (s *Sigmoid) Apply(z *tensor.Dense) *tensor.Dense {
	return mapVec(z, func(v float64) float64 { return 1 / (1 + math.Exp(-v)) })
}

func (s *Sigmoid) Prime(a *tensor.Dense) *tensor.Dense {
	return mapVec(a, func(v float64) float64 { return v * (1 - v) })
}

func (s *Sigmoid) String() string { return "sig" }

// Tanh is the hyperbolic tangent activation.
type Tanh struct{ std }

func NewTanh(opt Optimizer) *Tanh { return &Tanh{std{opt}} }

func (t *Tanh) Apply(z *tensor.Dense) *tensor.Dense { return mapVec(z, math.Tanh) }

func (t *Tanh) Prime(a *tensor.Dense) *tensor.Dense {
	return mapVec(a, func(v float64) float64 { return 1 - v*v })
}

func (t *Tanh) String() string { return "tanh" }

// Softmax normalises the exponentiated sums so that the outputs add up to one.
//
// Its Prime is one everywhere: paired with the output cost derivative this yields the gradient of
// the log-likelihood, so Softmax is only meaningful as the final layer.
type Softmax struct{ std }

func NewSoftmax(opt Optimizer) *Softmax { return &Softmax{std{opt}} }

func (s *Softmax) Apply(z *tensor.Dense) *tensor.Dense {
	src := floats(z)
	max := vecf64.MaxOf(src)
	dst := make([]float64, len(src))
	var sum float64
	for i, v := range src {
		dst[i] = math.Exp(v - max)
		sum += dst[i]
	}
	vecf64.Scale(dst, 1/sum)
	return NewVec(dst...)
}

func (s *Softmax) Prime(a *tensor.Dense) *tensor.Dense { return ones(a) }

func (s *Softmax) String() string { return "sm" }

// Relu is the rectified linear activation.
type Relu struct {
	std
	width int
}

func NewRelu(width int, opt Optimizer) *Relu { return &Relu{std: std{opt}, width: width} }

func (r *Relu) Apply(z *tensor.Dense) *tensor.Dense {
	return mapVec(z, func(v float64) float64 { return math.Max(v, 0) })
}

func (r *Relu) Prime(a *tensor.Dense) *tensor.Dense {
	return mapVec(a, func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	})
}

func (r *Relu) Width() int { return r.width }

func (r *Relu) String() string { return "relu" }

// Linear is the identity activation.
type Linear struct{ std }

func NewLinear(opt Optimizer) *Linear { return &Linear{std{opt}} }

func (l *Linear) Apply(z *tensor.Dense) *tensor.Dense { return clone(z) }

func (l *Linear) Prime(a *tensor.Dense) *tensor.Dense { return ones(a) }

func (l *Linear) String() string { return "lin" }
