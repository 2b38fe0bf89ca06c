package mix

import (
	"math"

	"gorgonia.org/tensor"
	"gorgonia.org/vecf64"
)

// NoisyOr is a layer of noisy-OR units.
//
// Each weight is read as -log(1-p) for the probability p that its input alone switches the unit on,
// and the bias as the leak. With z = W·a+b the unit is on with probability 1-exp(-z), which lies in
// [0, 1) as long as the weights and biases stay non-negative. That is why a NoisyOr is always
// paired with a PositiveSGD.
type NoisyOr struct{ std }

func NewNoisyOr(opt Optimizer) *NoisyOr { return &NoisyOr{std{opt}} }

func (n *NoisyOr) Apply(z *tensor.Dense) *tensor.Dense {
	return mapVec(z, func(v float64) float64 { return 1 - math.Exp(-v) })
}

// Prime is d/dz (1-exp(-z)) = exp(-z), which is 1-a.
func (n *NoisyOr) Prime(a *tensor.Dense) *tensor.Dense {
	return mapVec(a, func(v float64) float64 { return 1 - v })
}

func (n *NoisyOr) String() string { return "or" }

// NoisyOrNegable is a NoisyOr that also emits the negation of every unit. For a layer of width n
// the output is [p; 1-p], of length 2n, so the layer that follows has twice the fan-in.
type NoisyOrNegable struct{ NoisyOr }

func NewNoisyOrNegable(opt Optimizer) *NoisyOrNegable {
	return &NoisyOrNegable{NoisyOr{std{opt}}}
}

func (n *NoisyOrNegable) Apply(z *tensor.Dense) *tensor.Dense {
	p := floats(n.NoisyOr.Apply(z))
	out := make([]float64, 2*len(p))
	copy(out, p)
	for i, v := range p {
		out[len(p)+i] = 1 - v
	}
	return NewVec(out...)
}

// Prime of [p; 1-p] with respect to z is [1-p; -(1-p)].
func (n *NoisyOrNegable) Prime(a *tensor.Dense) *tensor.Dense {
	src := floats(a)
	half := len(src) / 2
	out := make([]float64, len(src))
	for i := 0; i < half; i++ {
		q := src[half+i]
		out[i] = q
		out[half+i] = -q
	}
	return NewVec(out...)
}

func (n *NoisyOrNegable) Expansion() int { return 2 }

// Fold adds the delta of the negated half onto the delta of the plain half.
func (n *NoisyOrNegable) Fold(delta *tensor.Dense) *tensor.Dense {
	src := floats(delta)
	half := len(src) / 2
	out := make([]float64, half)
	copy(out, src[:half])
	vecf64.Add(out, src[half:])
	return NewVec(out...)
}

func (n *NoisyOrNegable) String() string { return "nor" }

// NoisyAnd is a layer of noisy-AND units, the dual of NoisyOr: a unit is on when none of its
// inputs is off. Every input that is off (1-a) inhibits the unit through its weight:
//
//	u = -(W·(1-a) + b)
//	a' = exp(u)
//
// so the output lies in (0, 1] for non-negative weights and biases. Since ∂u/∂a = W, the network
// back-propagates through a NoisyAnd like through any other layer. The difference is in the
// parameter gradient, which is taken against 1-a and carries the sign of u.
type NoisyAnd struct {
	opt Optimizer
}

func NewNoisyAnd(opt Optimizer) *NoisyAnd { return &NoisyAnd{opt: opt} }

func (n *NoisyAnd) Opt() Optimizer { return n.opt }

func (n *NoisyAnd) WeightedSum(w, b, a *tensor.Dense) (*tensor.Dense, error) {
	off := mapVec(a, func(v float64) float64 { return 1 - v })
	z, err := affine(w, b, off)
	if err != nil {
		return nil, err
	}
	vecf64.Scale(floats(z), -1)
	return z, nil
}

func (n *NoisyAnd) Apply(z *tensor.Dense) *tensor.Dense { return mapVec(z, math.Exp) }

// Prime is taken with respect to u, where d/du exp(u) = exp(u) = a.
func (n *NoisyAnd) Prime(a *tensor.Dense) *tensor.Dense { return clone(a) }

func (n *NoisyAnd) WeightGrad(delta, prev *tensor.Dense) (dw, db *tensor.Dense, err error) {
	var l linear
	off := mapVec(prev, func(v float64) float64 { return 1 - v })
	dw = l.outer(delta, off)
	if l.err != nil {
		return nil, nil, l.err
	}
	vecf64.Scale(floats(dw), -1)
	db = clone(delta)
	vecf64.Scale(floats(db), -1)
	return dw, db, nil
}

func (n *NoisyAnd) String() string { return "and" }
