package mix

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/vecf64"
)

// Example is an (input, target) pair.
type Example struct {
	X, Y *tensor.Dense
}

// Network is a feed-forward network whose layers each bring their own Activation (and through it,
// their own Optimizer), sharing one DropScheme.
//
// A Network is not safe for concurrent use. UpdateMiniBatch is the only method that modifies it.
type Network struct {
	name    string
	weights []*tensor.Dense
	biases  []*tensor.Dense
	acts    []Activation
	drop    DropScheme
	workers int
}

// ConsOpt is a construction option for a Network.
type ConsOpt func(n *Network)

// WithName sets the display name of the network.
func WithName(name string) ConsOpt { return func(n *Network) { n.name = name } }

// WithDropScheme sets the DropScheme of the network. The default is DropNull.
func WithDropScheme(d DropScheme) ConsOpt {
	return func(n *Network) {
		if d != nil {
			n.drop = d
		}
	}
}

// WithWorkers makes Grads spread the examples of a mini-batch over k goroutines.
func WithWorkers(k int) ConsOpt { return func(n *Network) { n.workers = k } }

// New creates a Network out of its parameters and activations. The Network owns the tensors from
// then on. New fails with a *ShapeMismatch if the layers do not fit together.
func New(weights, biases []*tensor.Dense, acts []Activation, opts ...ConsOpt) (*Network, error) {
	n := &Network{
		name:    "network",
		weights: weights,
		biases:  biases,
		acts:    acts,
		drop:    DropNull{},
	}
	for _, opt := range opts {
		opt(n)
	}
	if err := n.check(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Network) check() error {
	if len(n.weights) == 0 {
		return configErr("config", "a network needs at least one layer")
	}
	if len(n.biases) != len(n.weights) {
		return shapeErr("bias count", -1, len(n.weights), len(n.biases))
	}
	if len(n.acts) != len(n.weights) {
		return shapeErr("activation count", -1, len(n.weights), len(n.acts))
	}
	for i, w := range n.weights {
		if w == nil || w.Dims() != 2 {
			var got interface{}
			if w != nil {
				got = w.Shape()
			}
			return shapeErr("weights", i, "a matrix", got)
		}
		if n.acts[i] == nil {
			return configErr("config", "missing activation")
		}
		b := n.biases[i]
		if b == nil || b.Dims() != 1 || b.Shape()[0] != rows(w) {
			var got interface{}
			if b != nil {
				got = b.Shape()
			}
			return shapeErr("biases", i, tensor.Shape{rows(w)}, got)
		}
		if wa, ok := n.acts[i].(Widther); ok && wa.Width() != rows(w) {
			return shapeErr("activation width", i, rows(w), wa.Width())
		}
		if i > 0 {
			if want := rows(n.weights[i-1]) * expansion(n.acts[i-1]); cols(w) != want {
				return shapeErr("fan-in", i, want, cols(w))
			}
		}
	}
	return nil
}

func expansion(act Activation) int {
	if e, ok := act.(Expander); ok {
		return e.Expansion()
	}
	return 1
}

func fold(act Activation, delta *tensor.Dense) *tensor.Dense {
	if e, ok := act.(Expander); ok {
		return e.Fold(delta)
	}
	return delta
}

// Name returns the display name of the network.
func (n *Network) Name() string { return n.name }

// Layers returns the number of layers (weight matrices) of the network.
func (n *Network) Layers() int { return len(n.weights) }

// Weights returns the weight matrices. They must not be modified.
func (n *Network) Weights() []*tensor.Dense { return n.weights }

// Biases returns the bias vectors. They must not be modified.
func (n *Network) Biases() []*tensor.Dense { return n.biases }

// Activations returns the activation of each layer.
func (n *Network) Activations() []Activation { return n.acts }

// DropScheme returns the DropScheme of the network.
func (n *Network) DropScheme() DropScheme { return n.drop }

// InputWidth is the length of the vectors the network accepts.
func (n *Network) InputWidth() int { return cols(n.weights[0]) }

// OutputWidth is the length of the vectors the network produces.
func (n *Network) OutputWidth() int {
	last := len(n.weights) - 1
	return rows(n.weights[last]) * expansion(n.acts[last])
}

// Feedforward returns the output of the network for the input x.
func (n *Network) Feedforward(x *tensor.Dense) (*tensor.Dense, error) {
	return n.FeedforwardTo(x, len(n.weights))
}

// FeedforwardTo returns the output of the l-th layer for the input x. FeedforwardTo(x, 0) is x,
// and an l past the last layer is the output of the network. A negative l is an error.
func (n *Network) FeedforwardTo(x *tensor.Dense, l int) (*tensor.Dense, error) {
	if l < 0 {
		return nil, errors.Errorf("cannot feed forward to layer %d", l)
	}
	if x.Shape().TotalSize() != n.InputWidth() {
		return nil, shapeErr("input", 0, n.InputWidth(), x.Shape().TotalSize())
	}
	if l > len(n.weights) {
		l = len(n.weights)
	}
	a := x
	for i := 0; i < l; i++ {
		act := n.acts[i]
		z, err := act.WeightedSum(n.weights[i], n.biases[i], a)
		if err != nil {
			return nil, errors.Wrapf(err, "feedforward through layer %d (%v)", i, act)
		}
		a = act.Apply(z)
	}
	return a, nil
}

// CostDerivative is ∂C/∂a for the quadratic cost at the output.
func (n *Network) CostDerivative(a, y *tensor.Dense) *tensor.Dense {
	retVal := clone(a)
	vecf64.Sub(floats(retVal), floats(y))
	return retVal
}

// Cost is the quadratic cost ½‖y-a‖² of a single example.
func (n *Network) Cost(ex Example) (float64, error) {
	a, err := n.Feedforward(ex.X)
	if err != nil {
		return 0, err
	}
	if a.Shape().TotalSize() != ex.Y.Shape().TotalSize() {
		return 0, shapeErr("target", len(n.weights)-1, a.Shape().TotalSize(), ex.Y.Shape().TotalSize())
	}
	d := floats(n.CostDerivative(a, ex.Y))
	var sum float64
	for _, v := range d {
		sum += v * v
	}
	return sum / 2, nil
}

// CostBatch is the summed cost over batch.
func (n *Network) CostBatch(batch []Example) (float64, error) {
	var total float64
	for i, ex := range batch {
		c, err := n.Cost(ex)
		if err != nil {
			return 0, errors.Wrapf(err, "example %d", i)
		}
		total += c
	}
	return total, nil
}

// Evaluate returns how many examples of data the network classifies correctly, taking the
// largest output as the predicted class and the largest target element as the true one.
func (n *Network) Evaluate(data []Example) (int, error) {
	var correct int
	for i, ex := range data {
		a, err := n.Feedforward(ex.X)
		if err != nil {
			return 0, errors.Wrapf(err, "example %d", i)
		}
		if argmax(floats(a)) == argmax(floats(ex.Y)) {
			correct++
		}
	}
	return correct, nil
}

// HalfWeights rescales the weights for evaluation after training with dropout.
func (n *Network) HalfWeights() { n.drop.HalfWeights(n.weights) }

// DoubleWeights undoes HalfWeights.
func (n *Network) DoubleWeights() { n.drop.DoubleWeights(n.weights) }
