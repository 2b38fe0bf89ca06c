package mix

import (
	"math"

	"github.com/gorgonia/noisynet/rng"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// sigmoidGain widens the initial weights of sigmoid layers, which otherwise start out in their
// linear region.
const sigmoidGain = 16

// Mix builds the network conf describes. Initial weights, and later the dropout masks, are drawn
// from src.
func Mix(conf Config, src rng.Source) (*Network, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	weights := make([]*tensor.Dense, 0, len(conf.Acts))
	biases := make([]*tensor.Dense, 0, len(conf.Acts))
	acts := make([]Activation, 0, len(conf.Acts))
	var prev string
	for i, id := range conf.Acts {
		fanIn, width := conf.Sizes[i], conf.Sizes[i+1]
		if prev == ActNegOr {
			fanIn *= 2
		}
		w, b := initParams(id, fanIn, width, conf.Hypers[i], src)
		if conf.NoBiases {
			b = zerosLike(b)
		}
		act, err := NewActivation(id, width, conf.Optimizer(id, conf.Hypers[i]))
		if err != nil {
			return nil, err
		}
		weights = append(weights, w)
		biases = append(biases, b)
		acts = append(acts, act)
		prev = id
	}

	drop, err := NewDropScheme(conf.Drop, conf.Sizes, src)
	if err != nil {
		return nil, err
	}
	return New(weights, biases, acts,
		WithName(conf.Name()),
		WithDropScheme(drop),
		WithWorkers(conf.Workers),
	)
}

// Optimizer returns the optimizer conf prescribes for a layer with the given activation.
// Probabilistic layers get their step clamped to non-negative parameters.
func (conf Config) Optimizer(id string, h Hyper) Optimizer {
	var opt Optimizer = SGD{Eta: h.Eta}
	if conf.Reg {
		opt = RegSGD{Eta: h.Eta, Lambda: conf.Lambda}
	}
	if conf.NoBiases {
		opt = FrozenBiases{opt}
	}
	if isProbabilistic(id) {
		opt = PositiveSGD{opt}
	}
	return opt
}

// NewActivation creates the activation called id for a layer of the given width. An unknown id
// fails with a *ConfigurationError.
func NewActivation(id string, width int, opt Optimizer) (Activation, error) {
	switch id {
	case ActSigmoid:
		return NewSigmoid(opt), nil
	case ActTanh:
		return NewTanh(opt), nil
	case ActRelu:
		return NewRelu(width, opt), nil
	case ActLinear:
		return NewLinear(opt), nil
	case ActSoftmax:
		return NewSoftmax(opt), nil
	case ActOr:
		return NewNoisyOr(opt), nil
	case ActAnd:
		return NewNoisyAnd(opt), nil
	case ActNegOr:
		return NewNoisyOrNegable(opt), nil
	}
	return nil, configErr("activation", id)
}

// NewDropScheme creates the DropScheme d names, for a network of the given sizes. An empty
// scheme is DropNull; an unknown one fails with a *ConfigurationError.
func NewDropScheme(d Drop, sizes []int, src rng.Source) (DropScheme, error) {
	if d.Scheme == "" {
		return DropNull{}, nil
	}
	if d.N < 1 {
		return nil, errors.Wrapf(configErr("config", "the dropout parameter must be at least 1"), "got %v", d.N)
	}
	switch d.Scheme {
	case DropOutScheme:
		return NewDropOut(sizes, d.N, src), nil
	case DropSysScheme:
		return NewDropSys(sizes, d.N, src), nil
	case DropConnectScheme:
		return NewDropConnect(d.N, src), nil
	}
	return nil, configErr("dropout", d.Scheme)
}

// initParams draws the initial weights and biases of a layer, scaled by 1/√fanIn.
func initParams(id string, fanIn, width int, h Hyper, src rng.Source) (w, b *tensor.Dense) {
	xc := 1 / math.Sqrt(float64(fanIn))
	switch id {
	case ActSigmoid:
		return normal(src, sigmoidGain*xc, width, fanIn), normal(src, sigmoidGain*xc, width)
	case ActOr, ActAnd, ActNegOr:
		scale := xc * h.Scale
		return positiveNormal(src, scale, width, fanIn), positiveNormal(src, scale, width)
	case ActRelu:
		return normal(src, xc, width, fanIn), normal(src, 0.1, width)
	default:
		return normal(src, xc, width, fanIn), normal(src, xc, width)
	}
}

// normal returns a tensor of the given shape filled with N(0, σ²) samples.
func normal(src rng.Source, σ float64, shape ...int) *tensor.Dense {
	size := tensor.Shape(shape).TotalSize()
	data := make([]float64, size)
	for i := range data {
		data[i] = σ * src.NormFloat64()
	}
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(data))
}

// positiveNormal is normal folded onto the non-negative half line.
func positiveNormal(src rng.Source, σ float64, shape ...int) *tensor.Dense {
	retVal := normal(src, σ, shape...)
	data := floats(retVal)
	for i, v := range data {
		data[i] = math.Abs(v)
	}
	return retVal
}

// ReluWithLinearFinal builds a network of relu hidden layers and a linear output layer, all
// trained with the same SGD, for regression problems. The biases start at one.
func ReluWithLinearFinal(sizes []int, eta float64, src rng.Source) (*Network, error) {
	if len(sizes) < 2 {
		return nil, configErr("config", "at least an input and an output size are required")
	}
	sgd := SGD{Eta: eta}
	var weights, biases []*tensor.Dense
	var acts []Activation
	for i := 1; i < len(sizes); i++ {
		fanIn, width := sizes[i-1], sizes[i]
		weights = append(weights, normal(src, 1/math.Sqrt(float64(fanIn)), width, fanIn))
		b := make([]float64, width)
		for j := range b {
			b[j] = 1
		}
		biases = append(biases, NewVec(b...))
		if i == len(sizes)-1 {
			acts = append(acts, NewLinear(sgd))
		} else {
			acts = append(acts, NewRelu(width, sgd))
		}
	}
	return New(weights, biases, acts, WithName("relu-lin"))
}

// LinearNetwork builds a deep linear network with small initial weights.
func LinearNetwork(sizes []int, eta float64, src rng.Source) (*Network, error) {
	if len(sizes) < 2 {
		return nil, configErr("config", "at least an input and an output size are required")
	}
	sgd := SGD{Eta: eta}
	var weights, biases []*tensor.Dense
	var acts []Activation
	for i := 1; i < len(sizes); i++ {
		weights = append(weights, normal(src, 0.1, sizes[i], sizes[i-1]))
		biases = append(biases, normal(src, 0.1, sizes[i]))
		acts = append(acts, NewLinear(sgd))
	}
	return New(weights, biases, acts, WithName("lin"))
}
