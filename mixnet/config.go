package mix

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Hyper is the hyper-parameter of one layer: its learning rate, and for the probabilistic
// activations the scale of their initial weights.
type Hyper struct {
	Eta   float64
	Scale float64
}

// Eta makes a Hyper with only a learning rate.
func Eta(eta float64) Hyper { return Hyper{Eta: eta} }

func (h Hyper) String() string {
	if h.Scale == 0 {
		return fmt.Sprintf("%v", h.Eta)
	}
	return fmt.Sprintf("(%v, %v)", h.Eta, h.Scale)
}

// Hypers formats a list of Hyper the way the result files expect, e.g. "[0.1, (0.3, 0.01), 0.1]".
func Hypers(hs []Hyper) string {
	parts := make([]string, len(hs))
	for i, h := range hs {
		parts[i] = h.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Drop names a dropout scheme and its parameter n: units (or connections) are kept with
// probability 1/n.
type Drop struct {
	Scheme string // "drop_out", "drop_sys", "drop_connect" or "" for none
	N      float64
}

// Config configures the network built by Mix.
type Config struct {
	Sizes  []int    // width of every layer, input first
	Acts   []string // one identifier per non-input layer
	Hypers []Hyper  // one per non-input layer
	Drop   Drop

	Reg      bool    // use weight decay
	Lambda   float64 // weight decay, when Reg is set
	NoBiases bool    // zero, frozen biases
	Workers  int     // goroutines used per mini-batch
}

// Activation identifiers understood by Mix.
const (
	ActSigmoid = "sig"
	ActTanh    = "tanh"
	ActRelu    = "relu"
	ActLinear  = "lin"
	ActSoftmax = "sm"
	ActOr      = "or"
	ActAnd     = "and"
	ActNegOr   = "nor"
)

// Defaults used by DefaultConf.
const (
	DefaultEta   = 0.1
	DefaultWS    = 0.01
	DefaultDecay = 0.1
)

// Dropout scheme identifiers understood by Mix.
const (
	DropOutScheme     = "drop_out"
	DropSysScheme     = "drop_sys"
	DropConnectScheme = "drop_connect"
)

func isProbabilistic(act string) bool { return act == ActOr || act == ActAnd || act == ActNegOr }

// DefaultConf returns a Config for the given sizes and activations, with a learning rate of
// DefaultEta everywhere and a weight scale of DefaultWS for the probabilistic layers.
func DefaultConf(sizes []int, acts ...string) Config {
	hypers := make([]Hyper, len(acts))
	for i, act := range acts {
		hypers[i] = Eta(DefaultEta)
		if isProbabilistic(act) {
			hypers[i].Scale = DefaultWS
		}
	}
	return Config{
		Sizes:  sizes,
		Acts:   acts,
		Hypers: hypers,
		Lambda: DefaultDecay,
	}
}

// IsValid reports whether Mix can build a network from conf.
func (conf Config) IsValid() bool { return conf.Validate() == nil }

// Validate returns the first reason why Mix cannot build a network from conf.
func (conf Config) Validate() error {
	if len(conf.Sizes) < 2 {
		return configErr("config", "at least an input and an output size are required")
	}
	if len(conf.Acts) != len(conf.Sizes)-1 {
		return errors.Wrapf(configErr("config", "one activation per non-input layer"), "%d sizes, %d activations", len(conf.Sizes), len(conf.Acts))
	}
	if len(conf.Hypers) != len(conf.Acts) {
		return errors.Wrapf(configErr("config", "one hyper-parameter per activation"), "%d activations, %d hyper-parameters", len(conf.Acts), len(conf.Hypers))
	}
	for i, s := range conf.Sizes {
		if s < 1 {
			return errors.Wrapf(configErr("config", "layer sizes must be positive"), "size %d is %d", i, s)
		}
	}
	for i, act := range conf.Acts {
		switch act {
		case ActSigmoid, ActTanh, ActRelu, ActLinear:
		case ActSoftmax:
			if i != len(conf.Acts)-1 {
				return errors.Wrapf(configErr("config", "softmax is only supported as the final layer"), "layer %d", i)
			}
		case ActOr, ActAnd, ActNegOr:
			if conf.Hypers[i].Scale <= 0 {
				return errors.Wrapf(configErr("config", act+" requires a positive weight scale"), "layer %d", i)
			}
		default:
			return configErr("activation", act)
		}
		if conf.Hypers[i].Eta <= 0 {
			return errors.Wrapf(configErr("config", "learning rates must be positive"), "layer %d", i)
		}
	}
	switch conf.Drop.Scheme {
	case "":
	case DropOutScheme, DropSysScheme, DropConnectScheme:
		if conf.Drop.N < 1 {
			return configErr("config", "the dropout parameter must be at least 1")
		}
	default:
		return configErr("dropout", conf.Drop.Scheme)
	}
	if conf.Reg && conf.Lambda < 0 {
		return configErr("config", "weight decay must not be negative")
	}
	return nil
}

// Name is the display name of the network conf describes: its activations joined by '-'.
func (conf Config) Name() string { return joinName(conf.Acts) }
