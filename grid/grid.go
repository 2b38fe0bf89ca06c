// Package grid searches hyper-parameter grids of mixed networks and records the validation error
// of every point.
package grid

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gorgonia/noisynet"
	mix "github.com/gorgonia/noisynet/mixnet"
	"github.com/gorgonia/noisynet/rng"
)

// BuildHypers lays out the hyper-parameters of a network with numLayers layers whose
// second-to-last layer is probabilistic, with learning rate eta2 and weight scale ws. Every other
// layer learns with eta1.
func BuildHypers(eta1, eta2, ws float64, numLayers int) ([]mix.Hyper, error) {
	switch numLayers {
	case 3:
		return []mix.Hyper{mix.Eta(eta1), {Eta: eta2, Scale: ws}, mix.Eta(eta1)}, nil
	case 4:
		return []mix.Hyper{mix.Eta(eta1), mix.Eta(eta1), {Eta: eta2, Scale: ws}, mix.Eta(eta1)}, nil
	}
	return nil, errors.Errorf("no hyper-parameter layout for %d layers", numLayers)
}

// FileName is the name of the result file of a search over the given network.
func FileName(acts []string, sizes []int) string {
	parts := append([]string(nil), acts...)
	for _, s := range sizes {
		parts = append(parts, strconv.Itoa(s))
	}
	return strings.Join(parts, "-")
}

// WriteResult writes the hyper-parameters of a run on a line, then one validation error per line,
// then a blank line.
func WriteResult(w io.Writer, hypers []mix.Hyper, valErr []float64) error {
	if _, err := fmt.Fprintln(w, mix.Hypers(hypers)); err != nil {
		return errors.WithStack(err)
	}
	for _, e := range valErr {
		if _, err := fmt.Fprintln(w, e); err != nil {
			return errors.WithStack(err)
		}
	}
	_, err := fmt.Fprintln(w)
	return errors.WithStack(err)
}

// Search trains one network per point of a grid and writes every result to Out.
type Search struct {
	Sizes []int
	Acts  []string
	Drop  mix.Drop

	Runner     *noisynet.Runner
	Training   []mix.Example
	Validation []mix.Example
	noisynet.Hyperparameters

	Out io.Writer
	Src rng.Source // initialises the networks
}

func (s *Search) run(hypers []mix.Hyper) error {
	conf := mix.Config{Sizes: s.Sizes, Acts: s.Acts, Hypers: hypers, Drop: s.Drop}
	net, err := mix.Mix(conf, s.Src)
	if err != nil {
		return err
	}
	hp := s.Hyperparameters
	if hp.Epochs == 0 {
		hp = noisynet.DefaultHyperparameters
	}
	valErr, err := s.Runner.SGD(net, s.Training, hp.Epochs, hp.BatchSize, s.Validation)
	if err != nil {
		return errors.Wrapf(err, "training %v with %v", net.Name(), mix.Hypers(hypers))
	}
	return WriteResult(s.Out, hypers, valErr)
}

// Hypers searches a network with one probabilistic layer: a learning rate for the other layers,
// a learning rate for the probabilistic layer and its weight scale.
func (s *Search) Hypers(eta1s, eta2s, wss []float64) error {
	for _, eta1 := range eta1s {
		for _, eta2 := range eta2s {
			for _, ws := range wss {
				hypers, err := BuildHypers(eta1, eta2, ws, len(s.Sizes)-1)
				if err != nil {
					return err
				}
				if err = s.run(hypers); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// TwoLogics searches a four layer network whose two middle layers are probabilistic, sharing one
// learning rate.
func (s *Search) TwoLogics(etas, ws1s, ws2s []float64) error {
	if len(s.Sizes) != 5 {
		return errors.Errorf("two logic layers need four layers, got %d", len(s.Sizes)-1)
	}
	for _, eta := range etas {
		for _, ws1 := range ws1s {
			for _, ws2 := range ws2s {
				hypers := []mix.Hyper{mix.Eta(eta), {Eta: eta, Scale: ws1}, {Eta: eta, Scale: ws2}, mix.Eta(eta)}
				if err := s.run(hypers); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Vanilla searches a single learning rate shared by every layer.
func (s *Search) Vanilla(etas []float64) error {
	for _, eta := range etas {
		hypers := make([]mix.Hyper, len(s.Sizes)-1)
		for i := range hypers {
			hypers[i] = mix.Eta(eta)
		}
		if err := s.run(hypers); err != nil {
			return err
		}
	}
	return nil
}

// Weight scales of the or-and search.
const (
	OrScale  = 0.01
	AndScale = 0.001
)

// OrAnd searches the learning rates of a two layer or-and network.
func (s *Search) OrAnd(eta1s, eta2s []float64) error {
	if len(s.Sizes) != 3 {
		return errors.Errorf("or-and needs two layers, got %d", len(s.Sizes)-1)
	}
	for _, eta1 := range eta1s {
		for _, eta2 := range eta2s {
			hypers := []mix.Hyper{{Eta: eta1, Scale: OrScale}, {Eta: eta2, Scale: AndScale}}
			if err := s.run(hypers); err != nil {
				return err
			}
		}
	}
	return nil
}
