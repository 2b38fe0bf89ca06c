// Package noisynet trains heterogeneous feed-forward networks built by package mix.
//
// A Runner drives epochs of mini-batch stochastic gradient descent over a network and reports the
// validation error after every epoch.
package noisynet

import (
	"bytes"
	"encoding/gob"
	"log"
	"os"

	"github.com/pkg/errors"

	mix "github.com/gorgonia/noisynet/mixnet"
	"github.com/gorgonia/noisynet/rng"
)

// Runner trains networks. It keeps the Statistics of every network it trained.
type Runner struct {
	// state
	Statistics
	epoch int

	// config
	src    rng.Source
	metric Metric

	// io
	outEnc OutputEncoder
	buf    bytes.Buffer
	logger *log.Logger
}

// RunnerOpt is an option for NewRunner.
type RunnerOpt func(r *Runner)

// WithLogger makes the Runner log its progress to l instead of its own buffer.
func WithLogger(l *log.Logger) RunnerOpt { return func(r *Runner) { r.logger = l } }

// WithMetric sets the validation Metric. The default is Misclassified.
func WithMetric(m Metric) RunnerOpt { return func(r *Runner) { r.metric = m } }

// WithEncoder feeds every epoch to enc.
func WithEncoder(enc OutputEncoder) RunnerOpt { return func(r *Runner) { r.outEnc = enc } }

// NewRunner creates a Runner shuffling the training data with src.
func NewRunner(src rng.Source, opts ...RunnerOpt) *Runner {
	retVal := &Runner{
		Statistics: makeStatistics(),
		src:        src,
		metric:     Misclassified,
	}
	retVal.logger = log.New(&retVal.buf, "", log.Ltime)
	for _, opt := range opts {
		opt(retVal)
	}
	return retVal
}

// SGD trains net for epochs. Every epoch shuffles the training data, updates net once per
// mini-batch of batchSize examples (the last one may be smaller), and evaluates the Metric over
// validation with the weights rescaled for evaluation. It returns the validation error of every
// epoch.
//
// training itself is left in its original order.
func (r *Runner) SGD(net *mix.Network, training []mix.Example, epochs, batchSize int, validation []mix.Example) ([]float64, error) {
	switch {
	case net == nil:
		return nil, errors.New("no network to train")
	case epochs < 1:
		return nil, errors.Errorf("expected at least one epoch, got %d", epochs)
	case batchSize < 1:
		return nil, errors.Errorf("expected a positive mini-batch size, got %d", batchSize)
	case len(training) == 0:
		return nil, errors.New("no training data")
	case len(validation) == 0:
		return nil, errors.New("no validation data")
	}

	data := make([]mix.Example, len(training))
	copy(data, training)
	retVal := make([]float64, 0, epochs)

	r.logger.Printf("Training %v on %d examples for %d epochs", net.Name(), len(data), epochs)
	prefix := r.logger.Prefix()
	r.logger.SetPrefix(prefix + "\t")
	defer r.logger.SetPrefix(prefix)
	for r.epoch = 0; r.epoch < epochs; r.epoch++ {
		rng.Shuffle(r.src, len(data), func(i, j int) { data[i], data[j] = data[j], data[i] })

		var g *mix.Gradients
		var err error
		for start := 0; start < len(data); start += batchSize {
			end := start + batchSize
			if end > len(data) {
				end = len(data)
			}
			if g, err = net.UpdateMiniBatch(data[start:end]); err != nil {
				return retVal, errors.Wrapf(err, "epoch %d, mini-batch at %d", r.epoch, start)
			}
		}

		e, err := r.evaluate(net, validation)
		if err != nil {
			return retVal, errors.Wrapf(err, "evaluating epoch %d", r.epoch)
		}
		retVal = append(retVal, e)
		r.update(net.Name(), e)
		r.logger.Printf("Epoch %d: %v", r.epoch, e)

		if r.outEnc != nil {
			if err = r.outEnc.Encode(EpochState{Net: net, Epoch: r.epoch, Error: e, Grads: g}); err != nil {
				return retVal, errors.Wrapf(err, "encoding epoch %d", r.epoch)
			}
		}
	}
	return retVal, nil
}

func (r *Runner) evaluate(net *mix.Network, data []mix.Example) (float64, error) {
	net.HalfWeights()
	defer net.DoubleWeights()
	return r.metric(net, data)
}

// Epoch returns the epoch the Runner is at.
func (r *Runner) Epoch() int { return r.epoch }

// Log returns the log of the Runner, unless WithLogger redirected it.
func (r *Runner) Log() string { return r.buf.String() }

// Save writes the parameters of net into filename.
func Save(net *mix.Network, filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	enc := gob.NewEncoder(f)
	return enc.Encode(net)
}

// Load reads parameters written by Save into net, which must have the same architecture.
func Load(net *mix.Network, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	dec := gob.NewDecoder(f)
	if err = dec.Decode(net); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
