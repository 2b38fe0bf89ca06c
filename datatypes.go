package noisynet

import (
	mix "github.com/gorgonia/noisynet/mixnet"
)

// Metric scores a network on a data set. Lower is better.
type Metric func(n *mix.Network, data []mix.Example) (float64, error)

// EpochState is the state of a training run at the end of an epoch.
type EpochState struct {
	Net   *mix.Network
	Epoch int
	Error float64 // the Metric over the validation data

	// Grads are the gradients of the last mini-batch of the epoch.
	Grads *mix.Gradients
}

// OutputEncoder encodes the state of a training run as whatever, once per epoch.
//
// An example OutputEncoder is the Hinton diagram encoder. Another example would be a logger.
type OutputEncoder interface {
	Encode(s EpochState) error
	Flush() error
}

// Hyperparameters of a training run, as the experiment drivers pass them around.
type Hyperparameters struct {
	Epochs    int
	BatchSize int
}

// DefaultHyperparameters are those of the grid searches: 10 epochs of mini-batches of 50.
var DefaultHyperparameters = Hyperparameters{Epochs: 10, BatchSize: 50}
