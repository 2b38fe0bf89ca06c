package mix

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigurationError is returned when a network is asked to be built from an identifier it does
// not know, or from a configuration that cannot describe a network.
type ConfigurationError struct {
	Kind string // "activation", "dropout", "config"
	Name string
}

func (err *ConfigurationError) Error() string {
	switch err.Kind {
	case "activation":
		return fmt.Sprintf("unrecognised activation %q", err.Name)
	case "dropout":
		return fmt.Sprintf("unrecognised dropout scheme %q", err.Name)
	}
	return fmt.Sprintf("invalid configuration: %s", err.Name)
}

// ShapeMismatch is returned when weights, biases and activations of a network do not agree.
type ShapeMismatch struct {
	What  string
	Layer int
	Want  interface{}
	Got   interface{}
}

func (err *ShapeMismatch) Error() string {
	return fmt.Sprintf("shape mismatch in layer %d (%s): want %v, got %v", err.Layer, err.What, err.Want, err.Got)
}

// NumericInstability is returned when an update produced a NaN or an Inf.
type NumericInstability struct {
	Layer int
	What  string
}

func (err *NumericInstability) Error() string {
	return fmt.Sprintf("non-finite %s in layer %d after update", err.What, err.Layer)
}

func configErr(kind, name string) error {
	return errors.WithStack(&ConfigurationError{Kind: kind, Name: name})
}

func shapeErr(what string, layer int, want, got interface{}) error {
	return errors.WithStack(&ShapeMismatch{What: what, Layer: layer, Want: want, Got: got})
}

// IsConfigurationError reports whether the cause of err is a *ConfigurationError.
func IsConfigurationError(err error) bool {
	_, ok := errors.Cause(err).(*ConfigurationError)
	return ok
}

// IsShapeMismatch reports whether the cause of err is a *ShapeMismatch.
func IsShapeMismatch(err error) bool {
	_, ok := errors.Cause(err).(*ShapeMismatch)
	return ok
}

// IsNumericInstability reports whether the cause of err is a *NumericInstability.
func IsNumericInstability(err error) bool {
	_, ok := errors.Cause(err).(*NumericInstability)
	return ok
}
