package mix

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// GobEncode writes the weights then the biases of every layer.
func (n *Network) GobEncode() (retVal []byte, err error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	for _, t := range n.params() {
		if err = enc.Encode(t); err != nil {
			return nil, errors.Wrapf(err, "encoding %v", n.name)
		}
	}
	return buf.Bytes(), nil
}

// GobDecode reads parameters written by GobEncode into n. The receiving network must already
// have the architecture of the encoded one.
func (n *Network) GobDecode(p []byte) error {
	dec := gob.NewDecoder(bytes.NewBuffer(p))
	params := n.params()
	decoded := make([]*tensor.Dense, len(params))
	for i, t := range params {
		v := new(tensor.Dense)
		if err := dec.Decode(v); err != nil {
			return errors.Wrapf(err, "decoding %v", n.name)
		}
		if !v.Shape().Eq(t.Shape()) {
			return shapeErr("parameter", i%n.Layers(), t.Shape(), v.Shape())
		}
		decoded[i] = v
	}
	for i, t := range params {
		copy(floats(t), floats(decoded[i]))
	}
	return nil
}

func (n *Network) params() []*tensor.Dense {
	retVal := make([]*tensor.Dense, 0, 2*len(n.weights))
	retVal = append(retVal, n.weights...)
	return append(retVal, n.biases...)
}
