package mix

import (
	"math"

	"github.com/gorgonia/noisynet/rng"
	"gorgonia.org/tensor"
	"gorgonia.org/vecf64"
)

// DropScheme decides which weights take part in the computation of a mini-batch.
//
// NewBatch draws a new mask. Until the next NewBatch, DropWeights and DropGrads apply the same
// mask, so a gradient is always computed against the topology that produced the forward pass.
// DropWeights and DropGrads return new slices and leave their arguments alone.
//
// HalfWeights and DoubleWeights rescale the stored weights in place, for switching from training
// to evaluation and back.
type DropScheme interface {
	NewBatch()
	DropWeights(ws []*tensor.Dense) []*tensor.Dense
	DropGrads(gs []*tensor.Dense) []*tensor.Dense
	HalfWeights(ws []*tensor.Dense)
	DoubleWeights(ws []*tensor.Dense)
}

// DropNull is the DropScheme that never drops anything.
type DropNull struct{}

func (DropNull) NewBatch()                                      {}
func (DropNull) DropWeights(ws []*tensor.Dense) []*tensor.Dense { return ws }
func (DropNull) DropGrads(gs []*tensor.Dense) []*tensor.Dense   { return gs }
func (DropNull) HalfWeights(ws []*tensor.Dense)                 {}
func (DropNull) DoubleWeights(ws []*tensor.Dense)               {}

// unitDrop drops whole hidden units. A dropped unit has its outgoing connections removed from the
// forward pass, and both its incoming and its outgoing connections removed from the gradients.
type unitDrop struct {
	sizes []int
	keep  float64
	src   rng.Source
	pick  func(width int) []bool

	// masks[h] is the mask of hidden layer h+1, i.e. of sizes[h+1].
	masks [][]bool
}

func (d *unitDrop) NewBatch() {
	d.masks = d.masks[:0]
	if len(d.sizes) < 3 {
		return
	}
	for _, width := range d.sizes[1 : len(d.sizes)-1] {
		d.masks = append(d.masks, d.pick(width))
	}
}

func (d *unitDrop) ensure() {
	if len(d.masks) == 0 && len(d.sizes) > 2 {
		d.NewBatch()
	}
}

func (d *unitDrop) DropWeights(ws []*tensor.Dense) []*tensor.Dense {
	d.ensure()
	retVal := make([]*tensor.Dense, len(ws))
	copy(retVal, ws)
	for h, mask := range d.masks {
		out := h + 1
		if out >= len(ws) {
			break
		}
		retVal[out] = clone(ws[out])
		zeroCols(retVal[out], mask)
	}
	return retVal
}

func (d *unitDrop) DropGrads(gs []*tensor.Dense) []*tensor.Dense {
	d.ensure()
	retVal := make([]*tensor.Dense, len(gs))
	copy(retVal, gs)
	touched := make([]bool, len(gs))
	own := func(i int) *tensor.Dense {
		if !touched[i] {
			retVal[i] = clone(gs[i])
			touched[i] = true
		}
		return retVal[i]
	}
	for h, mask := range d.masks {
		in, out := h, h+1
		if out >= len(gs) {
			break
		}
		zeroRows(own(in), mask)
		zeroCols(own(out), mask)
	}
	return retVal
}

func (d *unitDrop) HalfWeights(ws []*tensor.Dense) { d.scaleOutgoing(ws, d.keep) }

func (d *unitDrop) DoubleWeights(ws []*tensor.Dense) { d.scaleOutgoing(ws, 1/d.keep) }

func (d *unitDrop) scaleOutgoing(ws []*tensor.Dense, s float64) {
	for h := 1; h < len(d.sizes)-1 && h < len(ws); h++ {
		vecf64.Scale(floats(ws[h]), s)
	}
}

// DropOut keeps every hidden unit with probability 1/n, independently, for each mini-batch.
type DropOut struct{ unitDrop }

// NewDropOut creates a DropOut for a network with the given layer sizes.
func NewDropOut(sizes []int, n float64, src rng.Source) *DropOut {
	d := &DropOut{unitDrop{sizes: sizes, keep: 1 / n, src: src}}
	d.pick = func(width int) []bool {
		mask := make([]bool, width)
		for i := range mask {
			mask[i] = d.src.Float64() < d.keep
		}
		return mask
	}
	return d
}

// DropSys keeps exactly ⌈width/n⌉ units of every hidden layer for each mini-batch, drawn without
// replacement.
type DropSys struct{ unitDrop }

// NewDropSys creates a DropSys for a network with the given layer sizes.
func NewDropSys(sizes []int, n float64, src rng.Source) *DropSys {
	d := &DropSys{unitDrop{sizes: sizes, keep: 1 / n, src: src}}
	d.pick = func(width int) []bool {
		mask := make([]bool, width)
		k := int(math.Ceil(float64(width) * d.keep))
		for _, i := range rng.Sample(d.src, width, k) {
			mask[i] = true
		}
		return mask
	}
	return d
}

// DropConnect keeps every single weight with probability 1/n for each mini-batch.
type DropConnect struct {
	keep  float64
	src   rng.Source
	masks [][]bool
}

// NewDropConnect creates a DropConnect. The masks are shaped after the first weights they see.
func NewDropConnect(n float64, src rng.Source) *DropConnect {
	return &DropConnect{keep: 1 / n, src: src}
}

func (d *DropConnect) NewBatch() { d.masks = nil }

func (d *DropConnect) ensure(ws []*tensor.Dense) {
	if d.masks != nil {
		return
	}
	d.masks = make([][]bool, len(ws))
	for i, w := range ws {
		mask := make([]bool, w.Shape().TotalSize())
		for j := range mask {
			mask[j] = d.src.Float64() < d.keep
		}
		d.masks[i] = mask
	}
}

func (d *DropConnect) apply(ts []*tensor.Dense) []*tensor.Dense {
	d.ensure(ts)
	retVal := make([]*tensor.Dense, len(ts))
	for i, t := range ts {
		retVal[i] = clone(t)
		data := floats(retVal[i])
		for j, keep := range d.masks[i] {
			if !keep {
				data[j] = 0
			}
		}
	}
	return retVal
}

func (d *DropConnect) DropWeights(ws []*tensor.Dense) []*tensor.Dense { return d.apply(ws) }

func (d *DropConnect) DropGrads(gs []*tensor.Dense) []*tensor.Dense { return d.apply(gs) }

func (d *DropConnect) HalfWeights(ws []*tensor.Dense) {
	for _, w := range ws {
		vecf64.Scale(floats(w), d.keep)
	}
}

func (d *DropConnect) DoubleWeights(ws []*tensor.Dense) {
	for _, w := range ws {
		vecf64.Scale(floats(w), 1/d.keep)
	}
}

// zeroCols zeroes every column c of m whose unit c % len(mask) is dropped. A matrix fed by an
// expanded layer has a multiple of len(mask) columns.
func zeroCols(m *tensor.Dense, mask []bool) {
	r, c := rows(m), cols(m)
	data := floats(m)
	for j := 0; j < c; j++ {
		if mask[j%len(mask)] {
			continue
		}
		for i := 0; i < r; i++ {
			data[i*c+j] = 0
		}
	}
}

func zeroRows(m *tensor.Dense, mask []bool) {
	c := cols(m)
	data := floats(m)
	for i := 0; i < rows(m) && i < len(mask); i++ {
		if mask[i] {
			continue
		}
		for j := 0; j < c; j++ {
			data[i*c+j] = 0
		}
	}
}
