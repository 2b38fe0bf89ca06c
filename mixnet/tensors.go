package mix

import (
	"math"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/vecf64"
)

// Float is the element type of every tensor the package creates.
var Float = tensor.Float64

// NewVec creates a vector backed by data. The slice is not copied.
func NewVec(data ...float64) *tensor.Dense {
	return tensor.New(tensor.WithShape(len(data)), tensor.WithBacking(data))
}

// NewMat creates an r×c row-major matrix backed by data. A nil data allocates zeroes.
func NewMat(r, c int, data []float64) *tensor.Dense {
	if data == nil {
		data = make([]float64, r*c)
	}
	return tensor.New(tensor.WithShape(r, c), tensor.WithBacking(data))
}

func zeroVec(n int) *tensor.Dense { return NewVec(make([]float64, n)...) }

func zerosLike(t *tensor.Dense) *tensor.Dense {
	return tensor.New(tensor.Of(Float), tensor.WithShape(t.Shape().Clone()...))
}

func floats(t *tensor.Dense) []float64 { return t.Data().([]float64) }

func clone(t *tensor.Dense) *tensor.Dense { return t.Clone().(*tensor.Dense) }

func rows(t *tensor.Dense) int { return t.Shape()[0] }

func cols(t *tensor.Dense) int {
	s := t.Shape()
	if len(s) < 2 {
		return 1
	}
	return s[1]
}

// mapVec returns a new vector with fn applied to every element of a.
func mapVec(a *tensor.Dense, fn func(float64) float64) *tensor.Dense {
	src := floats(a)
	dst := make([]float64, len(src))
	for i, v := range src {
		dst[i] = fn(v)
	}
	return NewVec(dst...)
}

// hadamard returns a ⊙ b as a new vector.
func hadamard(a, b *tensor.Dense) (*tensor.Dense, error) {
	if a.Shape().TotalSize() != b.Shape().TotalSize() {
		return nil, errors.Errorf("hadamard: length %d and %d", a.Shape().TotalSize(), b.Shape().TotalSize())
	}
	retVal := clone(a)
	vecf64.Mul(floats(retVal), floats(b))
	return retVal, nil
}

// tmatVec computes Wᵀ·v without materialising the transpose.
func tmatVec(w, v *tensor.Dense) (*tensor.Dense, error) {
	r, c := rows(w), cols(w)
	if v.Shape().TotalSize() != r {
		return nil, errors.Errorf("transposed multiply: matrix has %d rows, vector has %d elements", r, v.Shape().TotalSize())
	}
	wd, vd := floats(w), floats(v)
	out := make([]float64, c)
	for i := 0; i < r; i++ {
		vi := vd[i]
		if vi == 0 {
			continue
		}
		vecf64.Add(out, scaled(wd[i*c:(i+1)*c], vi))
	}
	return NewVec(out...), nil
}

func scaled(a []float64, s float64) []float64 {
	retVal := make([]float64, len(a))
	copy(retVal, a)
	vecf64.Scale(retVal, s)
	return retVal
}

// accumulate adds every tensor in src to the corresponding tensor in dst, in place.
func accumulate(dst, src []*tensor.Dense) {
	for i := range dst {
		vecf64.Add(floats(dst[i]), floats(src[i]))
	}
}

func finite(t *tensor.Dense) bool {
	for _, v := range floats(t) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// linear is the error-carrying helper used to compute W·a+b.
type linear struct {
	err error
}

// colMat and rowMat view a vector as an n×1 or 1×n matrix sharing its backing. Going through
// MatMul rather than MatVecMul/Outer keeps length-1 vectors working, which the vector predicates of
// the tensor package reject.
func colMat(v *tensor.Dense) *tensor.Dense {
	return NewMat(v.Shape().TotalSize(), 1, floats(v))
}

func rowMat(v *tensor.Dense) *tensor.Dense {
	return NewMat(1, v.Shape().TotalSize(), floats(v))
}

func (l *linear) matVec(w, a *tensor.Dense) *tensor.Dense {
	if l.err != nil {
		return nil
	}
	var prod *tensor.Dense
	if prod, l.err = w.MatMul(colMat(a)); l.err != nil {
		l.err = errors.Wrapf(l.err, "W·a with W %v and a %v", w.Shape(), a.Shape())
		return nil
	}
	return NewVec(floats(prod)...)
}

func (l *linear) addVec(a, b *tensor.Dense) *tensor.Dense {
	if l.err != nil {
		return nil
	}
	if a.Shape().TotalSize() != b.Shape().TotalSize() {
		l.err = errors.Errorf("adding vectors of length %d and %d", a.Shape().TotalSize(), b.Shape().TotalSize())
		return nil
	}
	vecf64.Add(floats(a), floats(b))
	return a
}

func (l *linear) outer(a, b *tensor.Dense) (retVal *tensor.Dense) {
	if l.err != nil {
		return nil
	}
	if retVal, l.err = colMat(a).MatMul(rowMat(b)); l.err != nil {
		l.err = errors.Wrapf(l.err, "outer product of %v and %v", a.Shape(), b.Shape())
	}
	return
}

// affine computes W·a + b.
func affine(w, b, a *tensor.Dense) (*tensor.Dense, error) {
	var l linear
	z := l.addVec(l.matVec(w, a), b)
	return z, l.err
}
