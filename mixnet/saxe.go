package mix

import (
	"math"

	"github.com/gorgonia/noisynet/rng"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// saxeBaseline is the standard deviation of the weights of a Saxe network built without the
// SVD weights, which is the baseline the SVD start is compared against.
const saxeBaseline = 0.025

// SaxeInit builds a three layer network for studying learning dynamics. With useSaxe the weights
// are W32 = U·Da·Rᵀ and W21 = R·Db·Vᵀ, where U·S·Vᵀ is the SVD of the output-input covariance
// sigma31, R is a random orthogonal matrix and Da, Db are rectangular diagonals with small
// entries. The biases are zero and frozen.
//
// Alongside the network SaxeInit returns U, the rectangular diagonal of singular values S, and Vᵀ.
func SaxeInit(sizes []int, acts []string, hypers []Hyper, sigma31 mat.Matrix, useSaxe bool, src rng.Source) (net *Network, u, s, vt *mat.Dense, err error) {
	if len(sizes) != 3 {
		return nil, nil, nil, nil, errors.Wrapf(configErr("config", "a Saxe network has exactly three layers"), "got %d", len(sizes))
	}
	if len(acts) != 2 || len(hypers) != 2 {
		return nil, nil, nil, nil, errors.WithStack(configErr("config", "a Saxe network needs two activations and two hypers"))
	}
	in, hid, out := sizes[0], sizes[1], sizes[2]
	if r, c := sigma31.Dims(); r != out || c != in {
		return nil, nil, nil, nil, shapeErr("sigma31", 0, []int{out, in}, []int{r, c})
	}

	var svd mat.SVD
	if !svd.Factorize(sigma31, mat.SVDFull) {
		return nil, nil, nil, nil, errors.New("SVD of sigma31 failed")
	}
	u, vt = new(mat.Dense), new(mat.Dense)
	var v mat.Dense
	svd.UTo(u)
	svd.VTo(&v)
	vt.CloneFrom(v.T())
	values := svd.Values(nil)

	var w21, w32 mat.Dense
	if useSaxe {
		r := randomOrthogonal(hid, src)
		da := smallRectDiag(out, hid, src)
		db := smallRectDiag(hid, in, src)
		w32.Product(u, da, r.T())
		w21.Product(r, db, vt)
	} else {
		w32.CloneFrom(gaussianMat(out, hid, saxeBaseline, src))
		w21.CloneFrom(gaussianMat(hid, in, saxeBaseline, src))
	}

	s = smallRectDiag(out, in, src)
	for i := 0; i < out && i < len(values); i++ {
		s.Set(i, i, values[i])
	}

	conf := Config{Sizes: sizes, Acts: acts, Hypers: hypers, NoBiases: true}
	var as []Activation
	for i, id := range acts {
		act, err := NewActivation(id, sizes[i+1], conf.Optimizer(id, hypers[i]))
		if err != nil {
			return nil, nil, nil, nil, err
		}
		as = append(as, act)
	}
	weights := []*tensor.Dense{fromMat(&w21), fromMat(&w32)}
	biases := []*tensor.Dense{zeroVec(hid), zeroVec(out)}
	if net, err = New(weights, biases, as, WithName(conf.Name())); err != nil {
		return nil, nil, nil, nil, err
	}
	return net, u, s, vt, nil
}

// randomOrthogonal draws an n×n orthogonal matrix from the Haar distribution: the Q of a QR
// decomposition of a gaussian matrix, with the signs fixed by the diagonal of R.
func randomOrthogonal(n int, src rng.Source) *mat.Dense {
	var qr mat.QR
	qr.Factorize(gaussianMat(n, n, 1, src))
	var q, r mat.Dense
	qr.QTo(&q)
	qr.RTo(&r)
	for j := 0; j < n; j++ {
		if r.At(j, j) >= 0 {
			continue
		}
		for i := 0; i < n; i++ {
			q.Set(i, j, -q.At(i, j))
		}
	}
	return &q
}

// smallRectDiag returns an m×n matrix whose leading diagonal is uniform in [0, 0.05).
func smallRectDiag(m, n int, src rng.Source) *mat.Dense {
	retVal := mat.NewDense(m, n, nil)
	k := int(math.Min(float64(m), float64(n)))
	for i := 0; i < k; i++ {
		retVal.Set(i, i, 0.05*src.Float64())
	}
	return retVal
}

func gaussianMat(r, c int, σ float64, src rng.Source) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = σ * src.NormFloat64()
	}
	return mat.NewDense(r, c, data)
}

// fromMat copies a gonum matrix into a row-major tensor.
func fromMat(m *mat.Dense) *tensor.Dense {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, m.RawRowView(i)...)
	}
	return NewMat(r, c, data)
}
