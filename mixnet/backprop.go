package mix

import (
	"sync"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/vecf64"
)

// Gradients is what a mini-batch leaves behind: the gradients of every weight matrix and bias
// vector summed over the batch, and for every example the deltas of every layer in forward order.
//
// All of them point downhill on the cost. The output delta is (y-o)⊙prime(o), the negation of
// CostDerivative(o, y)⊙prime(o), so an Optimizer adds them to the parameters.
type Gradients struct {
	Weights []*tensor.Dense
	Biases  []*tensor.Dense
	Deltas  [][]*tensor.Dense
}

// UpdateMiniBatch performs one update of the network from batch.
//
// A new dropout mask is drawn, the gradients are accumulated over the batch against the dropped
// weights, the weight gradients are filtered through the same mask, and then every layer's
// Optimizer produces its new weights and biases. The network is only modified when every layer
// updated cleanly. An update that yields a NaN or an Inf fails with a *NumericInstability.
func (n *Network) UpdateMiniBatch(batch []Example) (*Gradients, error) {
	if len(batch) == 0 {
		return nil, errors.New("empty mini-batch")
	}
	n.drop.NewBatch()
	g, err := n.Grads(batch)
	if err != nil {
		return nil, err
	}
	g.Weights = n.drop.DropGrads(g.Weights)

	m := len(batch)
	weights := make([]*tensor.Dense, len(n.weights))
	biases := make([]*tensor.Dense, len(n.biases))
	for i, act := range n.acts {
		opt := act.Opt()
		if opt == nil {
			return nil, configErr("config", "layer without an optimizer cannot be trained")
		}
		if weights[i], err = opt.UpdateWeights(n.weights[i], g.Weights[i], m); err != nil {
			return nil, errors.Wrapf(err, "updating weights of layer %d (%v)", i, act)
		}
		if biases[i], err = opt.UpdateBiases(n.biases[i], g.Biases[i], m); err != nil {
			return nil, errors.Wrapf(err, "updating biases of layer %d (%v)", i, act)
		}
		if !finite(weights[i]) {
			return nil, errors.WithStack(&NumericInstability{Layer: i, What: "weights"})
		}
		if !finite(biases[i]) {
			return nil, errors.WithStack(&NumericInstability{Layer: i, What: "biases"})
		}
	}
	n.weights, n.biases = weights, biases
	return g, nil
}

type exampleGrads struct {
	dw, db, deltas []*tensor.Dense
	err            error
}

// Grads accumulates the gradients of batch without updating the network. The forward passes
// use the weights as filtered by the current dropout mask.
func (n *Network) Grads(batch []Example) (*Gradients, error) {
	ws := n.drop.DropWeights(n.weights)
	res := make([]exampleGrads, len(batch))
	do := func(i int) {
		r := &res[i]
		r.dw, r.db, r.deltas, r.err = n.backprop(batch[i].X, batch[i].Y, ws)
	}

	if n.workers > 1 && len(batch) > 1 {
		var wg sync.WaitGroup
		jobs := make(chan int)
		for w := 0; w < n.workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					do(i)
				}
			}()
		}
		for i := range batch {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	} else {
		for i := range batch {
			do(i)
		}
	}

	var errs manyErr
	for i, r := range res {
		if r.err != nil {
			errs = append(errs, errors.Wrapf(r.err, "example %d", i))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	g := &Gradients{
		Weights: make([]*tensor.Dense, len(n.weights)),
		Biases:  make([]*tensor.Dense, len(n.biases)),
		Deltas:  make([][]*tensor.Dense, 0, len(batch)),
	}
	for i := range n.weights {
		g.Weights[i] = zerosLike(n.weights[i])
		g.Biases[i] = zerosLike(n.biases[i])
	}
	// summed in example order, whatever the order the workers finished in
	for _, r := range res {
		accumulate(g.Weights, r.dw)
		accumulate(g.Biases, r.db)
		g.Deltas = append(g.Deltas, r.deltas)
	}
	return g, nil
}

// Backprop returns the gradients and the deltas of a single example, against the weights as
// filtered by the current dropout mask.
func (n *Network) Backprop(x, y *tensor.Dense) (dw, db, deltas []*tensor.Dense, err error) {
	return n.backprop(x, y, n.drop.DropWeights(n.weights))
}

func (n *Network) backprop(x, y *tensor.Dense, ws []*tensor.Dense) (dw, db, deltas []*tensor.Dense, err error) {
	if x.Shape().TotalSize() != n.InputWidth() {
		return nil, nil, nil, shapeErr("input", 0, n.InputWidth(), x.Shape().TotalSize())
	}
	layers := len(ws)
	dw = make([]*tensor.Dense, layers)
	db = make([]*tensor.Dense, layers)
	deltas = make([]*tensor.Dense, layers)

	// as[i] is the input of layer i; as[layers] is the output of the network.
	as := make([]*tensor.Dense, 0, layers+1)
	as = append(as, x)
	a := x
	for i, act := range n.acts {
		var z *tensor.Dense
		if z, err = act.WeightedSum(ws[i], n.biases[i], a); err != nil {
			return nil, nil, nil, errors.Wrapf(err, "forward through layer %d (%v)", i, act)
		}
		a = act.Apply(z)
		as = append(as, a)
	}

	last := layers - 1
	act := n.acts[last]
	if y.Shape().TotalSize() != a.Shape().TotalSize() {
		return nil, nil, nil, shapeErr("target", last, a.Shape().TotalSize(), y.Shape().TotalSize())
	}
	// the negated cost derivative: deltas point uphill on -C
	ascent := n.CostDerivative(a, y)
	vecf64.Scale(floats(ascent), -1)
	var delta *tensor.Dense
	if delta, err = hadamard(ascent, act.Prime(a)); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "output delta")
	}
	delta = fold(act, delta)
	deltas[last] = delta
	if dw[last], db[last], err = act.WeightGrad(delta, as[last]); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "gradient of layer %d (%v)", last, act)
	}

	for l := last - 1; l >= 0; l-- {
		act = n.acts[l]
		ap := act.Prime(as[l+1])
		var back *tensor.Dense
		if back, err = tmatVec(ws[l+1], delta); err != nil {
			return nil, nil, nil, errors.Wrapf(err, "back-propagating into layer %d", l)
		}
		if delta, err = hadamard(back, ap); err != nil {
			return nil, nil, nil, errors.Wrapf(err, "delta of layer %d (%v)", l, act)
		}
		delta = fold(act, delta)
		deltas[l] = delta
		if dw[l], db[l], err = act.WeightGrad(delta, as[l]); err != nil {
			return nil, nil, nil, errors.Wrapf(err, "gradient of layer %d (%v)", l, act)
		}
	}
	return dw, db, deltas, nil
}
