package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gorgonia/noisynet"
	"github.com/gorgonia/noisynet/encoding/dot"
	"github.com/gorgonia/noisynet/encoding/hinton"
	mix "github.com/gorgonia/noisynet/mixnet"
	"github.com/gorgonia/noisynet/rng"
)

var (
	epochs  = flag.Int("epochs", 300, "epochs")
	seed    = flag.Int64("seed", 1337, "random seed")
	gifFile = flag.String("gif", "", "animate the and layer into this file")
	dotFile = flag.String("dot", "", "write the graph of the network into this file")
)

// target is (a ∧ b) ∨ (c ∧ d)
func target(bits [4]float64) float64 {
	if (bits[0] == 1 && bits[1] == 1) || (bits[2] == 1 && bits[3] == 1) {
		return 1
	}
	return 0
}

func truthTable() []mix.Example {
	var retVal []mix.Example
	for i := 0; i < 16; i++ {
		var bits [4]float64
		for j := range bits {
			bits[j] = float64((i >> uint(j)) & 1)
		}
		retVal = append(retVal, mix.Example{
			X: mix.NewVec(bits[:]...),
			Y: mix.NewVec(target(bits)),
		})
	}
	return retVal
}

func main() {
	flag.Parse()
	src := rng.New(*seed)

	conf := mix.Config{
		Sizes:  []int{4, 4, 1},
		Acts:   []string{mix.ActAnd, mix.ActOr},
		Hypers: []mix.Hyper{{Eta: 0.5, Scale: 1}, {Eta: 0.5, Scale: 1}},
	}
	net, err := mix.Mix(conf, src)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	opts := []noisynet.RunnerOpt{noisynet.WithMetric(noisynet.MeanCost)}
	var enc *hinton.Encoder
	if *gifFile != "" {
		f, err := os.Create(*gifFile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		enc = hinton.NewEncoder(f, 0, 20)
		enc.Delay = 5
		opts = append(opts, noisynet.WithEncoder(enc))
	}

	data := truthTable()
	runner := noisynet.NewRunner(src.Split(), opts...)
	costs, err := runner.SGD(net, data, *epochs, 4, data)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	log.Printf("Mean cost went from %.4f to %.4f", costs[0], costs[len(costs)-1])

	for _, ex := range data {
		out, err := net.Feedforward(ex.X)
		if err != nil {
			log.Fatalf("%+v", err)
		}
		fmt.Printf("%v → %.3f (want %v)\n", ex.X.Data(), out.Data().([]float64)[0], ex.Y.Data().([]float64)[0])
	}

	if enc != nil {
		if err := enc.Flush(); err != nil {
			log.Fatalf("%+v", err)
		}
	}
	if *dotFile != "" {
		s, err := dot.Network(net)
		if err != nil {
			log.Fatalf("%+v", err)
		}
		if err := os.WriteFile(*dotFile, []byte(s), 0644); err != nil {
			log.Fatal(err)
		}
	}
}
