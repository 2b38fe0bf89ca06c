package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorgonia/noisynet"
	"github.com/gorgonia/noisynet/dataset"
	"github.com/gorgonia/noisynet/encoding/hinton"
	"github.com/gorgonia/noisynet/grid"
	mix "github.com/gorgonia/noisynet/mixnet"
	"github.com/gorgonia/noisynet/rng"
)

var (
	data    = flag.String("data", "", "CSV of labelled samples, label first")
	classes = flag.Int("classes", 10, "number of classes")
	train   = flag.Int("train", 50000, "number of training samples; the rest after -valid are ignored")
	valid   = flag.Int("valid", 10000, "number of validation samples")
	scale   = flag.Float64("scale", 1.0/255, "input scale")

	mode    = flag.String("mode", "hypers", "hypers, twologics, vanilla, orand or optimal")
	sizes   = flag.String("sizes", "784,30,30,10", "layer sizes")
	acts    = flag.String("acts", "sig,or,sm", "activations")
	eta1    = flag.String("eta1", "0.1,0.3", "learning rates of the plain layers")
	eta2    = flag.String("eta2", "0.1,0.3", "learning rates of the probabilistic layers")
	ws1     = flag.String("ws1", "0.01,0.001", "weight scales of the (first) probabilistic layer")
	ws2     = flag.String("ws2", "0.01,0.001", "weight scales of the second probabilistic layer")
	drop    = flag.String("drop", "", "dropout scheme")
	dropN   = flag.Float64("dropn", 2, "dropout parameter")
	epochs  = flag.Int("epochs", noisynet.DefaultHyperparameters.Epochs, "epochs per run")
	batch   = flag.Int("batch", noisynet.DefaultHyperparameters.BatchSize, "mini-batch size")
	seed    = flag.Int64("seed", 1337, "random seed")
	outDir  = flag.String("out", ".", "directory of the result file")
	stats   = flag.String("stats", "", "dump per-epoch statistics to this CSV file")
	gifFile = flag.String("gif", "", "animate the first layer of the optimal network into this file")
	optimal = flag.String("optimal", "sig-or-sm", "network to train in optimal mode")
)

func floatList(s string) []float64 {
	var retVal []float64
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			log.Fatalf("Bad number %q in %q: %v", f, s, err)
		}
		retVal = append(retVal, v)
	}
	return retVal
}

func intList(s string) []int {
	var retVal []int
	for _, f := range floatList(s) {
		retVal = append(retVal, int(f))
	}
	return retVal
}

func load() (training, validation []mix.Example) {
	f, err := os.Open(*data)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	samples, err := dataset.ReadCSV(f, *classes)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	dataset.Normalize(samples, float32(*scale))
	tr, va, _, err := dataset.Split(samples, *train, *valid)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if training, err = dataset.Vectorize(tr, *classes); err != nil {
		log.Fatalf("%+v", err)
	}
	if validation, err = dataset.Vectorize(va, *classes); err != nil {
		log.Fatalf("%+v", err)
	}
	return training, validation
}

func main() {
	flag.Parse()
	if *data == "" {
		log.Fatal("-data is required")
	}
	training, validation := load()
	log.Printf("Loaded %d training and %d validation examples", len(training), len(validation))

	src := rng.New(*seed)
	runner := noisynet.NewRunner(src.Split(), noisynet.WithLogger(log.New(os.Stderr, "", log.Ltime)))
	hp := noisynet.Hyperparameters{Epochs: *epochs, BatchSize: *batch}

	if *mode == "optimal" {
		runOptimal(runner, src, hp, training, validation)
		return
	}

	s := &grid.Search{
		Sizes:           intList(*sizes),
		Acts:            strings.Split(*acts, ","),
		Drop:            mix.Drop{Scheme: *drop, N: *dropN},
		Runner:          runner,
		Training:        training,
		Validation:      validation,
		Hyperparameters: hp,
		Src:             src,
	}
	name := filepath.Join(*outDir, grid.FileName(s.Acts, s.Sizes))
	f, err := os.Create(name)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	s.Out = f

	switch *mode {
	case "hypers":
		err = s.Hypers(floatList(*eta1), floatList(*eta2), floatList(*ws1))
	case "twologics":
		err = s.TwoLogics(floatList(*eta1), floatList(*ws1), floatList(*ws2))
	case "vanilla":
		err = s.Vanilla(floatList(*eta1))
	case "orand":
		err = s.OrAnd(floatList(*eta1), floatList(*eta2))
	default:
		log.Fatalf("Unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatalf("%+v", err)
	}
	log.Printf("Results written to %v", name)
	dumpStats(runner)
}

func runOptimal(runner *noisynet.Runner, src *rng.Rand, hp noisynet.Hyperparameters, training, validation []mix.Example) {
	conf, ok := grid.Optimal(*optimal)
	if !ok {
		log.Fatalf("No optimal configuration for %q. Known: %v", *optimal, grid.OptimalNames())
	}
	conf.Drop = mix.Drop{Scheme: *drop, N: *dropN}
	net, err := mix.Mix(conf, src)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	var enc *hinton.Encoder
	if *gifFile != "" {
		f, err := os.Create(*gifFile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		enc = hinton.NewEncoder(f, 0, 2)
		runner = noisynet.NewRunner(src.Split(), noisynet.WithEncoder(enc), noisynet.WithLogger(log.New(os.Stderr, "", log.Ltime)))
	}
	valErr, err := runner.SGD(net, training, hp.Epochs, hp.BatchSize, validation)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	log.Printf("%v %v: %v", net.Name(), mix.Hypers(conf.Hypers), valErr)
	if enc != nil {
		if err := enc.Flush(); err != nil {
			log.Fatalf("%+v", err)
		}
	}
	dumpStats(runner)
}

func dumpStats(runner *noisynet.Runner) {
	if *stats == "" {
		return
	}
	if err := runner.Dump(*stats); err != nil {
		log.Fatalf("%+v", err)
	}
}
