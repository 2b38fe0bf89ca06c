package grid

import (
	"sort"

	mix "github.com/gorgonia/noisynet/mixnet"
)

func etas(eta float64, n int) []mix.Hyper {
	retVal := make([]mix.Hyper, n)
	for i := range retVal {
		retVal[i] = mix.Eta(eta)
	}
	return retVal
}

// optimal holds the best hyper-parameters found on MNIST for each network.
var optimal = map[string]mix.Config{
	"sig-or-sm": {
		Sizes:  []int{784, 30, 30, 10},
		Acts:   []string{"sig", "or", "sm"},
		Hypers: []mix.Hyper{mix.Eta(0.3), {Eta: 0.3, Scale: 0.01}, mix.Eta(0.3)},
	},
	"sig-and-sm": {
		Sizes:  []int{784, 30, 30, 10},
		Acts:   []string{"sig", "and", "sm"},
		Hypers: []mix.Hyper{mix.Eta(0.03), {Eta: 0.1, Scale: 0.01}, mix.Eta(0.03)},
	},
	"sig-sig-or-sm": {
		Sizes:  []int{784, 30, 30, 30, 10},
		Acts:   []string{"sig", "sig", "or", "sm"},
		Hypers: []mix.Hyper{mix.Eta(0.03), mix.Eta(0.03), {Eta: 0.03, Scale: 0.01}, mix.Eta(0.03)},
	},
	"sig-sig-and-sm": {
		Sizes:  []int{784, 30, 30, 30, 10},
		Acts:   []string{"sig", "sig", "and", "sm"},
		Hypers: []mix.Hyper{mix.Eta(0.1), mix.Eta(0.1), {Eta: 0.1, Scale: 0.001}, mix.Eta(0.1)},
	},
	"sig-or-and-sm": {
		Sizes:  []int{784, 30, 30, 30, 10},
		Acts:   []string{"sig", "or", "and", "sm"},
		Hypers: []mix.Hyper{mix.Eta(0.1), {Eta: 0.1, Scale: 0.01}, {Eta: 0.1, Scale: 0.001}, mix.Eta(0.1)},
	},
	"sig-and-or-sm": {
		Sizes:  []int{784, 30, 30, 30, 10},
		Acts:   []string{"sig", "and", "or", "sm"},
		Hypers: []mix.Hyper{mix.Eta(0.3), {Eta: 0.3, Scale: 0.001}, {Eta: 0.3, Scale: 0.001}, mix.Eta(0.3)},
	},
	"sig-sig-sig-sm": {
		Sizes:  []int{784, 30, 30, 30, 10},
		Acts:   []string{"sig", "sig", "sig", "sm"},
		Hypers: etas(0.1, 4),
	},
	"sig-sig-sm": {
		Sizes:  []int{784, 30, 30, 10},
		Acts:   []string{"sig", "sig", "sm"},
		Hypers: etas(0.03, 3),
	},
	"sig-sm": {
		Sizes:  []int{784, 30, 10},
		Acts:   []string{"sig", "sm"},
		Hypers: etas(0.1, 2),
	},
}

// Optimal returns the tuned configuration of the network called name, e.g. "sig-or-sm".
func Optimal(name string) (mix.Config, bool) {
	conf, ok := optimal[name]
	if !ok {
		return mix.Config{}, false
	}
	conf.Sizes = append([]int(nil), conf.Sizes...)
	conf.Acts = append([]string(nil), conf.Acts...)
	conf.Hypers = append([]mix.Hyper(nil), conf.Hypers...)
	return conf, true
}

// OptimalNames lists the networks Optimal knows, sorted.
func OptimalNames() []string {
	retVal := make([]string, 0, len(optimal))
	for name := range optimal {
		retVal = append(retVal, name)
	}
	sort.Strings(retVal)
	return retVal
}
