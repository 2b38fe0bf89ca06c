package noisynet

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Statistics collects the per-epoch validation errors of every network a Runner trained, in the
// order the networks were first seen.
type Statistics struct {
	Creation []string
	Errors   map[string][]float64
}

func makeStatistics() Statistics {
	return Statistics{
		Creation: make([]string, 0, 64),
		Errors:   make(map[string][]float64),
	}
}

func (s *Statistics) update(name string, e float64) {
	if _, ok := s.Errors[name]; !ok {
		s.Creation = append(s.Creation, name)
	}
	s.Errors[name] = append(s.Errors[name], e)
}

// Dump writes the statistics as CSV: a header of network names, then one row per epoch.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(s.Creation); err != nil {
		return err
	}
	var records [][]string
	for i, name := range s.Creation {
		for j, e := range s.Errors[name] {
			for len(records) <= j {
				records = append(records, make([]string, len(s.Creation)))
			}
			records[j][i] = strconv.FormatFloat(e, 'f', 4, 64)
		}
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
