package mix

import (
	"bytes"
	"fmt"
	"strings"

	"gorgonia.org/vecf64"
)

type manyErr []error

func (err manyErr) Error() string {
	var buf bytes.Buffer
	for _, e := range err {
		fmt.Fprintln(&buf, e.Error())
	}
	return buf.String()
}

// argmax returns the index of the largest element of xs.
func argmax(xs []float64) int { return vecf64.Argmax(xs) }

// joinName creates the display name of a network from its activation identifiers.
func joinName(acts []string) string { return strings.Join(acts, "-") }
