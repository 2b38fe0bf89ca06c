// Package dot renders the topology of a network as a Graphviz graph.
package dot

import (
	"bytes"
	"fmt"
	"math"
	"text/template"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"

	mix "github.com/gorgonia/noisynet/mixnet"
)

// layer is what a node of the graph shows.
type layer struct {
	ID         int
	Activation string
	Width      int
	Inputs     int
	Optimizer  string
	Norm       float64 // Frobenius norm of the incoming weights
}

// Network returns the DOT graph of net: one node for the input and one node per layer, each edge
// labelled with the shape of its weight matrix.
func Network(net *mix.Network) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		return "", errors.WithStack(err)
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.WithStack(err)
	}
	if err := g.AddAttr("G", "rankdir", "LR"); err != nil {
		return "", errors.WithStack(err)
	}
	if err := g.AddAttr("G", "label", fmt.Sprintf("%q", net.Name())); err != nil {
		return "", errors.WithStack(err)
	}

	input := map[string]string{
		"shape": "box",
		"label": fmt.Sprintf(`"input (%d)"`, net.InputWidth()),
	}
	if err := g.AddNode("G", "l0", input); err != nil {
		return "", errors.WithStack(err)
	}

	var buf bytes.Buffer
	for i, act := range net.Activations() {
		w := net.Weights()[i]
		l := layer{
			ID:         i + 1,
			Activation: act.String(),
			Width:      w.Shape()[0],
			Inputs:     w.Shape()[1],
			Optimizer:  fmt.Sprintf("%T", act.Opt()),
			Norm:       norm(w.Data().([]float64)),
		}
		if err := tmpl.Execute(&buf, l); err != nil {
			return "", errors.WithStack(err)
		}
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		}
		buf.Reset()
		if err := g.AddNode("G", nodeID(i+1), attrs); err != nil {
			return "", errors.WithStack(err)
		}
		edge := map[string]string{"label": fmt.Sprintf(`"%d×%d"`, l.Width, l.Inputs)}
		if err := g.AddEdge(nodeID(i), nodeID(i+1), true, edge); err != nil {
			return "", errors.WithStack(err)
		}
	}
	return g.String(), nil
}

func nodeID(i int) string { return fmt.Sprintf("l%d", i) }

func norm(ws []float64) float64 {
	var sum float64
	for _, w := range ws {
		sum += w * w
	}
	return math.Sqrt(sum)
}

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Layer</TD><TD>{{.ID}}</TD></TR>
<TR><TD>Activation</TD><TD>{{.Activation}}</TD></TR>
<TR><TD>Width</TD><TD>{{.Width}}</TD></TR>
<TR><TD>Inputs</TD><TD>{{.Inputs}}</TD></TR>
<TR><TD>Optimizer</TD><TD>{{.Optimizer}}</TD></TR>
<TR><TD>norm W</TD><TD>{{printf "%.3f" .Norm}}</TD></TR>
</TABLE>
>
`

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("layer").Parse(tmplRaw))
}
