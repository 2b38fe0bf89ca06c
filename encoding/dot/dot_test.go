package dot

import (
	"testing"

	"github.com/awalterschulze/gographviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mix "github.com/gorgonia/noisynet/mixnet"
	"github.com/gorgonia/noisynet/rng"
)

func TestNetwork(t *testing.T) {
	net, err := mix.Mix(mix.DefaultConf([]int{3, 4, 5, 2}, mix.ActNegOr, mix.ActAnd, mix.ActSoftmax), rng.New(1))
	require.NoError(t, err)

	s, err := Network(net)
	require.NoError(t, err)
	assert.Contains(t, s, "nor")
	assert.Contains(t, s, "5×8", "the layer after a nor has twice the inputs")
	assert.Contains(t, s, "mix.PositiveSGD")
	assert.Contains(t, s, "<TD>norm W</TD>")

	// the output parses back into a graph with a node per layer and the input
	ast, err := gographviz.ParseString(s)
	require.NoError(t, err)
	g := gographviz.NewGraph()
	require.NoError(t, gographviz.Analyse(ast, g))
	assert.Len(t, g.Nodes.Nodes, 4)
	assert.Len(t, g.Edges.Edges, 3)
}
