package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quadtree "github.com/robert-butts/holyquadtree"
)

func diagonalTree(n int) *quadtree.Quadtree[int] {
	qt := quadtree.New(quadtree.NewRect(0, 0, 1000, 1000))
	for i := 0; i < n; i++ {
		qt.Insert(quadtree.NewItem(quadtree.NewRect(i, i, 10, 10), i))
	}
	return qt
}

func TestCollector(t *testing.T) {
	qt := diagonalTree(600)
	c := NewCollector("quadbench", nil, qt.Stats)

	want := `
# HELP quadbench_quadtree_items Number of items stored in the tree
# TYPE quadbench_quadtree_items gauge
quadbench_quadtree_items 600
# HELP quadbench_quadtree_leaves Number of nodes without children
# TYPE quadbench_quadtree_leaves gauge
quadbench_quadtree_leaves 34
# HELP quadbench_quadtree_max_depth Depth of the deepest node in the tree
# TYPE quadbench_quadtree_max_depth gauge
quadbench_quadtree_max_depth 4
# HELP quadbench_quadtree_nodes Number of nodes in the tree
# TYPE quadbench_quadtree_nodes gauge
quadbench_quadtree_nodes 45
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(want)))
}

func TestCollectorSamplesOnEachCollect(t *testing.T) {
	qt := diagonalTree(600)
	c := NewCollector("", prometheus.Labels{"tree": "diagonal"}, qt.Stats)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))
	assert.Equal(t, 4, testutil.CollectAndCount(c))

	qt.Clear()
	want := `
# HELP quadtree_nodes Number of nodes in the tree
# TYPE quadtree_nodes gauge
quadtree_nodes{tree="diagonal"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "quadtree_nodes"))
}
