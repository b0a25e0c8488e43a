package euler

import (
	"math/rand"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjtimmons/vhelix/internal/graph"
)

var cubeFaces = [][]int{
	{0, 1, 2, 3},
	{4, 7, 6, 5},
	{0, 4, 5, 1},
	{1, 5, 6, 2},
	{2, 6, 7, 3},
	{3, 7, 4, 0},
}

func TestComplete_cube(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	g := graph.Build(8, cubeFaces, nil)
	r, err := Complete(g)
	require.NoError(t, err)

	assert.Len(t, r.Odd, 8)
	assert.Len(t, r.Pairs, 4)
	assert.Equal(t, 4, r.Added)
	assert.Equal(t, 0, r.Removed)
	assert.Equal(t, 16, g.Size())
	for v := 0; v < 8; v++ {
		assert.Equal(t, 4, g.Degree(v), "degree of %d", v)
	}
	for i, e := range g.Edges() {
		assert.Equal(t, i, e.Index)
	}
}

func TestComplete_alreadyEven(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	g := graph.Build(6, [][]int{{0, 1, 2, 3, 4, 5}}, nil)
	r, err := Complete(g)
	require.NoError(t, err)
	assert.Empty(t, r.Odd)
	assert.Equal(t, 0, r.Added)
	assert.Equal(t, 6, g.Size())
}

func TestComplete_edgeConservation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	// a path 0-1-2-3 with a pendant triangle: odd ends get joined through
	// the middle, exercising repeated duplication of the same edge
	g := graph.New(6)
	for _, e := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {1, 4}, {2, 5}} {
		g.AddEdge(e[0], e[1])
	}
	before := g.Size()
	r, err := Complete(g)
	require.NoError(t, err)

	assert.True(t, g.IsEven())
	assert.Equal(t, before+r.Added-r.Removed, g.Size())
}

func TestComplete_disconnectedOdd(t *testing.T) {
	g := graph.New(4)
	g.AddEdge(0, 1)
	g.AddEdge(2, 3)
	_, err := Complete(g)
	assert.Error(t, err)
}

// bruteForce returns the minimum weight of a perfect matching on a complete
// graph with weights w.
func bruteForce(w [][]int64, free []int) int64 {
	if len(free) == 0 {
		return 0
	}
	best := int64(-1)
	first := free[0]
	for i := 1; i < len(free); i++ {
		rest := make([]int, 0, len(free)-2)
		rest = append(rest, free[1:i]...)
		rest = append(rest, free[i+1:]...)
		c := w[first][free[i]] + bruteForce(w, rest)
		if best < 0 || c < best {
			best = c
		}
	}
	return best
}

func TestMinWeightPerfectMatching(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 40; round++ {
		n := 2 * (1 + rng.Intn(5))
		w := make([][]int64, n)
		for i := range w {
			w[i] = make([]int64, n)
		}
		var edges []WeightedEdge
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				x := int64(1 + rng.Intn(9))
				w[i][j], w[j][i] = x, x
				edges = append(edges, WeightedEdge{I: i, J: j, Weight: x})
			}
		}

		mate := MinWeightPerfectMatching(n, edges)
		var total int64
		for i, j := range mate {
			require.GreaterOrEqual(t, j, 0, "round %d: vertex %d unmatched", round, i)
			require.Equal(t, i, mate[j], "round %d: matching not symmetric", round)
			if i < j {
				total += w[i][j]
			}
		}

		free := make([]int, n)
		for i := range free {
			free[i] = i
		}
		assert.Equal(t, bruteForce(w, free), total, "round %d, n=%d", round, n)
	}
}

func TestMaxWeightMatching(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges []WeightedEdge
		card  bool
		want  []int
	}{
		{
			"single edge",
			2,
			[]WeightedEdge{{0, 1, 1}},
			false,
			[]int{1, 0},
		},
		{
			"heavier middle edge",
			4,
			[]WeightedEdge{{0, 1, 5}, {1, 2, 11}, {2, 3, 5}},
			false,
			[]int{-1, 2, 1, -1},
		},
		{
			"max cardinality prefers two edges",
			4,
			[]WeightedEdge{{0, 1, 5}, {1, 2, 11}, {2, 3, 5}},
			true,
			[]int{1, 0, 3, 2},
		},
		{
			// S-blossom with augmentation through it
			"blossom",
			4,
			[]WeightedEdge{{0, 1, 8}, {0, 2, 9}, {1, 2, 10}, {2, 3, 7}},
			false,
			[]int{1, 0, 3, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxWeightMatching(tt.n, tt.edges, tt.card)
			assert.Equal(t, tt.want, got)
		})
	}
}
