// Package euler makes a multigraph Eulerian by pairing its odd vertices with a
// minimum weight perfect matching and doubling edges along shortest paths
// between the pairs (a minimum T-join).
package euler

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/jjtimmons/vhelix/internal/graph"
)

func tracer() tracing.Trace {
	return tracing.Select("vhelix.euler")
}

var (
	// ErrOddDegree means a vertex still had odd degree after completion.
	ErrOddDegree = errors.New("vertex of odd degree after Eulerian completion")

	// ErrUnreachable means two odd vertices lie in different components.
	ErrUnreachable = errors.New("odd vertices are not connected")
)

// Report summarises a completion.
type Report struct {
	// Odd are the odd-degree vertices of the input, ascending
	Odd []int

	// Pairs are the matched odd vertices in the order their paths were added
	Pairs [][2]int

	// Added counts edges inserted along matched paths
	Added int

	// Removed counts edges deleted by the cancel rule
	Removed int
}

// Complete makes every vertex of g even by duplicating edges along shortest
// paths between matched odd vertices. g is modified in place and its edges
// are renumbered 0..M-1 afterwards. Paths are computed on g as it was before
// completion.
func Complete(g *graph.Multigraph) (*Report, error) {
	r := &Report{Odd: g.OddVertices()}
	if len(r.Odd) == 0 {
		tracer().Infof("no odd vertices")
		return r, nil
	}
	tracer().Infof("%d odd vertices", len(r.Odd))

	orig := g.Adjacency()
	dist := path.DijkstraAllPaths(orig)

	var aux []WeightedEdge
	for i := 0; i < len(r.Odd); i++ {
		for j := i + 1; j < len(r.Odd); j++ {
			d := dist.Weight(int64(r.Odd[i]), int64(r.Odd[j]))
			if d > float64(g.Size()) {
				return nil, errors.Wrapf(ErrUnreachable, "%d and %d", r.Odd[i], r.Odd[j])
			}
			aux = append(aux, WeightedEdge{I: i, J: j, Weight: int64(d)})
		}
	}

	mate := MinWeightPerfectMatching(len(r.Odd), aux)
	paired := make([]bool, len(r.Odd))
	for i, j := range mate {
		if paired[i] {
			continue
		}
		if j < 0 {
			return nil, errors.Wrapf(ErrUnreachable, "vertex %d has no partner", r.Odd[i])
		}
		r.Pairs = append(r.Pairs, [2]int{r.Odd[i], r.Odd[j]})
		paired[i], paired[j] = true, true
	}

	// parallel edge counter per unordered pair, seeded with the input
	count := make(map[[2]int]int)
	for _, e := range g.Edges() {
		count[pairKey(e.U, e.V)]++
	}

	for _, pr := range r.Pairs {
		shortest := path.DijkstraFrom(simple.Node(pr[0]), orig)
		nodes, _ := shortest.To(int64(pr[1]))
		if len(nodes) == 0 {
			return nil, errors.Wrapf(ErrUnreachable, "%d and %d", pr[0], pr[1])
		}
		walkBack(nodes, func(cur, prev int) {
			key := pairKey(cur, prev)
			if count[key] == 2 {
				r.Removed += g.RemoveEdgesBetween(cur, prev)
				count[key] = 0
			}
			g.AddEdge(cur, prev)
			count[key]++
			r.Added++
		})
	}
	g.Reindex()

	if odd := g.OddVertices(); len(odd) > 0 {
		return nil, errors.Wrapf(ErrOddDegree, "vertices %v", odd)
	}
	tracer().Infof("added %d edges and removed %d", r.Added, r.Removed)
	return r, nil
}

// walkBack calls fn for every step of the path from its end towards its start.
func walkBack(nodes []gonum.Node, fn func(cur, prev int)) {
	for i := len(nodes) - 1; i > 0; i-- {
		fn(int(nodes[i].ID()), int(nodes[i-1].ID()))
	}
}

func pairKey(u, v int) [2]int {
	if u > v {
		u, v = v, u
	}
	return [2]int{u, v}
}
