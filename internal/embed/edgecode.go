package embed

import (
	"github.com/pkg/errors"

	"github.com/jjtimmons/vhelix/internal/graph"
)

// ErrEmbeddingMismatch means the vertex code does not describe the graph.
var ErrEmbeddingMismatch = errors.New("embedding does not match graph")

type slot struct {
	vertex int
	edge   int
}

// EdgeCode maps a vertex code onto the edges of g, which may contain parallel
// copies of the edges the vertex code was built from. The first copy of an
// edge takes the neighbour's slot; every further copy is inserted next to it,
// on the side given by the relative order of its endpoints, so that parallel
// copies stay consecutive and mirrored at both ends.
func EdgeCode(vcode [][]int, g *graph.Multigraph) ([][]int, error) {
	if len(vcode) != g.Order() {
		return nil, errors.Wrapf(ErrEmbeddingMismatch, "%d vertex orders for %d vertices", len(vcode), g.Order())
	}
	slots := make([][]slot, len(vcode))
	for v, nbrs := range vcode {
		slots[v] = make([]slot, len(nbrs))
		for i, w := range nbrs {
			slots[v][i] = slot{vertex: w, edge: -1}
		}
	}

	for _, e := range g.Edges() {
		s, t := e.U, e.V
		i := findSlot(slots[s], t)
		j := findSlot(slots[t], s)
		if i < 0 || j < 0 {
			return nil, errors.Wrapf(ErrEmbeddingMismatch, "edge %d (%d,%d) missing from vertex code", e.Index, s, t)
		}
		if slots[s][i].edge == -1 {
			slots[s][i].edge = e.Index
			slots[t][j].edge = e.Index
			continue
		}

		if s < t {
			at := i
			if i == 0 {
				at = len(slots[s])
			}
			slots[s] = insertSlot(slots[s], at, slot{vertex: t, edge: e.Index})
			at = j + 1
			if j == len(slots[t]) {
				at = 0
			}
			slots[t] = insertSlot(slots[t], at, slot{vertex: s, edge: e.Index})
		} else {
			at := i + 1
			if i == len(slots[s]) {
				at = 0
			}
			slots[s] = insertSlot(slots[s], at, slot{vertex: t, edge: e.Index})
			at = j
			if j == 0 {
				at = len(slots[t])
			}
			slots[t] = insertSlot(slots[t], at, slot{vertex: s, edge: e.Index})
		}
	}

	ecode := make([][]int, len(slots))
	for v, row := range slots {
		if len(row) != g.Degree(v) {
			return nil, errors.Wrapf(ErrEmbeddingMismatch, "vertex %d has %d slots and degree %d", v, len(row), g.Degree(v))
		}
		ecode[v] = make([]int, len(row))
		for i, sl := range row {
			if sl.edge < 0 {
				return nil, errors.Wrapf(ErrEmbeddingMismatch, "vertex %d slot %d has no edge", v, i)
			}
			ecode[v][i] = sl.edge
		}
	}
	tracer().Debugf("edge code built for %d vertices", len(ecode))
	return ecode, nil
}

func findSlot(row []slot, w int) int {
	for i, sl := range row {
		if sl.vertex == w {
			return i
		}
	}
	return -1
}

func insertSlot(row []slot, at int, sl slot) []slot {
	row = append(row, slot{})
	copy(row[at+1:], row[at:])
	row[at] = sl
	return row
}

// NeighbourOrder converts an edge code back to neighbour order on g.
func NeighbourOrder(ecode [][]int, g *graph.Multigraph) [][]int {
	p := make([][]int, len(ecode))
	for v, row := range ecode {
		p[v] = make([]int, len(row))
		for i, ei := range row {
			p[v][i] = g.Edge(ei).Other(v)
		}
	}
	return p
}
