package route

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/pkg/errors"

	"github.com/jjtimmons/vhelix/internal/embed"
	"github.com/jjtimmons/vhelix/internal/euler"
	"github.com/jjtimmons/vhelix/internal/graph"
	"github.com/jjtimmons/vhelix/internal/mesh"
)

type scaffoldFreeRouter struct{}

func (scaffoldFreeRouter) Variant() Variant { return ScaffoldFree }

func (scaffoldFreeRouter) BuildGraph(m *mesh.Mesh) *graph.Multigraph {
	return graph.Build(len(m.Vertices), m.Faces, m.Edges)
}

// CompleteEulerian has nothing to do: walking each edge once in both
// directions is always possible.
func (scaffoldFreeRouter) CompleteEulerian(g *graph.Multigraph) (*graph.Multigraph, *euler.Report, error) {
	return g, nil, nil
}

func (scaffoldFreeRouter) FindTrail(g *graph.Multigraph, vcode [][]int) (*Result, error) {
	if len(vcode) != g.Order() {
		return nil, errors.Wrapf(embed.ErrEmbeddingMismatch, "%d rows for %d vertices", len(vcode), g.Order())
	}
	for v, row := range vcode {
		if len(row) != len(g.Neighbors(v)) {
			return nil, errors.Wrapf(embed.ErrEmbeddingMismatch, "vertex %d", v)
		}
	}

	trails, err := faceTrails(vcode)
	if err != nil {
		return nil, err
	}
	return &Result{Found: true, Trails: trails}, nil
}

// faceTrails walks every directed edge of the rotation system vcode once.
// Each walk leaves a vertex by the edge following the one it arrived by, so
// it traces one face and ends where it started.
func faceTrails(vcode [][]int) ([][]int, error) {
	used := make([][]bool, len(vcode))
	start := -1
	for v, row := range vcode {
		used[v] = make([]bool, len(row))
		if start < 0 && len(row) > 0 {
			start = v
		}
	}
	if start < 0 {
		return nil, nil
	}

	hasUnused := func(v int) bool {
		for _, u := range used[v] {
			if !u {
				return true
			}
		}
		return false
	}

	pending := treeset.NewWithIntComparator(start)
	var trails [][]int
	for !pending.Empty() {
		it := pending.Iterator()
		it.First()
		v := it.Value().(int)

		slot := 0
		for used[v][slot] {
			slot++
		}
		trail := []int{v}
		cur := v
		for {
			used[cur][slot] = true
			next := vcode[cur][slot]
			pending.Add(next)
			trail = append(trail, next)

			back := indexOf(vcode[next], cur)
			if back < 0 {
				return nil, errors.Wrapf(embed.ErrEmbeddingMismatch, "%d is not a neighbour of %d", cur, next)
			}
			slot = (back + 1) % len(vcode[next])
			cur = next
			if used[cur][slot] {
				break
			}
		}
		trails = append(trails, trail)

		for _, x := range pending.Values() {
			if !hasUnused(x.(int)) {
				pending.Remove(x)
			}
		}
	}
	return trails, nil
}

func indexOf(s []int, x int) int {
	for i, y := range s {
		if y == x {
			return i
		}
	}
	return -1
}
