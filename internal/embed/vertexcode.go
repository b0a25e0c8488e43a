// Package embed derives the combinatorial embedding (rotation system) of a
// mesh graph. The vertex code lists each vertex's neighbours in cyclic order;
// the edge code lists each vertex's incident edge indices in the same order,
// extended to the parallel edges of an Eulerian multigraph.
package embed

import (
	"math"
	"sort"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jjtimmons/vhelix/internal/mesh"
)

func tracer() tracing.Trace {
	return tracing.Select("vhelix.embed")
}

// fanPair is a face corner seen from its middle vertex.
type fanPair struct {
	back, forw int
}

// VertexCode returns, for every vertex of m, its neighbours in cyclic order.
// Vertices on an explicit non-face edge are ordered by ZigZag, the rest by
// stitching the corners of the faces around them.
func VertexCode(m *mesh.Mesh) [][]int {
	n := len(m.Vertices)
	fans := make([][]fanPair, n)
	for _, f := range m.Faces {
		k := len(f)
		for j := 0; j < k; j++ {
			fans[f[j]] = append(fans[f[j]], fanPair{
				back: f[(j+k-1)%k],
				forw: f[(j+1)%k],
			})
		}
	}

	extra := make([]map[int]bool, n)
	for _, e := range m.Edges {
		for side := 0; side < 2; side++ {
			v, w := e[side], e[1-side]
			if extra[v] == nil {
				extra[v] = make(map[int]bool)
			}
			extra[v][w] = true
		}
	}

	code := make([][]int, n)
	for v := 0; v < n; v++ {
		if extra[v] == nil {
			code[v] = stitchFan(fans[v])
			continue
		}
		nbrs := make(map[int]bool, len(extra[v]))
		for w := range extra[v] {
			nbrs[w] = true
		}
		for _, p := range fans[v] {
			nbrs[p.back] = true
			nbrs[p.forw] = true
		}
		sorted := make([]int, 0, len(nbrs))
		for w := range nbrs {
			sorted = append(sorted, w)
		}
		sort.Ints(sorted)
		code[v] = ZigZag(m.Vertices[v], sorted, m.Vertices)
		tracer().Debugf("zig-zag order at %d: %v", v, code[v])
	}
	return code
}

// stitchFan chains the (back, forw) corner pairs around a vertex into one
// cyclic neighbour sequence. Walking forward stops when the fan closes or
// breaks; an open fan (boundary vertex) is then extended backwards.
func stitchFan(pairs []fanPair) []int {
	if len(pairs) == 0 {
		return nil
	}
	unique := make(map[int]bool)
	for _, p := range pairs {
		unique[p.back] = true
		unique[p.forw] = true
	}

	seq := []int{pairs[0].back, pairs[0].forw}
	for len(seq) <= len(pairs) {
		k := findPair(pairs, func(p fanPair) bool { return p.back == seq[len(seq)-1] })
		if k < 0 || pairs[k].forw == seq[0] {
			break
		}
		seq = append(seq, pairs[k].forw)
	}
	for len(seq) < len(unique) {
		k := findPair(pairs, func(p fanPair) bool { return p.forw == seq[0] })
		if k < 0 {
			break
		}
		seq = append([]int{pairs[k].back}, seq...)
	}
	return seq
}

func findPair(pairs []fanPair, match func(fanPair) bool) int {
	for k, p := range pairs {
		if match(p) {
			return k
		}
	}
	return -1
}

type polar struct {
	vertex int
	theta  float64
}

// ZigZag orders the neighbours of a vertex at pos by combing: neighbours are
// grouped by the azimuth of the direction pos-neighbour, groups are visited in
// ascending azimuth, and inside each group neighbours are sorted by polar
// angle, alternating ascending and descending from one group to the next.
func ZigZag(pos r3.Vec, nbrs []int, positions []r3.Vec) []int {
	groups := treemap.NewWith(utils.Float64Comparator)
	for _, w := range nbrs {
		dir := r3.Unit(r3.Sub(pos, positions[w]))
		phi := math.Atan2(dir.X, dir.Y)
		theta := math.Acos(clamp(dir.Z))
		var group []polar
		if g, ok := groups.Get(phi); ok {
			group = g.([]polar)
		}
		groups.Put(phi, append(group, polar{vertex: w, theta: theta}))
	}

	order := make([]int, 0, len(nbrs))
	desc := false
	for _, g := range groups.Values() {
		group := g.([]polar)
		sort.SliceStable(group, func(i, j int) bool {
			if desc {
				return group[i].theta > group[j].theta
			}
			return group[i].theta < group[j].theta
		})
		for _, p := range group {
			order = append(order, p.vertex)
		}
		desc = !desc
	}
	return order
}

func clamp(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
