// Package graph is the undirected multigraph that routing works on. Edges live
// in an index arena so that every edge keeps a stable integer identity that the
// embedding (edge code) and the trails refer to.
package graph

import (
	"sort"

	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("vhelix.graph")
}

// Edge is an undirected edge of a Multigraph. U and V are vertex ids, Index is
// the edge's position in the arena.
type Edge struct {
	U, V  int
	Index int
}

// Other returns the endpoint of e that is not v.
func (e Edge) Other(v int) int {
	if e.U == v {
		return e.V
	}
	return e.U
}

// Multigraph is an undirected graph with parallel edges and no self loops.
type Multigraph struct {
	edges []Edge

	// per vertex, arena indices of incident edges in insertion order
	incident [][]int
}

// New returns an edgeless multigraph on n vertices.
func New(n int) *Multigraph {
	return &Multigraph{incident: make([][]int, n)}
}

// Order is the number of vertices.
func (g *Multigraph) Order() int {
	return len(g.incident)
}

// Size is the number of edges.
func (g *Multigraph) Size() int {
	return len(g.edges)
}

// AddEdge appends an edge between u and v and returns its index.
func (g *Multigraph) AddEdge(u, v int) int {
	e := Edge{U: u, V: v, Index: len(g.edges)}
	g.edges = append(g.edges, e)
	g.incident[u] = append(g.incident[u], e.Index)
	g.incident[v] = append(g.incident[v], e.Index)
	return e.Index
}

// RemoveEdgesBetween deletes every parallel edge between u and v and renumbers
// the remaining edges so that indices stay dense. It returns the number of
// removed edges.
func (g *Multigraph) RemoveEdgesBetween(u, v int) int {
	kept := g.edges[:0]
	removed := 0
	for _, e := range g.edges {
		if (e.U == u && e.V == v) || (e.U == v && e.V == u) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept
	if removed > 0 {
		g.Reindex()
	}
	return removed
}

// Reindex renumbers edges 0..M-1 in arena order and rebuilds the incidence
// lists.
func (g *Multigraph) Reindex() {
	for i := range g.incident {
		g.incident[i] = g.incident[i][:0]
	}
	for i := range g.edges {
		g.edges[i].Index = i
		e := g.edges[i]
		g.incident[e.U] = append(g.incident[e.U], i)
		g.incident[e.V] = append(g.incident[e.V], i)
	}
}

// Edge returns the edge with index i.
func (g *Multigraph) Edge(i int) Edge {
	return g.edges[i]
}

// Edges returns all edges in index order. The slice must not be modified.
func (g *Multigraph) Edges() []Edge {
	return g.edges
}

// Incident returns the indices of the edges touching v.
func (g *Multigraph) Incident(v int) []int {
	return g.incident[v]
}

// Degree of v, counting parallel edges.
func (g *Multigraph) Degree(v int) int {
	return len(g.incident[v])
}

// Neighbors returns the distinct neighbours of v, ascending.
func (g *Multigraph) Neighbors(v int) []int {
	seen := make(map[int]bool)
	var nbrs []int
	for _, ei := range g.incident[v] {
		w := g.edges[ei].Other(v)
		if !seen[w] {
			seen[w] = true
			nbrs = append(nbrs, w)
		}
	}
	sort.Ints(nbrs)
	return nbrs
}

// EdgesBetween returns the indices of all edges joining u and v, ascending.
func (g *Multigraph) EdgesBetween(u, v int) []int {
	var between []int
	for _, ei := range g.incident[u] {
		if g.edges[ei].Other(u) == v {
			between = append(between, ei)
		}
	}
	sort.Ints(between)
	return between
}

// Multiplicity is the number of parallel edges joining u and v.
func (g *Multigraph) Multiplicity(u, v int) int {
	return len(g.EdgesBetween(u, v))
}

// OddVertices returns the vertices of odd degree in id order.
func (g *Multigraph) OddVertices() []int {
	var odd []int
	for v := range g.incident {
		if g.Degree(v)%2 == 1 {
			odd = append(odd, v)
		}
	}
	return odd
}

// IsEven reports whether every vertex has even degree.
func (g *Multigraph) IsEven() bool {
	return len(g.OddVertices()) == 0
}

// HasEulerianTrail reports whether g has a closed walk using every edge once:
// all degrees even and at most one component with more than one vertex.
func (g *Multigraph) HasEulerianTrail() bool {
	if !g.IsEven() {
		return false
	}
	nonTrivial := 0
	for _, c := range g.Adjacency().Components() {
		if len(c) > 1 {
			nonTrivial++
		}
	}
	tracer().Debugf("graph has %d non-trivial components", nonTrivial)
	return nonTrivial <= 1
}

// Clone returns a deep copy of g.
func (g *Multigraph) Clone() *Multigraph {
	c := &Multigraph{
		edges:    append([]Edge(nil), g.edges...),
		incident: make([][]int, len(g.incident)),
	}
	for v, inc := range g.incident {
		c.incident[v] = append([]int(nil), inc...)
	}
	return c
}

// Adjacency returns the neighbour lists of g, one entry per edge so parallel
// edges appear repeatedly.
func (g *Multigraph) Adjacency() Adjacency {
	adj := make(Adjacency, g.Order())
	for v, inc := range g.incident {
		adj[v] = make([]int, 0, len(inc))
		for _, ei := range inc {
			adj[v] = append(adj[v], g.edges[ei].Other(v))
		}
	}
	return adj
}

// Build creates the mesh graph. Face boundary edges come first and are added
// once no matter how many faces share them, followed by nonFace edges as given.
func Build(n int, faces [][]int, nonFace [][2]int) *Multigraph {
	g := New(n)
	// 1-based packing of the unordered pair (min, max)
	seen := make([]bool, (n+1)*(n+1))
	add := func(a, b int) {
		s, t := a+1, b+1
		lo, hi := s, t
		if lo > hi {
			lo, hi = hi, lo
		}
		key := lo + (hi-1)*(hi-2)/2
		if seen[key] {
			return
		}
		seen[key] = true
		g.AddEdge(a, b)
	}

	for _, f := range faces {
		if len(f) < 2 {
			continue
		}
		add(f[0], f[1])
		for j := 2; j < len(f); j++ {
			add(f[j-1], f[j])
		}
		add(f[len(f)-1], f[0])
	}
	for _, e := range nonFace {
		g.AddEdge(e[0], e[1])
	}

	tracer().Infof("built graph with %d vertices and %d edges", g.Order(), g.Size())
	return g
}
