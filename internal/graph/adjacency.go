package graph

import (
	"math"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

// Adjacency holds plain neighbour lists indexed by vertex id. A neighbour is
// listed once per connecting edge. Adjacency satisfies gonum's
// graph.Undirected and graph.Weighted with unit edge weights, so the gonum
// path, topo and traverse packages run directly on it.
type Adjacency [][]int

var (
	_ gonum.Undirected = Adjacency(nil)
	_ gonum.Weighted   = Adjacency(nil)
)

func (a Adjacency) valid(id int64) bool {
	return id >= 0 && id < int64(len(a))
}

// Node implements graph.Graph.
func (a Adjacency) Node(id int64) gonum.Node {
	if !a.valid(id) {
		return nil
	}
	return simple.Node(id)
}

// Nodes implements graph.Graph.
func (a Adjacency) Nodes() gonum.Nodes {
	if len(a) == 0 {
		return gonum.Empty
	}
	nodes := make([]gonum.Node, len(a))
	for i := range a {
		nodes[i] = simple.Node(i)
	}
	return iterator.NewOrderedNodes(nodes)
}

// From returns the distinct neighbours of id in list order.
func (a Adjacency) From(id int64) gonum.Nodes {
	if !a.valid(id) || len(a[id]) == 0 {
		return gonum.Empty
	}
	seen := make(map[int]bool, len(a[id]))
	nodes := make([]gonum.Node, 0, len(a[id]))
	for _, w := range a[id] {
		if seen[w] {
			continue
		}
		seen[w] = true
		nodes = append(nodes, simple.Node(w))
	}
	return iterator.NewOrderedNodes(nodes)
}

// HasEdgeBetween implements graph.Graph.
func (a Adjacency) HasEdgeBetween(xid, yid int64) bool {
	if !a.valid(xid) || !a.valid(yid) {
		return false
	}
	for _, w := range a[xid] {
		if int64(w) == yid {
			return true
		}
	}
	return false
}

// Edge implements graph.Graph.
func (a Adjacency) Edge(uid, vid int64) gonum.Edge {
	if !a.HasEdgeBetween(uid, vid) {
		return nil
	}
	return simple.Edge{F: simple.Node(uid), T: simple.Node(vid)}
}

// EdgeBetween implements graph.Undirected.
func (a Adjacency) EdgeBetween(xid, yid int64) gonum.Edge {
	return a.Edge(xid, yid)
}

// WeightedEdge implements graph.Weighted.
func (a Adjacency) WeightedEdge(uid, vid int64) gonum.WeightedEdge {
	if !a.HasEdgeBetween(uid, vid) {
		return nil
	}
	return simple.WeightedEdge{F: simple.Node(uid), T: simple.Node(vid), W: 1}
}

// Weight implements graph.Weighted. Every edge weighs 1.
func (a Adjacency) Weight(xid, yid int64) (w float64, ok bool) {
	if xid == yid {
		return 0, true
	}
	if a.HasEdgeBetween(xid, yid) {
		return 1, true
	}
	return math.Inf(1), false
}

// Components returns the connected components, isolated vertices included.
func (a Adjacency) Components() [][]int {
	cc := topo.ConnectedComponents(a)
	comps := make([][]int, len(cc))
	for i, c := range cc {
		comps[i] = make([]int, len(c))
		for j, n := range c {
			comps[i][j] = int(n.ID())
		}
	}
	return comps
}

// ComponentCount is len(a.Components()).
func (a Adjacency) ComponentCount() int {
	return len(topo.ConnectedComponents(a))
}

// BreadthFirst returns the vertices reachable from start in breadth first
// order.
func (a Adjacency) BreadthFirst(start int) []int {
	var order []int
	bf := traverse.BreadthFirst{
		Visit: func(n gonum.Node) {
			order = append(order, int(n.ID()))
		},
	}
	bf.Walk(a, simple.Node(start), nil)
	return order
}

// Remove deletes one occurrence of w from v's list. It reports whether w was
// present.
func (a Adjacency) Remove(v, w int) bool {
	for i, x := range a[v] {
		if x == w {
			a[v] = append(a[v][:i], a[v][i+1:]...)
			return true
		}
	}
	return false
}

// Degree of v.
func (a Adjacency) Degree(v int) int {
	return len(a[v])
}
