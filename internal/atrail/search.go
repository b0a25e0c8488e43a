// Package atrail searches an Eulerian multigraph with a fixed embedding for an
// A-trail: an Eulerian circuit whose consecutive edges are always neighbours
// in the cyclic edge order of the vertex joining them.
//
// Vertices of degree six or more (branch nodes) are split into degree-2
// vertices, pairing their edge slots under one of two parities, with depth
// first backtracking whenever a split disconnects the graph. Degree-4 vertices
// are repaired after the circuit is found by reversing a sub-circuit.
package atrail

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"

	"github.com/jjtimmons/vhelix/internal/embed"
	"github.com/jjtimmons/vhelix/internal/graph"
)

func tracer() tracing.Trace {
	return tracing.Select("vhelix.atrail")
}

// ErrVerifyFailed means a trail the search reported as an A-trail did not pass
// verification.
var ErrVerifyFailed = errors.New("A-trail failed verification")

// Parity selects how the edge slots of a branch node are paired.
type Parity int

const (
	// OddEven pairs slots (0,1), (2,3), ...
	OddEven Parity = iota
	// EvenOdd pairs slots (0,d-1), (2,1), (4,3), ...
	EvenOdd
)

func (p Parity) String() string {
	if p == EvenOdd {
		return "even_odd"
	}
	return "odd_even"
}

// Trail is the outcome of a search.
type Trail struct {
	// Found is false when the graph has no A-trail for its embedding
	Found bool

	// Reason explains a negative result
	Reason string

	// Nodes is the closed vertex walk
	Nodes []int

	// Edges are the edge indices in walk order
	Edges []int

	// BranchNodes in the order they were split
	BranchNodes []int

	// Parities chosen for each branch node
	Parities []Parity
}

// searcher holds the subdivided, progressively split graph.
type searcher struct {
	g     *graph.Multigraph
	ecode [][]int

	// n is the vertex count of g
	n int

	// p is the neighbour order of every vertex after subdivision
	p [][]int

	// subdiv[w-n] is the edge subdivided by vertex w
	subdiv []int

	adj     graph.Adjacency
	journal *journal

	bn       []int
	bnIndex  map[int]int
	newNodes map[int][]int
	baseline int
	parities []Parity
}

// Search looks for an A-trail of g under the edge code ecode. A negative
// result is reported through Trail.Found. Errors mean the inputs were
// inconsistent.
func Search(g *graph.Multigraph, ecode [][]int) (*Trail, error) {
	if !g.HasEulerianTrail() {
		return &Trail{Reason: "no Eulerian trail"}, nil
	}
	s, err := newSearcher(g, ecode)
	if err != nil {
		return nil, err
	}

	s.enumerateBranchNodes()
	tracer().Infof("branch nodes: %v", s.bn)

	found := true
	if len(s.bn) > 0 {
		s.baseline = s.adj.ComponentCount()
		if !s.splitAndCheck(0, OddEven, nil) {
			s.newNodes = make(map[int][]int)
			found = s.splitAndCheck(0, EvenOdd, nil)
		}
	}
	if !found {
		return &Trail{Reason: "no A-trail for either parity", BranchNodes: s.bn}, nil
	}

	t, err := s.extract()
	if err != nil {
		return nil, err
	}
	t.BranchNodes = s.bn
	t.Parities = s.parities
	return t, nil
}

func newSearcher(g *graph.Multigraph, ecode [][]int) (*searcher, error) {
	if len(ecode) != g.Order() {
		return nil, errors.Wrap(embed.ErrEmbeddingMismatch, "edge code size")
	}
	s := &searcher{
		g:        g,
		ecode:    ecode,
		n:        g.Order(),
		p:        make([][]int, g.Order()),
		adj:      make(graph.Adjacency, g.Order()),
		journal:  &journal{},
		bnIndex:  make(map[int]int),
		newNodes: make(map[int][]int),
	}
	for v := range ecode {
		s.p[v] = make([]int, len(ecode[v]))
	}

	copies := make(map[[2]int]int)
	for _, e := range g.Edges() {
		u, v := e.U, e.V
		if u > v {
			u, v = v, u
		}
		ord1 := indexOf(ecode[u], e.Index)
		ord2 := indexOf(ecode[v], e.Index)
		if ord1 < 0 || ord2 < 0 {
			return nil, errors.Wrapf(embed.ErrEmbeddingMismatch, "edge %d missing from edge code", e.Index)
		}

		copies[[2]int{u, v}]++
		if copies[[2]int{u, v}] == 1 {
			s.p[u][ord1] = v
			s.p[v][ord2] = u
			s.adj[u] = append(s.adj[u], v)
			s.adj[v] = append(s.adj[v], u)
			continue
		}

		// parallel copy: route it through a fresh degree-2 vertex
		w := len(s.adj)
		s.subdiv = append(s.subdiv, e.Index)
		s.p[u][ord1] = w
		s.p[v][ord2] = w
		s.p = append(s.p, []int{u, v})
		s.adj = append(s.adj, []int{u, v})
		s.adj[u] = append(s.adj[u], w)
		s.adj[v] = append(s.adj[v], w)
	}
	if len(s.subdiv) > 0 {
		tracer().Debugf("subdivided %d parallel edges", len(s.subdiv))
	}
	return s, nil
}

// enumerateBranchNodes collects the vertices of degree >= 6 in breadth first
// order from the first vertex with an edge.
func (s *searcher) enumerateBranchNodes() {
	start := -1
	for v := range s.adj {
		if s.adj.Degree(v) > 0 {
			start = v
			break
		}
	}
	if start < 0 {
		return
	}
	for _, v := range s.adj.BreadthFirst(start) {
		if s.adj.Degree(v) >= 6 {
			s.bnIndex[v] = len(s.bn)
			s.bn = append(s.bn, v)
		}
	}
}

// resolve maps a neighbour of branch node b to the vertex now holding that
// edge: an earlier branch node has been replaced by its split vertices.
func (s *searcher) resolve(target, b, dep int, history []Parity) int {
	iloc, ok := s.bnIndex[target]
	if !ok || iloc >= dep {
		return target
	}
	split := s.newNodes[target]
	ord := indexOf(s.p[target], b)
	if history[iloc] == EvenOdd {
		ord++
	}
	ord = (ord % (2 * len(split))) / 2
	return split[ord]
}

// slotPair returns the two edge slots joined by split vertex i of a node of
// degree d.
func slotPair(par Parity, i, d int) (int, int) {
	if par == OddEven {
		return 2 * i, 2*i + 1
	}
	if i == 0 {
		return 0, d - 1
	}
	return 2 * i, 2*i - 1
}

// splitAndCheck splits bn[dep] with parity par and recurses. The graph is
// restored exactly whenever false is returned.
func (s *searcher) splitAndCheck(dep int, par Parity, parities []Parity) bool {
	history := append(append([]Parity(nil), parities...), par)
	b := s.bn[dep]
	d := s.adj.Degree(b)

	mark := s.journal.begin(len(s.adj))
	split := make([]int, d/2)
	for i := range split {
		sv := len(s.adj)
		s.adj = append(s.adj, nil)
		split[i] = sv
		a, c := slotPair(par, i, d)
		for _, slot := range []int{a, c} {
			t := s.resolve(s.p[b][slot], b, dep, history)
			s.link(sv, t)
		}
	}
	s.clear(b)

	if comps := s.adj.ComponentCount(); comps > s.baseline+dep+1 {
		tracer().Debugf("splitting %d (%s) at depth %d gives %d components", b, par, dep, comps)
		s.undo(mark)
		return false
	}

	s.newNodes[b] = split
	if dep == len(s.bn)-1 {
		s.parities = history
		return true
	}
	if s.splitAndCheck(dep+1, OddEven, history) || s.splitAndCheck(dep+1, EvenOdd, history) {
		return true
	}
	s.undo(mark)
	delete(s.newNodes, b)
	return false
}

// link adds an edge between u and v, saving the touched lists first.
func (s *searcher) link(u, v int) {
	s.journal.save(s.adj, u)
	s.journal.save(s.adj, v)
	s.adj[u] = append(s.adj[u], v)
	s.adj[v] = append(s.adj[v], u)
}

// clear removes every edge at v.
func (s *searcher) clear(v int) {
	s.journal.save(s.adj, v)
	for _, w := range s.adj[v] {
		s.journal.save(s.adj, w)
		s.adj.Remove(w, v)
	}
	s.adj[v] = nil
}

func (s *searcher) undo(mark int) {
	s.adj = s.journal.rollback(s.adj, mark)
}

func indexOf(xs []int, x int) int {
	for i, y := range xs {
		if y == x {
			return i
		}
	}
	return -1
}

func (t *Trail) String() string {
	if !t.Found {
		return fmt.Sprintf("no A-trail: %s", t.Reason)
	}
	return fmt.Sprintf("A-trail over %d edges, branch nodes %v", len(t.Edges), t.BranchNodes)
}
