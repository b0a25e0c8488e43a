package atrail

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/pkg/errors"
)

// errStuck means the split graph was not Eulerian when the circuit was traced.
var errStuck = errors.New("circuit ran out of edges")

// extract traces the Eulerian circuit of the split graph and turns it back
// into a walk over the original vertices and edges.
func (s *searcher) extract() (*Trail, error) {
	circuit, err := eulerCircuit(s.adj)
	if err != nil {
		return nil, err
	}
	if len(circuit) == 0 {
		return &Trail{Found: true}, nil
	}

	owner := make(map[int]int)
	for b, split := range s.newNodes {
		for _, sv := range split {
			owner[sv] = b
		}
	}
	for i, v := range circuit {
		if b, ok := owner[v]; ok {
			circuit[i] = b
		}
	}
	circuit = circuit[:len(circuit)-1]

	walk := s.fixCrossings(circuit)

	walk = append(walk, walk[0])
	if walk[0] >= s.n {
		walk = append(walk[1:], walk[1])
	}

	t := &Trail{Found: true}
	for i := 0; i+1 < len(walk); i++ {
		a, b := walk[i], walk[i+1]
		switch {
		case a < s.n && b < s.n:
			between := s.g.EdgesBetween(a, b)
			if len(between) == 0 {
				return nil, errors.Errorf("walk steps between unconnected vertices %d and %d", a, b)
			}
			t.Edges = append(t.Edges, between[0])
		case a < s.n:
			t.Edges = append(t.Edges, s.subdiv[b-s.n])
		}
	}
	for _, v := range walk {
		if v < s.n {
			t.Nodes = append(t.Nodes, v)
		}
	}
	tracer().Debugf("trail: %v", t.Nodes)
	return t, nil
}

// fixCrossings repairs degree-4 vertices where the circuit crosses itself
// instead of turning: the part of the walk between the two visits is
// reversed so that both visits pair neighbouring edges.
func (s *searcher) fixCrossings(circuit []int) []int {
	walk := append([]int(nil), circuit...)
	fixed := make(map[int]bool)
	n := len(circuit)
	for i, v := range circuit {
		if v >= len(s.adj) || s.adj.Degree(v) != 4 || fixed[v] {
			continue
		}
		// neighbours come from the unrepaired circuit, not from walk
		prev := circuit[(i-1+n)%n]
		next := circuit[(i+1)%n]
		po := indexOf(s.p[v], prev)
		no := indexOf(s.p[v], next)
		if po < 0 || no < 0 {
			continue
		}
		if no == (po+1)%4 || po == (no+1)%4 {
			continue
		}

		first := indexOf(walk, v)
		second := first + 1 + indexOf(walk[first+1:], v)
		if second > first {
			reverse(walk[first+1 : second])
		}
		fixed[v] = true
	}
	return walk
}

// eulerCircuit traces a closed walk over every edge of adj by splicing
// sub-circuits, always resuming from the smallest vertex with edges left. The
// first vertex is repeated at the end. A graph without edges gives an empty
// walk.
func eulerCircuit(adj [][]int) ([]int, error) {
	start := -1
	for v := range adj {
		if len(adj[v]) > 0 {
			start = v
			break
		}
	}
	if start < 0 {
		return nil, nil
	}

	unused := make([][]int, len(adj))
	for v := range adj {
		unused[v] = append([]int(nil), adj[v]...)
	}
	take := func(v, w int) {
		for i, x := range unused[v] {
			if x == w {
				unused[v] = append(unused[v][:i], unused[v][i+1:]...)
				return
			}
		}
	}

	circuit := []int{start}
	pending := treeset.NewWithIntComparator(start)
	for !pending.Empty() {
		it := pending.Iterator()
		it.First()
		v := it.Value().(int)

		var sub []int
		next := v
		for {
			if len(unused[next]) == 0 {
				return nil, errors.Wrapf(errStuck, "at vertex %d", next)
			}
			prev := next
			next = unused[next][0]
			take(next, prev)
			take(prev, next)
			pending.Add(next)
			sub = append(sub, next)
			if next == v {
				break
			}
		}

		loc := indexOf(circuit, v) + 1
		spliced := make([]int, 0, len(circuit)+len(sub))
		spliced = append(spliced, circuit[:loc]...)
		spliced = append(spliced, sub...)
		circuit = append(spliced, circuit[loc:]...)

		for _, x := range pending.Values() {
			if len(unused[x.(int)]) == 0 {
				pending.Remove(x)
			}
		}
	}
	return circuit, nil
}

func reverse(xs []int) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}
