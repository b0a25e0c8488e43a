package euler

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// WeightedEdge is an edge of the auxiliary matching graph.
type WeightedEdge struct {
	I, J   int
	Weight int64
}

// MinWeightPerfectMatching returns mate[v] for every vertex of a graph on n
// vertices given by edges, minimising the total weight among perfect
// matchings. Vertices left unmatched (only possible when no perfect matching
// exists) have mate -1.
func MinWeightPerfectMatching(n int, edges []WeightedEdge) []int {
	var maxW int64
	for _, e := range edges {
		if e.Weight > maxW {
			maxW = e.Weight
		}
	}
	// maximum cardinality first, then maximum of (maxW+1 - w)
	flipped := make([]WeightedEdge, len(edges))
	for k, e := range edges {
		flipped[k] = WeightedEdge{I: e.I, J: e.J, Weight: maxW + 1 - e.Weight}
	}
	return MaxWeightMatching(n, flipped, true)
}

// MaxWeightMatching computes a maximum weight matching with Edmonds' blossom
// algorithm in O(n^3) using integer dual variables. With maxCardinality only
// maximum cardinality matchings are considered.
func MaxWeightMatching(n int, edges []WeightedEdge, maxCardinality bool) []int {
	mate := make([]int, n)
	for i := range mate {
		mate[i] = -1
	}
	if len(edges) == 0 || n == 0 {
		return mate
	}
	m := newMatcher(n, edges)
	m.run(maxCardinality)
	for v := 0; v < n; v++ {
		if m.mate[v] >= 0 {
			mate[v] = m.endpoint[m.mate[v]]
		}
	}
	return mate
}

type matcher struct {
	nvertex int
	edges   []WeightedEdge

	endpoint  []int
	neighbend [][]int

	// mate[v] is the remote endpoint index of v's matched edge, or -1
	mate []int

	// 0 free, 1 S, 2 T; bit 4 marks a scanned blossom
	label    []int
	labelend []int

	inblossom        []int
	blossomparent    []int
	blossomchilds    [][]int
	blossombase      []int
	blossomendps     [][]int
	bestedge         []int
	blossombestedges [][]int
	unusedblossoms   []int
	dualvar          []int64
	allowedge        []bool

	queue *linkedlistqueue.Queue
}

func newMatcher(n int, edges []WeightedEdge) *matcher {
	var maxweight int64
	for _, e := range edges {
		if e.Weight > maxweight {
			maxweight = e.Weight
		}
	}

	m := &matcher{
		nvertex:          n,
		edges:            edges,
		endpoint:         make([]int, 2*len(edges)),
		neighbend:        make([][]int, n),
		mate:             make([]int, n),
		label:            make([]int, 2*n),
		labelend:         make([]int, 2*n),
		inblossom:        make([]int, n),
		blossomparent:    make([]int, 2*n),
		blossomchilds:    make([][]int, 2*n),
		blossombase:      make([]int, 2*n),
		blossomendps:     make([][]int, 2*n),
		bestedge:         make([]int, 2*n),
		blossombestedges: make([][]int, 2*n),
		dualvar:          make([]int64, 2*n),
		allowedge:        make([]bool, len(edges)),
		queue:            linkedlistqueue.New(),
	}
	for k, e := range edges {
		m.endpoint[2*k] = e.I
		m.endpoint[2*k+1] = e.J
		m.neighbend[e.I] = append(m.neighbend[e.I], 2*k+1)
		m.neighbend[e.J] = append(m.neighbend[e.J], 2*k)
	}
	for v := 0; v < n; v++ {
		m.mate[v] = -1
		m.inblossom[v] = v
		m.blossombase[v] = v
		m.blossombase[n+v] = -1
		m.dualvar[v] = maxweight
	}
	for b := 0; b < 2*n; b++ {
		m.labelend[b] = -1
		m.blossomparent[b] = -1
		m.bestedge[b] = -1
	}
	for b := n; b < 2*n; b++ {
		m.unusedblossoms = append(m.unusedblossoms, b)
	}
	return m
}

// at indexes s cyclically so negative positions count from the end.
func at(s []int, j int) int {
	l := len(s)
	return s[((j%l)+l)%l]
}

func indexOf(s []int, x int) int {
	for i, y := range s {
		if y == x {
			return i
		}
	}
	return -1
}

func (m *matcher) slack(k int) int64 {
	e := m.edges[k]
	return m.dualvar[e.I] + m.dualvar[e.J] - 2*e.Weight
}

func (m *matcher) leaves(b int) []int {
	if b < m.nvertex {
		return []int{b}
	}
	var out []int
	for _, t := range m.blossomchilds[b] {
		if t < m.nvertex {
			out = append(out, t)
		} else {
			out = append(out, m.leaves(t)...)
		}
	}
	return out
}

func (m *matcher) assignLabel(w, t, p int) {
	b := m.inblossom[w]
	m.label[w], m.label[b] = t, t
	m.labelend[w], m.labelend[b] = p, p
	m.bestedge[w], m.bestedge[b] = -1, -1
	if t == 1 {
		for _, v := range m.leaves(b) {
			m.queue.Enqueue(v)
		}
	} else if t == 2 {
		base := m.blossombase[b]
		m.assignLabel(m.endpoint[m.mate[base]], 1, m.mate[base]^1)
	}
}

// scanBlossom traces back from v and w to find a new blossom base, or -1 if
// the paths lead to different roots (an augmenting path).
func (m *matcher) scanBlossom(v, w int) int {
	var path []int
	base := -1
	for v != -1 || w != -1 {
		b := m.inblossom[v]
		if m.label[b]&4 != 0 {
			base = m.blossombase[b]
			break
		}
		path = append(path, b)
		m.label[b] = 5
		if m.labelend[b] == -1 {
			v = -1
		} else {
			v = m.endpoint[m.labelend[b]]
			b = m.inblossom[v]
			v = m.endpoint[m.labelend[b]]
		}
		if w != -1 {
			v, w = w, v
		}
	}
	for _, b := range path {
		m.label[b] = 1
	}
	return base
}

func (m *matcher) addBlossom(base, k int) {
	v, w := m.edges[k].I, m.edges[k].J
	bb := m.inblossom[base]
	bv := m.inblossom[v]
	bw := m.inblossom[w]

	b := m.unusedblossoms[len(m.unusedblossoms)-1]
	m.unusedblossoms = m.unusedblossoms[:len(m.unusedblossoms)-1]
	m.blossombase[b] = base
	m.blossomparent[b] = -1
	m.blossomparent[bb] = b

	var path, endps []int
	for bv != bb {
		m.blossomparent[bv] = b
		path = append(path, bv)
		endps = append(endps, m.labelend[bv])
		v = m.endpoint[m.labelend[bv]]
		bv = m.inblossom[v]
	}
	path = append(path, bb)
	reverse(path)
	reverse(endps)
	endps = append(endps, 2*k)
	for bw != bb {
		m.blossomparent[bw] = b
		path = append(path, bw)
		endps = append(endps, m.labelend[bw]^1)
		w = m.endpoint[m.labelend[bw]]
		bw = m.inblossom[w]
	}
	m.blossomchilds[b] = path
	m.blossomendps[b] = endps

	m.label[b] = 1
	m.labelend[b] = m.labelend[bb]
	m.dualvar[b] = 0
	for _, v := range m.leaves(b) {
		if m.label[m.inblossom[v]] == 2 {
			m.queue.Enqueue(v)
		}
		m.inblossom[v] = b
	}

	bestedgeto := make([]int, 2*m.nvertex)
	for i := range bestedgeto {
		bestedgeto[i] = -1
	}
	for _, bv := range path {
		var nblists [][]int
		if m.blossombestedges[bv] == nil {
			for _, v := range m.leaves(bv) {
				nb := make([]int, len(m.neighbend[v]))
				for i, p := range m.neighbend[v] {
					nb[i] = p / 2
				}
				nblists = append(nblists, nb)
			}
		} else {
			nblists = [][]int{m.blossombestedges[bv]}
		}
		for _, nblist := range nblists {
			for _, k := range nblist {
				j := m.edges[k].J
				if m.inblossom[j] == b {
					j = m.edges[k].I
				}
				bj := m.inblossom[j]
				if bj != b && m.label[bj] == 1 &&
					(bestedgeto[bj] == -1 || m.slack(k) < m.slack(bestedgeto[bj])) {
					bestedgeto[bj] = k
				}
			}
		}
		m.blossombestedges[bv] = nil
		m.bestedge[bv] = -1
	}
	best := make([]int, 0)
	for _, k := range bestedgeto {
		if k != -1 {
			best = append(best, k)
		}
	}
	m.blossombestedges[b] = best
	m.bestedge[b] = -1
	for _, k := range best {
		if m.bestedge[b] == -1 || m.slack(k) < m.slack(m.bestedge[b]) {
			m.bestedge[b] = k
		}
	}
}

func (m *matcher) expandBlossom(b int, endstage bool) {
	for _, s := range m.blossomchilds[b] {
		m.blossomparent[s] = -1
		if s < m.nvertex {
			m.inblossom[s] = s
		} else if endstage && m.dualvar[s] == 0 {
			m.expandBlossom(s, endstage)
		} else {
			for _, v := range m.leaves(s) {
				m.inblossom[v] = s
			}
		}
	}

	if !endstage && m.label[b] == 2 {
		childs := m.blossomchilds[b]
		endps := m.blossomendps[b]
		entrychild := m.inblossom[m.endpoint[m.labelend[b]^1]]
		j := indexOf(childs, entrychild)
		var jstep, endptrick int
		if j&1 != 0 {
			j -= len(childs)
			jstep = 1
			endptrick = 0
		} else {
			jstep = -1
			endptrick = 1
		}
		p := m.labelend[b]
		for j != 0 {
			m.label[m.endpoint[p^1]] = 0
			m.label[m.endpoint[at(endps, j-endptrick)^endptrick^1]] = 0
			m.assignLabel(m.endpoint[p^1], 2, p)
			m.allowedge[at(endps, j-endptrick)/2] = true
			j += jstep
			p = at(endps, j-endptrick) ^ endptrick
			m.allowedge[p/2] = true
			j += jstep
		}
		bv := at(childs, j)
		m.label[m.endpoint[p^1]], m.label[bv] = 2, 2
		m.labelend[m.endpoint[p^1]], m.labelend[bv] = p, p
		m.bestedge[bv] = -1
		j += jstep
		for at(childs, j) != entrychild {
			bv = at(childs, j)
			if m.label[bv] == 1 {
				j += jstep
				continue
			}
			found := -1
			for _, v := range m.leaves(bv) {
				if m.label[v] != 0 {
					found = v
					break
				}
			}
			if found >= 0 {
				m.label[found] = 0
				m.label[m.endpoint[m.mate[m.blossombase[bv]]]] = 0
				m.assignLabel(found, 2, m.labelend[found])
			}
			j += jstep
		}
	}

	m.label[b], m.labelend[b] = -1, -1
	m.blossomchilds[b], m.blossomendps[b] = nil, nil
	m.blossombase[b] = -1
	m.blossombestedges[b] = nil
	m.bestedge[b] = -1
	m.unusedblossoms = append(m.unusedblossoms, b)
}

// augmentBlossom swaps matched and unmatched edges inside b so that v becomes
// its base.
func (m *matcher) augmentBlossom(b, v int) {
	t := v
	for m.blossomparent[t] != b {
		t = m.blossomparent[t]
	}
	if t >= m.nvertex {
		m.augmentBlossom(t, v)
	}
	childs := m.blossomchilds[b]
	endps := m.blossomendps[b]
	i := indexOf(childs, t)
	j := i
	var jstep, endptrick int
	if i&1 != 0 {
		j -= len(childs)
		jstep = 1
		endptrick = 0
	} else {
		jstep = -1
		endptrick = 1
	}
	for j != 0 {
		j += jstep
		t = at(childs, j)
		p := at(endps, j-endptrick) ^ endptrick
		if t >= m.nvertex {
			m.augmentBlossom(t, m.endpoint[p])
		}
		j += jstep
		t = at(childs, j)
		if t >= m.nvertex {
			m.augmentBlossom(t, m.endpoint[p^1])
		}
		m.mate[m.endpoint[p]] = p ^ 1
		m.mate[m.endpoint[p^1]] = p
	}
	m.blossomchilds[b] = append(append([]int(nil), childs[i:]...), childs[:i]...)
	m.blossomendps[b] = append(append([]int(nil), endps[i:]...), endps[:i]...)
	m.blossombase[b] = m.blossombase[m.blossomchilds[b][0]]
}

func (m *matcher) augmentMatching(k int) {
	e := m.edges[k]
	for _, sp := range [2][2]int{{e.I, 2*k + 1}, {e.J, 2 * k}} {
		s, p := sp[0], sp[1]
		for {
			bs := m.inblossom[s]
			if bs >= m.nvertex {
				m.augmentBlossom(bs, s)
			}
			m.mate[s] = p
			if m.labelend[bs] == -1 {
				break
			}
			t := m.endpoint[m.labelend[bs]]
			bt := m.inblossom[t]
			s = m.endpoint[m.labelend[bt]]
			j := m.endpoint[m.labelend[bt]^1]
			if bt >= m.nvertex {
				m.augmentBlossom(bt, j)
			}
			m.mate[j] = m.labelend[bt]
			p = m.labelend[bt] ^ 1
		}
	}
}

func (m *matcher) run(maxCardinality bool) {
	n := m.nvertex
	for stage := 0; stage < n; stage++ {
		for i := range m.label {
			m.label[i] = 0
			m.bestedge[i] = -1
		}
		for b := n; b < 2*n; b++ {
			m.blossombestedges[b] = nil
		}
		for k := range m.allowedge {
			m.allowedge[k] = false
		}
		m.queue.Clear()

		for v := 0; v < n; v++ {
			if m.mate[v] == -1 && m.label[m.inblossom[v]] == 0 {
				m.assignLabel(v, 1, -1)
			}
		}

		augmented := false
		for {
			for !m.queue.Empty() && !augmented {
				x, _ := m.queue.Dequeue()
				v := x.(int)
				for _, p := range m.neighbend[v] {
					k := p / 2
					w := m.endpoint[p]
					if m.inblossom[v] == m.inblossom[w] {
						continue
					}
					var kslack int64
					if !m.allowedge[k] {
						kslack = m.slack(k)
						if kslack <= 0 {
							m.allowedge[k] = true
						}
					}
					if m.allowedge[k] {
						if m.label[m.inblossom[w]] == 0 {
							m.assignLabel(w, 2, p^1)
						} else if m.label[m.inblossom[w]] == 1 {
							base := m.scanBlossom(v, w)
							if base >= 0 {
								m.addBlossom(base, k)
							} else {
								m.augmentMatching(k)
								augmented = true
								break
							}
						} else if m.label[w] == 0 {
							m.label[w] = 2
							m.labelend[w] = p ^ 1
						}
					} else if m.label[m.inblossom[w]] == 1 {
						b := m.inblossom[v]
						if m.bestedge[b] == -1 || kslack < m.slack(m.bestedge[b]) {
							m.bestedge[b] = k
						}
					} else if m.label[w] == 0 {
						if m.bestedge[w] == -1 || kslack < m.slack(m.bestedge[w]) {
							m.bestedge[w] = k
						}
					}
				}
			}
			if augmented {
				break
			}

			deltatype := -1
			var delta int64
			deltaedge, deltablossom := -1, -1
			if !maxCardinality {
				deltatype = 1
				delta = m.minVertexDual()
			}
			for v := 0; v < n; v++ {
				if m.label[m.inblossom[v]] == 0 && m.bestedge[v] != -1 {
					d := m.slack(m.bestedge[v])
					if deltatype == -1 || d < delta {
						delta = d
						deltatype = 2
						deltaedge = m.bestedge[v]
					}
				}
			}
			for b := 0; b < 2*n; b++ {
				if m.blossomparent[b] == -1 && m.label[b] == 1 && m.bestedge[b] != -1 {
					d := m.slack(m.bestedge[b]) / 2
					if deltatype == -1 || d < delta {
						delta = d
						deltatype = 3
						deltaedge = m.bestedge[b]
					}
				}
			}
			for b := n; b < 2*n; b++ {
				if m.blossombase[b] >= 0 && m.blossomparent[b] == -1 && m.label[b] == 2 &&
					(deltatype == -1 || m.dualvar[b] < delta) {
					delta = m.dualvar[b]
					deltatype = 4
					deltablossom = b
				}
			}
			if deltatype == -1 {
				deltatype = 1
				delta = m.minVertexDual()
				if delta < 0 {
					delta = 0
				}
			}

			for v := 0; v < n; v++ {
				switch m.label[m.inblossom[v]] {
				case 1:
					m.dualvar[v] -= delta
				case 2:
					m.dualvar[v] += delta
				}
			}
			for b := n; b < 2*n; b++ {
				if m.blossombase[b] >= 0 && m.blossomparent[b] == -1 {
					switch m.label[b] {
					case 1:
						m.dualvar[b] += delta
					case 2:
						m.dualvar[b] -= delta
					}
				}
			}

			if deltatype == 1 {
				break
			}
			switch deltatype {
			case 2:
				m.allowedge[deltaedge] = true
				i := m.edges[deltaedge].I
				if m.label[m.inblossom[i]] == 0 {
					i = m.edges[deltaedge].J
				}
				m.queue.Enqueue(i)
			case 3:
				m.allowedge[deltaedge] = true
				m.queue.Enqueue(m.edges[deltaedge].I)
			case 4:
				m.expandBlossom(deltablossom, false)
			}
		}

		if !augmented {
			break
		}
		for b := n; b < 2*n; b++ {
			if m.blossomparent[b] == -1 && m.blossombase[b] >= 0 && m.label[b] == 1 && m.dualvar[b] == 0 {
				m.expandBlossom(b, true)
			}
		}
	}
}

func (m *matcher) minVertexDual() int64 {
	d := m.dualvar[0]
	for v := 1; v < m.nvertex; v++ {
		if m.dualvar[v] < d {
			d = m.dualvar[v]
		}
	}
	return d
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
