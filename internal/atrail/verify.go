package atrail

// Verify reports whether edges is an A-trail under ecode: every edge is used
// exactly once, and at each vertex the edge leaving it sits next to the edge
// arriving in the cyclic order. The walk direction is tried both ways.
func Verify(ecode [][]int, edges []int) bool {
	m := 0
	for _, row := range ecode {
		m += len(row)
	}
	m /= 2
	if len(edges) == 0 || len(edges) != m {
		tracer().Debugf("trail has %d edges, graph has %d", len(edges), m)
		return false
	}

	ends := make([][2]int, m)
	for i := range ends {
		ends[i] = [2]int{-1, -1}
	}
	for v, row := range ecode {
		for _, e := range row {
			if e < 0 || e >= m {
				return false
			}
			if ends[e][0] < 0 {
				ends[e][0] = v
			} else {
				ends[e][1] = v
			}
		}
	}
	for _, e := range edges {
		if e < 0 || e >= m {
			return false
		}
	}

	for round := 0; round < 2; round++ {
		next := ends[edges[0]][1-round]
		if ok, used := walkTurns(ecode, ends, edges, next); !used {
			return false
		} else if ok {
			return true
		}
	}
	tracer().Debugf("trail turns through a non-adjacent edge pair")
	return false
}

// walkTurns checks the turns of edges starting at vertex next. used is false
// when an edge repeats.
func walkTurns(ecode [][]int, ends [][2]int, edges []int, next int) (ok, used bool) {
	visits := make([]int, len(ends))
	for i, e := range edges {
		visits[e]++
		if visits[e] > 1 {
			return false, false
		}
		following := edges[(i+1)%len(edges)]
		row := ecode[next]
		loc := indexOf(row, e)
		if loc < 0 {
			return false, true
		}
		pre := row[(loc+1)%len(row)]
		suc := row[(loc-1+len(row))%len(row)]
		if pre != following && suc != following {
			return false, true
		}
		if ends[following][0] == next {
			next = ends[following][1]
		} else {
			next = ends[following][0]
		}
	}
	return true, true
}
