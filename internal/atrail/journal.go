package atrail

import "github.com/jjtimmons/vhelix/internal/graph"

// frame records the neighbour lists a split touched before touching them.
type frame struct {
	order int
	saved map[int][]int
}

// journal undoes splits exactly, in reverse order.
type journal struct {
	frames []frame
}

// begin opens a frame for a graph of the given order and returns its mark.
func (j *journal) begin(order int) int {
	j.frames = append(j.frames, frame{order: order, saved: make(map[int][]int)})
	return len(j.frames) - 1
}

// save copies v's list into the open frame unless it is already there or v
// was created inside the frame.
func (j *journal) save(adj graph.Adjacency, v int) {
	f := &j.frames[len(j.frames)-1]
	if v >= f.order {
		return
	}
	if _, ok := f.saved[v]; ok {
		return
	}
	f.saved[v] = append([]int(nil), adj[v]...)
}

// rollback restores adj to its state when mark was opened.
func (j *journal) rollback(adj graph.Adjacency, mark int) graph.Adjacency {
	for i := len(j.frames) - 1; i >= mark; i-- {
		f := j.frames[i]
		for v, list := range f.saved {
			adj[v] = list
		}
		adj = adj[:f.order]
	}
	j.frames = j.frames[:mark]
	return adj
}
