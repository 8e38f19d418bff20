package libxios

import (
	"sort"
	"sync"

	"github.com/xios-systems/goxios"
)

// Gspan finds the minimum DFS code of a connected typed graph by exhaustive
// backtracking search over DFS spanning trees (Yan & Han canonical labeling).
//
// The search keeps the working edge list partially ordered: rows [0,row) are
// committed to the current candidate code and the remainder is re-sorted at
// each step so the next minimal edge surfaces first.  Alternative edges that
// tie with a committed one are pushed onto an unexplored stack and revisited
// by restore().
//
// Vertex labels live in two spaces: g-space (the input graph's dense IDs) and
// d-space (discovery order of the candidate DFS traversal).  g2d and d2g map
// between them; -1 marks an undiscovered vertex.
type Gspan struct {
	graph      EdgeList // working edges in g-space; rows [0,row) are committed
	g2d        []int32
	d2g        []int32
	row        int
	vnext      int32 // next d-space ID to assign
	nforward   int
	nbackward  int
	nunknown   int
	minDFS     goxios.DfsCode // best code so far, in d-space
	minLen     int
	unexplored []branchPoint

	backward []goxios.Edge // sort scratch
	forward  []goxios.Edge
	unknown  []goxios.Edge
}

// branchPoint is a deferred alternative: an edge that tied with the one
// committed at the given row.
type branchPoint struct {
	edge goxios.Edge
	row  int
}

func NewGspan() *Gspan {
	return gspanPool.Get().(*Gspan)
}

var gspanPool = sync.Pool{
	New: func() interface{} {
		return new(Gspan)
	},
}

func (gs *Gspan) Reclaim() {
	if gs != nil {
		gspanPool.Put(gs)
	}
}

// MinDFSOf returns the canonical minimum DFS code of X.  X itself is not
// modified; the engine works on a normalized copy.  X must be connected for
// the code to span the whole graph.
func MinDFSOf(X *Xios) goxios.DfsCode {
	gs := NewGspan()
	gs.AssignGraph(X)
	code := gs.MinDFS()
	gs.Reclaim()
	return code
}

// AssignGraph loads a copy of X into this engine, normalizing the copy if
// needed.
func (gs *Gspan) AssignGraph(X *Xios) {
	tmp := NewXios(X)
	tmp.Normalize()

	gs.graph = append(gs.graph[:0], tmp.Edges()...)
	Nv := tmp.NumStems()
	tmp.Reclaim()

	if cap(gs.g2d) < int(Nv) {
		gs.g2d = make([]int32, Nv)
		gs.d2g = make([]int32, Nv)
	}
	gs.g2d = gs.g2d[:Nv]
	gs.d2g = gs.d2g[:Nv]
	gs.resetMaps()

	gs.row = 0
	gs.vnext = 0
	gs.minLen = 0
	if cap(gs.minDFS) < len(gs.graph) {
		gs.minDFS = make(goxios.DfsCode, len(gs.graph))
	}
	gs.minDFS = gs.minDFS[:len(gs.graph)]
	gs.unexplored = gs.unexplored[:0]
}

func (gs *Gspan) resetMaps() {
	for i := range gs.g2d {
		gs.g2d[i] = -1
		gs.d2g[i] = -1
	}
	gs.vnext = 0
}

// MinDFS runs the search and returns the minimum DFS code.
func (gs *Gspan) MinDFS() goxios.DfsCode {
	if len(gs.graph) == 0 {
		return goxios.DfsCode{}
	}

	gs.initDFS()
	searching := gs.restore()

	for searching {
		first := gs.row
		gs.sortFrom(gs.row)

		// Backward edges commit as-is: the sort already placed them in
		// order and they discover no new vertex.
		gs.row += gs.nbackward

		if gs.row < len(gs.graph) {
			// Forward edges tying with the lead (same committed origin,
			// same type) are alternatives to search later.
			lead := gs.graph[gs.row]
			v0 := gs.g2d[lead.V0]
			for _, e := range gs.graph[gs.row+1:] {
				if e.Type != lead.Type || gs.g2d[e.V0] != v0 {
					break
				}
				gs.push(e, gs.row)
			}

			// Commit the lead forward edge, discovering its destination.
			gs.d2g[gs.vnext] = lead.V1
			gs.g2d[lead.V1] = gs.vnext
			gs.vnext++
			gs.row++
		}

		if !gs.minimum(first) || gs.row == len(gs.graph) {
			searching = gs.restore()
		}
	}

	code := make(goxios.DfsCode, gs.minLen)
	copy(code, gs.minDFS[:gs.minLen])
	return code
}

// initDFS seeds the unexplored stack with every edge of the globally
// smallest type.  When that type is self-inverse both orientations of each
// such edge are distinct starts and both are queued.
func (gs *Gspan) initDFS() int {
	gs.sortFrom(0)

	first := gs.graph[0].Type
	for _, e := range gs.graph {
		if e.Type != first {
			break
		}
		gs.push(e, 0)
		if first.SelfInverse() {
			gs.push(e.Reversed(), 0)
		}
	}
	return len(gs.unexplored)
}

func (gs *Gspan) push(e goxios.Edge, row int) {
	gs.unexplored = append(gs.unexplored, branchPoint{edge: e, row: row})
}

// restore pops deferred alternatives until one yields a still-minimal
// prefix, rebuilding the discovery maps from the committed rows.  Returns
// false when the stack is exhausted.
func (gs *Gspan) restore() bool {
	for len(gs.unexplored) > 0 {
		n := len(gs.unexplored) - 1
		bp := gs.unexplored[n]
		gs.unexplored = gs.unexplored[:n]
		gs.row = bp.row

		// Move the popped edge to its row; it may sit anywhere in the
		// working list, possibly in the opposite orientation.
		epos := gs.find(bp.edge)
		if epos < 0 {
			epos = gs.find(bp.edge.Reversed())
		}
		gs.graph[epos] = gs.graph[gs.row]
		gs.graph[gs.row] = bp.edge
		gs.row++

		// Rebuild g2d and d2g from the committed prefix.
		gs.resetMaps()
		for i := 0; i < gs.row; i++ {
			e := gs.graph[i]
			if gs.g2d[e.V0] < 0 {
				gs.g2d[e.V0] = gs.vnext
				gs.d2g[gs.vnext] = e.V0
				gs.vnext++
			}
			if gs.g2d[e.V1] < 0 {
				gs.g2d[e.V1] = gs.vnext
				gs.d2g[gs.vnext] = e.V1
				gs.vnext++
			}
		}

		if gs.minimum(0) {
			return true
		}
	}
	return false
}

func (gs *Gspan) find(e goxios.Edge) int {
	for i, ei := range gs.graph {
		if ei == e {
			return i
		}
	}
	return -1
}

// sortFrom reorders the uncommitted rows [begin,len) into DFS candidate
// order: backward edges (both endpoints discovered) first by ascending
// destination, then forward extensions by most recently discovered origin
// and ascending type, then fully undiscovered edges by type.  Edges are
// reoriented so their known endpoint is the origin.
func (gs *Gspan) sortFrom(begin int) {
	backward := gs.backward[:0]
	forward := gs.forward[:0]
	unknown := gs.unknown[:0]
	g2d := gs.g2d

	for _, e := range gs.graph[begin:] {
		switch {
		case g2d[e.V0] < 0:
			if g2d[e.V1] < 0 {
				unknown = append(unknown, e)
			} else {
				forward = append(forward, e.Reversed())
			}
		case g2d[e.V1] < 0:
			forward = append(forward, e)
		default:
			if g2d[e.V0] < g2d[e.V1] {
				e = e.Reversed()
			}
			backward = append(backward, e)
		}
	}

	gs.nbackward = len(backward)
	gs.nforward = len(forward)
	gs.nunknown = len(unknown)

	sort.SliceStable(backward, func(i, j int) bool {
		return g2d[backward[i].V1] < g2d[backward[j].V1]
	})
	sort.SliceStable(forward, func(i, j int) bool {
		d_i, d_j := g2d[forward[i].V0], g2d[forward[j].V0]
		if d_i != d_j {
			return d_i > d_j
		}
		return forward[i].Type < forward[j].Type
	})
	sort.SliceStable(unknown, func(i, j int) bool {
		return unknown[i].Type < unknown[j].Type
	})

	out := gs.graph[begin:]
	n := copy(out, backward)
	n += copy(out[n:], forward)
	copy(out[n:], unknown)

	gs.backward = backward[:0]
	gs.forward = forward[:0]
	gs.unknown = unknown[:0]
}

// minimum reports whether the candidate rows [first,row) keep the current
// traversal less than or equal to the best code found so far.  A strictly
// smaller prefix (or one extending past the best code's length) is recorded
// as the new best; an equal prefix continues searching without recording.
func (gs *Gspan) minimum(first int) bool {
	row := gs.row
	if row > gs.minLen {
		gs.commitMin(first)
		return true
	}

	cmp := 0
	for i := first; i < row; i++ {
		e := gs.graph[i]
		c := goxios.Edge{V0: gs.g2d[e.V0], V1: gs.g2d[e.V1], Type: e.Type}
		m := gs.minDFS[i]

		cFwd := c.V0 < c.V1
		mFwd := m.V0 < m.V1
		if !cFwd && mFwd {
			cmp = -1 // backward beats forward
			break
		}
		if cFwd && !mFwd {
			cmp = 1
			break
		}

		if cFwd {
			// Forward: the more recently discovered origin is smaller.
			if c.V0 != m.V0 {
				if c.V0 > m.V0 {
					cmp = -1
				} else {
					cmp = 1
				}
				break
			}
		} else {
			// Backward: the earlier destination is smaller.
			if c.V1 != m.V1 {
				if c.V1 < m.V1 {
					cmp = -1
				} else {
					cmp = 1
				}
				break
			}
		}
		if c.Type != m.Type {
			if c.Type < m.Type {
				cmp = -1
			} else {
				cmp = 1
			}
			break
		}
	}

	if cmp < 0 {
		gs.commitMin(first)
		return true
	}
	return cmp == 0
}

// commitMin records rows [first,row) of the current traversal, in d-space,
// as the best code so far.
func (gs *Gspan) commitMin(first int) {
	for i := first; i < gs.row; i++ {
		e := gs.graph[i]
		gs.minDFS[i] = goxios.Edge{
			V0:   gs.g2d[e.V0],
			V1:   gs.g2d[e.V1],
			Type: e.Type,
		}
	}
	gs.minLen = gs.row
}
