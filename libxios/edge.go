package libxios

import (
	"sort"
	"strconv"

	"github.com/xios-systems/goxios"
)

// EdgeList is an ordered sequence of typed edges.
type EdgeList []goxios.Edge

// MaxVtxID returns the largest vertex ID appearing in this list, or -1.
func (edges EdgeList) MaxVtxID() int32 {
	max := int32(-1)
	for _, e := range edges {
		if e.V0 > max {
			max = e.V0
		}
		if e.V1 > max {
			max = e.V1
		}
	}
	return max
}

// Sort orders this list by (V0, V1, Type).
func (edges EdgeList) Sort() {
	sort.Slice(edges, func(i, j int) bool {
		ei, ej := edges[i], edges[j]
		if ei.V0 != ej.V0 {
			return ei.V0 < ej.V0
		}
		if ei.V1 != ej.V1 {
			return ei.V1 < ej.V1
		}
		return ei.Type < ej.Type
	})
}

// AppendExprTo appends this list in graph expression form, e.g. "0i1.1o2.".
func (edges EdgeList) AppendExprTo(dst []byte) []byte {
	for _, e := range edges {
		dst = strconv.AppendInt(dst, int64(e.V0), 10)
		dst = append(dst, e.Type.Rune())
		dst = strconv.AppendInt(dst, int64(e.V1), 10)
		dst = append(dst, '.')
	}
	return dst
}
