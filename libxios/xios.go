// Package libxios models RNA secondary structure topologies as typed stem
// graphs and reduces them to canonical minimum DFS codes.
package libxios

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xios-systems/goxios"
)

// Xios is a typed multigraph over the stems of an RNA secondary structure.
// Vertices are stems and each edge states the pairwise relation of two stems:
// nested, pseudoknotted (crossing), serial, or excluded.
type Xios struct {
	partCount  int32 // number of connected parts; zero if not yet calculated
	vtxCount   int32 // number of distinct stem IDs in the edge list
	edges      EdgeList
	normalized bool
}

func NewXios(Xsrc *Xios) *Xios {
	X := xiosPool.Get().(*Xios)
	X.Init(Xsrc)
	return X
}

func NewXiosFromExpr(expr string) (*Xios, error) {
	X := xiosPool.Get().(*Xios)
	err := X.InitFromString(expr)
	if err != nil {
		X.Reclaim()
		return nil, err
	}
	return X, nil
}

var xiosPool = sync.Pool{
	New: func() interface{} {
		return new(Xios)
	},
}

// Reclaim returns this Xios to the pool for reuse.  The caller must not
// retain any references into it.
func (X *Xios) Reclaim() {
	if X != nil {
		xiosPool.Put(X)
	}
}

func (X *Xios) Init(Xsrc *Xios) {
	if X == Xsrc {
		return
	}

	X.onGraphChanged()

	if Xsrc == nil {
		X.vtxCount = 0
		X.edges = X.edges[:0]
		X.normalized = false
		return
	}
	X.partCount = Xsrc.partCount
	X.vtxCount = Xsrc.vtxCount
	X.edges = append(X.edges[:0], Xsrc.edges...)
	X.normalized = Xsrc.normalized
}

// InitFromEdges assigns this graph from the given edge list.
func (X *Xios) InitFromEdges(edges []goxios.Edge) error {
	X.Init(nil)
	for _, e := range edges {
		if err := X.AddEdge(e); err != nil {
			return err
		}
	}
	return nil
}

// InitFromCode assigns this graph from a DFS code's edge sequence.
func (X *Xios) InitFromCode(code goxios.DfsCode) error {
	return X.InitFromEdges(code)
}

// AddEdge appends a single edge, validating its endpoints and type.
func (X *Xios) AddEdge(e goxios.Edge) error {
	if e.Type >= goxios.NumEdgeTypes {
		return goxios.ErrBadEdgeType
	}
	if e.V0 < 0 || e.V0 >= goxios.MaxStems || e.V1 < 0 || e.V1 >= goxios.MaxStems {
		return goxios.ErrBadVtxID
	}
	if e.V0 == e.V1 {
		return goxios.ErrBadEdge
	}
	X.onGraphChanged()
	X.edges = append(X.edges, e)
	X.vtxCount = 0
	X.normalized = false
	return nil
}

func (X *Xios) onGraphChanged() {
	X.partCount = 0
}

func (X *Xios) Edges() EdgeList {
	return X.edges
}

// NumStems returns the number of distinct stems (vertices) in this graph.
func (X *Xios) NumStems() int32 {
	if X.vtxCount == 0 && len(X.edges) > 0 {
		var seen [goxios.MaxStems]bool
		N := int32(0)
		for _, e := range X.edges {
			if !seen[e.V0] {
				seen[e.V0] = true
				N++
			}
			if !seen[e.V1] {
				seen[e.V1] = true
				N++
			}
		}
		X.vtxCount = N
	}
	return X.vtxCount
}

func (X *Xios) NumEdges() int32 {
	return int32(len(X.edges))
}

// NumParts returns the number of connected parts of this graph.
func (X *Xios) NumParts() int32 {
	if X.partCount > 0 {
		return X.partCount
	}

	// Start with each stem as its own part; each edge merges the parts of
	// its two endpoints.
	var labels [goxios.MaxStems]int32
	for i := range labels {
		labels[i] = -1
	}
	for _, e := range X.edges {
		if labels[e.V0] < 0 {
			labels[e.V0] = e.V0
		}
		if labels[e.V1] < 0 {
			labels[e.V1] = e.V1
		}
		lo, hi := labels[e.V0], labels[e.V1]
		if lo == hi {
			continue
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		for i, li := range labels {
			if li == hi {
				labels[i] = lo
			}
		}
	}

	pcount := int32(0)
	for i, li := range labels {
		if li == int32(i) {
			pcount++
		}
	}

	X.partCount = pcount
	return X.partCount
}

// Components splits this graph into its connected parts, each returned as
// an independent graph keeping the original stem IDs.
func (X *Xios) Components() []*Xios {
	var labels [goxios.MaxStems]int32
	for i := range labels {
		labels[i] = -1
	}
	for _, e := range X.edges {
		if labels[e.V0] < 0 {
			labels[e.V0] = e.V0
		}
		if labels[e.V1] < 0 {
			labels[e.V1] = e.V1
		}
		lo, hi := labels[e.V0], labels[e.V1]
		if lo == hi {
			continue
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		for i, li := range labels {
			if li == hi {
				labels[i] = lo
			}
		}
	}

	byRoot := make(map[int32]*Xios)
	var parts []*Xios
	for _, e := range X.edges {
		root := labels[e.V0]
		part := byRoot[root]
		if part == nil {
			part = NewXios(nil)
			byRoot[root] = part
			parts = append(parts, part)
		}
		if err := part.AddEdge(e); err != nil {
			panic(err)
		}
	}
	return parts
}

// IsNormalized returns true if this graph is known to be in normal form.
func (X *Xios) IsNormalized() bool {
	return X.normalized
}

// Normalize rewrites this graph into the labeling engine's required input
// form: stem IDs become dense 0..N-1 in order of first appearance in the
// edge list, and every nested-by edge is restated as the reversed nested-in
// edge of its destination.
func (X *Xios) Normalize() {
	if X.normalized {
		return
	}

	var g2n [goxios.MaxStems]int32
	for i := range g2n {
		g2n[i] = -1
	}

	N := int32(0)
	for i, e := range X.edges {
		if g2n[e.V0] < 0 {
			g2n[e.V0] = N
			N++
		}
		if g2n[e.V1] < 0 {
			g2n[e.V1] = N
			N++
		}
		e = goxios.Edge{V0: g2n[e.V0], V1: g2n[e.V1], Type: e.Type}
		if e.Type == goxios.EdgeOut {
			e = e.Reversed()
		}
		X.edges[i] = e
	}

	X.vtxCount = N
	X.normalized = true
}

// XiosInfo summarizes a graph's gross structure.
type XiosInfo struct {
	NumParts   int32
	NumStems   int32
	EdgeCounts [goxios.NumEdgeTypes]int32
}

func (X *Xios) GetInfo() XiosInfo {
	info := XiosInfo{
		NumParts: X.NumParts(),
		NumStems: X.NumStems(),
	}
	for _, e := range X.edges {
		info.EdgeCounts[e.Type]++
	}
	return info
}

// ExprString returns this graph in expression form, e.g. "0i1.1o2.".
func (X *Xios) ExprString() string {
	return string(X.edges.AppendExprTo(nil))
}

var (
	quote   = []byte("\"")
	comma   = []byte(",")
	newline = []byte("\n")
)

func (X *Xios) WriteAsString(out io.Writer, opts goxios.PrintOpts) {
	fmt.Fprintf(out, "s=%d,p=%d,", X.NumStems(), X.NumParts())

	if opts.Graph {
		out.Write(quote)
		out.Write(X.edges.AppendExprTo(nil))
		out.Write(quote)
		out.Write(comma)
	}

	if opts.CodeStr || opts.Hex {
		code := MinDFSOf(X)
		if opts.CodeStr {
			out.Write(quote)
			out.Write(code.AppendAsciiTo(nil))
			out.Write(quote)
			out.Write(comma)
		}
		if opts.Hex {
			if hex, err := code.AppendHex2To(nil); err == nil {
				out.Write(hex)
				out.Write(comma)
			}
		}
	}
	out.Write(newline)
}

func (X *Xios) Println(prefix string) {
	b := strings.Builder{}
	b.Grow(192)
	b.WriteString(prefix)
	X.WriteAsString(&b, goxios.DefaultPrintOpts)
	fmt.Print(b.String())
}
