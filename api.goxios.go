// Package goxios is the public API and symbol surface for goxios,
// a canonical labeling engine for RNA secondary structure topologies.
//
// A structure is modeled as a typed multigraph over its stems, and the
// engine reduces each graph to a minimum DFS code: a deterministic,
// isomorphism-invariant edge sequence that serves as the structure's
// canonical name.
package goxios

// EdgeType identifies the pairwise relation between two stems.
type EdgeType byte

const (
	EdgeIn       EdgeType = 0 // 'i': destination is nested inside origin
	EdgeOut      EdgeType = 1 // 'j': origin is nested inside destination (inverse of 'i')
	EdgeOverlap  EdgeType = 2 // 'o': pseudoknot (half-stems interleave)
	EdgeSerial   EdgeType = 3 // 's': disjoint, origin strictly precedes
	EdgeExcluded EdgeType = 4 // 'x': improper overlap, excluded from motifs

	NumEdgeTypes = 5
)

// edgeInverse maps each edge type to the type seen from the opposite endpoint.
// Only the nesting pair is directional.
var edgeInverse = [NumEdgeTypes]EdgeType{
	EdgeOut, EdgeIn, EdgeOverlap, EdgeSerial, EdgeExcluded,
}

var edgeRunes = [NumEdgeTypes]byte{'i', 'j', 'o', 's', 'x'}

// Inverse returns the type of this edge as seen from its destination.
func (et EdgeType) Inverse() EdgeType {
	return edgeInverse[et]
}

// SelfInverse returns true if the relation reads the same from both endpoints.
func (et EdgeType) SelfInverse() bool {
	return edgeInverse[et] == et
}

func (et EdgeType) Rune() byte {
	return edgeRunes[et]
}

func (et EdgeType) String() string {
	return string(edgeRunes[et])
}

// EdgeTypeFromRune returns the EdgeType denoted by the given letter.
func EdgeTypeFromRune(r byte) (EdgeType, error) {
	for et, er := range edgeRunes {
		if er == r {
			return EdgeType(et), nil
		}
	}
	return 0, ErrBadEdgeType
}

// Edge is a single typed edge: an ordered (origin, destination) vertex pair
// plus the relation type.  In a DfsCode, V0 and V1 are discovery order IDs.
type Edge struct {
	V0, V1 int32
	Type   EdgeType
}

// Reversed returns this edge as seen from its destination.
func (e Edge) Reversed() Edge {
	return Edge{e.V1, e.V0, e.Type.Inverse()}
}

const (
	// MaxStems is the maximum vertex (stem) count the two-byte hex
	// encoding can express, and so the hard size limit for cataloged motifs.
	MaxStems = 128

	// MaxStemsHex is the maximum vertex count for the compact one-byte
	// hex encoding.
	MaxStemsHex = 8
)

// DfsCode is an edge sequence in discovery order.  A minimum DFS code, as
// produced by the labeling engine, canonically names a graph: two graphs
// are isomorphic exactly when their minimum DFS codes are equal.
type DfsCode []Edge

// StemCount returns the number of vertices this code spans.
func (code DfsCode) StemCount() int32 {
	N := int32(0)
	for _, e := range code {
		if e.V0 >= N {
			N = e.V0 + 1
		}
		if e.V1 >= N {
			N = e.V1 + 1
		}
	}
	return N
}

// MotifSelector selects a sub range of a catalog.
type MotifSelector struct {
	MinStems int32
	MaxStems int32
}

// SelectAll selects every motif in a catalog.
var SelectAll = MotifSelector{
	MinStems: 1,
	MaxStems: MaxStems,
}

// Allows returns true if the given stem count falls within this selector.
func (sel *MotifSelector) Allows(stemCount int32) bool {
	return stemCount >= sel.MinStems && stemCount <= sel.MaxStems
}

// OnMotifHit receives canonical codes during Catalog selection.
type OnMotifHit chan<- DfsCode

// CatalogOpts specifies params for opening a Catalog.
type CatalogOpts struct {
	DbPathName   string // local pathname to the db directory; empty means in-memory
	ReadOnly     bool
	TrackParents bool // if set, maintain the single-stem-removal parent index
}

// Catalog is a persistent accumulator of canonical motif codes.
type Catalog interface {

	// TryAddMotif adds the given canonical code to this Catalog if it is
	// not already present, returning true if the code was newly added.
	TryAddMotif(code DfsCode) bool

	// NumMotifs returns the number of cataloged motifs having the given
	// stem count, or the total count if forStemCount is 0.
	NumMotifs(forStemCount int32) int64

	// Select sends all matching canonical codes to the given channel
	// in ascending (stemCount, code) order.  Select blocks until
	// the selection is complete, so the caller should read onHit from
	// another goroutine.
	Select(sel MotifSelector, onHit OnMotifHit)

	// Parents returns the codes reachable from the given code by removing
	// a single stem (requires TrackParents).
	Parents(code DfsCode) []DfsCode

	// IsReadOnly returns if this Catalog is read-only.
	IsReadOnly() bool

	// Close releases this reference to the Catalog.
	Close() error
}

// CatalogContext tracks open Catalog instances, allowing a graceful shutdown.
type CatalogContext interface {

	// AttachCatalog attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// DetachCatalog removes a previous attachment.
	DetachCatalog(cat Catalog)

	// Close initiates a shutdown of this context, closing when all
	// attached Catalogs have closed.
	Close()

	// Closing is closed when Close() is first called.
	Closing() <-chan struct{}

	// Done is closed after Close() completes.
	Done() <-chan struct{}
}

// PrintOpts specifies what elements, in addition to the graph expression
// itself, should be printed with a graph.
type PrintOpts struct {
	Label   string // optional label prefix
	Graph   bool   // print the edge list expression
	CodeStr bool   // print the canonical code in ascii chain form
	Hex     bool   // print the canonical code in two-byte hex form
}

// DefaultPrintOpts prints the graph expression and its ascii canonical code.
var DefaultPrintOpts = PrintOpts{
	Graph:   true,
	CodeStr: true,
}
