package goxios

import "errors"

// Errors
var (
	ErrBadEncoding     = errors.New("bad code encoding")
	ErrBadEdgeType     = errors.New("bad edge type")
	ErrBadVtxID        = errors.New("bad vertex ID")
	ErrBadEdge         = errors.New("bad edge")
	ErrBadMotifExpr    = errors.New("bad motif expression")
	ErrBadCatalogParam = errors.New("bad catalog param")
	ErrCatalogClosed   = errors.New("catalog is closed")
	ErrReadOnly        = errors.New("catalog is in read-only mode")
	ErrNilGraph        = errors.New("nil graph")
)
