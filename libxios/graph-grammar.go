package libxios

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/xios-systems/goxios"
)

// A graph expression is a chain of typed edges, e.g:
//
//	"0i1.0i2.1o2."
//
// Each edge names its origin stem, relation letter, and destination stem.
// The trailing '.' (or ',') is optional and whitespace is ignored, so
// "0i1 0i2 1o2" reads the same.
//
// A bracketed triple list is also accepted, with the relation as a letter
// or its numeric value:
//
//	"[[0,1,i], [0,2,i], [1,2,2]]"
type GraphExpr struct {
	Edges   []*EdgeExpr   `  @@+`
	Triples []*TripleExpr `| "[" ( @@ ","? )* "]"`
}

type EdgeExpr struct {
	V0   int32  `@Int`
	Type string `@Type`
	V1   int32  `@Int ("." | ",")?`
}

type TripleExpr struct {
	V0   int32  `"[" @Int ","?`
	V1   int32  `@Int ","?`
	Type string `( @Type | @Int ) "]"`
}

// The stock lexer won't do since "0i1" adjoins digits and the type letter.
var sGraphLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Type", Pattern: `[ijosx]`},
	{Name: "Punct", Pattern: `[.,\[\]]`},
	{Name: "whitespace", Pattern: `[ \t\r\n]+`},
})

var parseGraphExpr = participle.MustBuild[GraphExpr](
	participle.Lexer(sGraphLexer),
)

func (X *Xios) InitFromString(expr string) error {
	X.Init(nil)

	Xexpr, err := parseGraphExpr.ParseString("", expr)
	if err != nil {
		return err
	}

	for _, edge := range Xexpr.Edges {
		et, err := goxios.EdgeTypeFromRune(edge.Type[0])
		if err != nil {
			return err
		}
		err = X.AddEdge(goxios.Edge{
			V0:   edge.V0,
			V1:   edge.V1,
			Type: et,
		})
		if err != nil {
			return err
		}
	}

	for _, triple := range Xexpr.Triples {
		et, err := parseEdgeType(triple.Type)
		if err != nil {
			return err
		}
		err = X.AddEdge(goxios.Edge{
			V0:   triple.V0,
			V1:   triple.V1,
			Type: et,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func parseEdgeType(tok string) (goxios.EdgeType, error) {
	if len(tok) == 1 && tok[0] >= '0' && tok[0] <= '9' {
		et := goxios.EdgeType(tok[0] - '0')
		if et >= goxios.NumEdgeTypes {
			return 0, goxios.ErrBadEdgeType
		}
		return et, nil
	}
	if len(tok) != 1 {
		return 0, goxios.ErrBadEdgeType
	}
	return goxios.EdgeTypeFromRune(tok[0])
}
