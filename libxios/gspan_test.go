package libxios_test

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/xios-systems/goxios"
	"github.com/xios-systems/goxios/libxios"
)

func canonicalOf(t *testing.T, expr string) string {
	X := mustXios(t, expr)
	defer X.Reclaim()
	return libxios.MinDFSOf(X).Ascii()
}

func TestCanonicalSingles(t *testing.T) {
	for _, pair := range [][2]string{
		{"0i1.", "0i1."},
		{"1j0.", "0i1."},
		{"0o1.", "0o1."},
		{"1o0.", "0o1."},
		{"0s1.", "0s1."},
		{"0x1.", "0x1."},
	} {
		if got := canonicalOf(t, pair[0]); got != pair[1] {
			t.Fatalf("%q canonicalized to %q, want %q", pair[0], got, pair[1])
		}
	}
}

// Every relabeling of the same topology lands on one canonical code.
func TestCanonicalInvariance(t *testing.T) {
	topologies := [][]string{
		// crossing stem pair sharing a common inner stem
		{"1i0.2i0.1o2.", "0i2.1i2.0o1.", "2i1.0i1.2o0.", "0j1.2i0.1o2."},
		// chain of three nested stems
		{"1i0.2i1.2i0.", "2i0.1i2.1i0.", "0j1.2i0.2i1."},
		// crossing triple
		{"0o1.1o2.0o2.", "1o2.2o0.1o0.", "2o1.0o2.0o1."},
		// two pseudoknots sharing a stem, with serial context kept
		{"0o1.1o2.0s2.", "2o1.1o0.2s0.", "1o0.0o2.1s2."},
	}

	for _, forms := range topologies {
		want := canonicalOf(t, forms[0])
		for _, form := range forms[1:] {
			if got := canonicalOf(t, form); got != want {
				t.Fatalf("%q canonicalized to %q, want %q (from %q)", form, got, want, forms[0])
			}
		}
	}
}

// Every permutation of stem labels must land on the same canonical code.
func TestCanonicalExhaustivePermutations(t *testing.T) {
	topologies := [][]goxios.Edge{
		{
			{V0: 1, V1: 0, Type: goxios.EdgeIn},
			{V0: 2, V1: 0, Type: goxios.EdgeIn},
			{V0: 1, V1: 2, Type: goxios.EdgeOverlap},
		},
		{
			{V0: 0, V1: 1, Type: goxios.EdgeOverlap},
			{V0: 1, V1: 2, Type: goxios.EdgeOverlap},
			{V0: 2, V1: 3, Type: goxios.EdgeOverlap},
			{V0: 3, V1: 0, Type: goxios.EdgeOverlap},
		},
		{
			{V0: 1, V1: 0, Type: goxios.EdgeIn},
			{V0: 2, V1: 0, Type: goxios.EdgeIn},
			{V0: 3, V1: 0, Type: goxios.EdgeIn},
			{V0: 1, V1: 2, Type: goxios.EdgeOverlap},
			{V0: 2, V1: 3, Type: goxios.EdgeSerial},
		},
	}

	for ti, edges := range topologies {
		numStems := int32(0)
		for _, e := range edges {
			if e.V0 >= numStems {
				numStems = e.V0 + 1
			}
			if e.V1 >= numStems {
				numStems = e.V1 + 1
			}
		}

		want := ""
		forEachPerm(int(numStems), func(perm []int32) {
			X := libxios.NewXios(nil)
			for _, e := range edges {
				err := X.AddEdge(goxios.Edge{
					V0:   perm[e.V0],
					V1:   perm[e.V1],
					Type: e.Type,
				})
				if err != nil {
					t.Fatal(err)
				}
			}
			code := libxios.MinDFSOf(X).Ascii()
			X.Reclaim()

			if want == "" {
				want = code
			} else if code != want {
				t.Fatalf("topology %d, perm %v: %q != %q", ti, perm, code, want)
			}
		})
	}
}

// forEachPerm calls fn with every permutation of [0..n).
func forEachPerm(n int, fn func(perm []int32)) {
	perm := make([]int32, n)
	for i := range perm {
		perm[i] = int32(i)
	}

	var recurse func(k int)
	recurse = func(k int) {
		if k == n {
			fn(perm)
			return
		}
		for i := k; i < n; i++ {
			perm[k], perm[i] = perm[i], perm[k]
			recurse(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	recurse(0)
}

// TestCanonicalAgreesWithIsomorphism enumerates every connected stem graph
// on a small vertex count, assigning each stem pair no edge or one typed
// edge, and cross-checks the canonical code against a brute-force
// invariant: the lexicographic minimum, over all vertex bijections, of the
// sorted relabeled edge list.  Two graphs must share a canonical code
// exactly when they share that minimum.
func TestCanonicalAgreesWithIsomorphism(t *testing.T) {
	allTypes := []goxios.EdgeType{
		goxios.EdgeIn, goxios.EdgeOverlap, goxios.EdgeSerial, goxios.EdgeExcluded,
	}
	crossCheckAllGraphs(t, 2, allTypes)
	crossCheckAllGraphs(t, 3, allTypes)
	crossCheckAllGraphs(t, 4, []goxios.EdgeType{goxios.EdgeIn, goxios.EdgeOverlap})
}

func crossCheckAllGraphs(t *testing.T, numStems int, types []goxios.EdgeType) {
	var pairs [][2]int32
	for a := int32(0); a < int32(numStems); a++ {
		for b := a + 1; b < int32(numStems); b++ {
			pairs = append(pairs, [2]int32{a, b})
		}
	}

	// Edge options per stem pair.  Option 0 means no edge; directional
	// types contribute both orientations.
	options := make([][]goxios.Edge, len(pairs))
	for pi, p := range pairs {
		opts := []goxios.Edge{{}}
		for _, et := range types {
			opts = append(opts, goxios.Edge{V0: p[0], V1: p[1], Type: et})
			if !et.SelfInverse() {
				opts = append(opts, goxios.Edge{V0: p[1], V1: p[0], Type: et})
			}
		}
		options[pi] = opts
	}

	bruteToCode := map[string]string{}
	codeToBrute := map[string]string{}

	pick := make([]int, len(pairs))
	graphs := 0
	for {
		var edges []goxios.Edge
		for pi, oi := range pick {
			if oi > 0 {
				edges = append(edges, options[pi][oi])
			}
		}

		if connectsAll(numStems, edges) {
			graphs++
			X := libxios.NewXios(nil)
			for _, e := range edges {
				if err := X.AddEdge(e); err != nil {
					t.Fatal(err)
				}
			}
			code := libxios.MinDFSOf(X).Ascii()
			X.Reclaim()

			brute := bruteInvariant(numStems, edges)
			if prior, ok := bruteToCode[brute]; ok && prior != code {
				t.Fatalf("isomorphic graphs coded %q and %q", prior, code)
			}
			if prior, ok := codeToBrute[code]; ok && prior != brute {
				t.Fatalf("distinct graphs share code %q", code)
			}
			bruteToCode[brute] = code
			codeToBrute[code] = brute
		}

		pi := 0
		for ; pi < len(pick); pi++ {
			pick[pi]++
			if pick[pi] < len(options[pi]) {
				break
			}
			pick[pi] = 0
		}
		if pi == len(pick) {
			break
		}
	}

	if graphs == 0 {
		t.Fatal("nope")
	}
}

func connectsAll(numStems int, edges []goxios.Edge) bool {
	reach := make([]int32, numStems)
	for i := range reach {
		reach[i] = int32(i)
	}
	find := func(v int32) int32 {
		for reach[v] != v {
			v = reach[v]
		}
		return v
	}
	for _, e := range edges {
		reach[find(e.V0)] = find(e.V1)
	}
	root := find(0)
	for v := int32(1); v < int32(numStems); v++ {
		if find(v) != root {
			return false
		}
	}
	return true
}

// bruteInvariant relabels the edge list under every vertex bijection,
// normalizes each edge to ascending endpoints, and returns the smallest
// sorted serialization.  Equal invariants mean isomorphic graphs.
func bruteInvariant(numStems int, edges []goxios.Edge) string {
	best := ""
	forEachPerm(numStems, func(perm []int32) {
		rows := make([]string, len(edges))
		for i, e := range edges {
			v0, v1, et := perm[e.V0], perm[e.V1], e.Type
			if v0 > v1 {
				v0, v1, et = v1, v0, et.Inverse()
			}
			rows[i] = fmt.Sprintf("%d%c%d", v0, et.Rune(), v1)
		}
		sort.Strings(rows)
		joined := strings.Join(rows, ".")
		if best == "" || joined < best {
			best = joined
		}
	})
	return best
}

func TestCanonicalDistinct(t *testing.T) {
	distinct := []string{
		"0i1.",
		"0o1.",
		"0s1.",
		"1i0.2i0.1o2.",
		"1i0.2i1.2i0.",
		"0o1.1o2.0o2.",
		"0o1.1o2.",
		"1i0.2i0.",
	}

	seen := make(map[string]string, len(distinct))
	for _, expr := range distinct {
		code := canonicalOf(t, expr)
		if prev, dupe := seen[code]; dupe {
			t.Fatalf("%q and %q share code %q", prev, expr, code)
		}
		seen[code] = expr
	}
}

// Rebuilding a graph from its canonical code and canonicalizing again
// must return the identical code.
func TestCanonicalIdempotent(t *testing.T) {
	exprs := []string{
		"0i1.",
		"1i0.2i0.1o2.",
		"1i0.2i1.2i0.",
		"0o1.1o2.0o2.",
		"0o1.1o2.0s2.",
		"0i1.1o2.2x3.3i0.",
	}

	for _, expr := range exprs {
		X := mustXios(t, expr)
		code := libxios.MinDFSOf(X)
		X.Reclaim()

		Y := libxios.NewXios(nil)
		if err := Y.InitFromCode(code); err != nil {
			t.Fatal(expr, err)
		}
		again := libxios.MinDFSOf(Y)
		Y.Reclaim()

		if again.Ascii() != code.Ascii() {
			t.Fatalf("%q: code %q re-canonicalized to %q", expr, code.Ascii(), again.Ascii())
		}
	}
}

// The assigned graph must come through canonicalization untouched.
func TestAssignLeavesSourceIntact(t *testing.T) {
	X := mustXios(t, "2i0.1i0.")
	before := X.ExprString()

	gs := libxios.NewGspan()
	gs.AssignGraph(X)
	gs.MinDFS()
	gs.Reclaim()

	if X.ExprString() != before {
		t.Fatalf("source graph mutated: %q -> %q", before, X.ExprString())
	}
	X.Reclaim()
}

func TestCanonicalDeterminism(t *testing.T) {
	expr := "0o1.1o2.0o2.3i0.3x1."
	want := canonicalOf(t, expr)
	for i := 0; i < 20; i++ {
		if got := canonicalOf(t, expr); got != want {
			t.Fatalf("run %d: %q != %q", i, got, want)
		}
	}
}
