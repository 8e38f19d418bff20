package libxios_test

import (
	"testing"

	"github.com/xios-systems/goxios"
	"github.com/xios-systems/goxios/libxios"
)

func TestStemRelations(t *testing.T) {
	cases := []struct {
		a, b libxios.Stem
		want goxios.EdgeType
	}{
		// b entirely after a
		{libxios.Stem{0, 2, 8, 10}, libxios.Stem{12, 14, 20, 22}, goxios.EdgeSerial},
		// interleaved halves
		{libxios.Stem{0, 2, 8, 10}, libxios.Stem{4, 6, 14, 16}, goxios.EdgeOverlap},
		// b nested inside a
		{libxios.Stem{0, 2, 18, 20}, libxios.Stem{4, 6, 10, 12}, goxios.EdgeIn},
		// left halves overlap
		{libxios.Stem{0, 6, 10, 14}, libxios.Stem{4, 8, 20, 24}, goxios.EdgeExcluded},
	}
	for i, c := range cases {
		if got := c.a.RelationTo(&c.b); got != c.want {
			t.Fatalf("case %d: got %v, want %v", i, got, c.want)
		}
	}
}

func TestPairTableFromVienna(t *testing.T) {
	pair, err := libxios.PairTableFromVienna("((.))")
	if err != nil {
		t.Fatal(err)
	}
	want := []int32{4, 3, -1, 1, 0}
	for i, p := range want {
		if pair[i] != p {
			t.Fatalf("pos %d: got %d, want %d", i, pair[i], p)
		}
	}

	for _, bad := range []string{"((.)", ".))", "([)]..]"} {
		if _, err := libxios.PairTableFromVienna(bad); err == nil {
			t.Fatalf("%q should not parse", bad)
		}
	}

	// Bracket kinds pair independently, so crossings can be written.
	if _, err := libxios.PairTableFromVienna("((..[[..))..]]"); err != nil {
		t.Fatal(err)
	}
}

func TestStemsFromVienna(t *testing.T) {
	// One helix broken by a small bulge stays a single stem.
	stems, err := libxios.StemsFromVienna("((..((....))..))", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(stems) != 1 {
		t.Fatal("stems:", len(stems))
	}

	// With no bridging allowed the bulge splits the helix.
	stems, err = libxios.StemsFromVienna("((..((....))..))", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(stems) != 2 {
		t.Fatal("stems:", len(stems))
	}

	// H-type pseudoknot: two stems whose halves interleave.
	stems, err = libxios.StemsFromVienna("(((..[[[..)))..]]]", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(stems) != 2 {
		t.Fatal("stems:", len(stems))
	}

	X := libxios.NewXios(nil)
	defer X.Reclaim()
	if err := X.InitFromStems(stems, libxios.StemOpts{OmitSerial: true}); err != nil {
		t.Fatal(err)
	}
	code := libxios.MinDFSOf(X)
	if code.Ascii() != "0o1." {
		t.Fatal("pseudoknot code:", code.Ascii())
	}
}

func TestInitFromStems(t *testing.T) {
	// Three stems: 1 and 2 nested inside 0, crossing each other.
	stems := libxios.StemList{
		{Lbegin: 0, Lend: 2, Rbegin: 40, Rend: 42},
		{Lbegin: 6, Lend: 8, Rbegin: 20, Rend: 22},
		{Lbegin: 12, Lend: 14, Rbegin: 30, Rend: 32},
	}

	X := libxios.NewXios(nil)
	defer X.Reclaim()
	if err := X.InitFromStems(stems, libxios.StemOpts{}); err != nil {
		t.Fatal(err)
	}

	info := X.GetInfo()
	if info.NumStems != 3 {
		t.Fatal("stems:", info.NumStems)
	}
	if info.EdgeCounts[goxios.EdgeIn] != 2 || info.EdgeCounts[goxios.EdgeOverlap] != 1 {
		t.Fatal("edge counts:", info.EdgeCounts)
	}

	want := canonicalOf(t, "0i1.0i2.1o2.")
	if got := libxios.MinDFSOf(X).Ascii(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
