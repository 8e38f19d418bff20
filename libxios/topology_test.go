package libxios_test

import (
	"testing"

	"github.com/xios-systems/goxios/libxios"
)

func mustSerial(t *testing.T, s string) libxios.SerialRNA {
	rna, err := libxios.ParseSerialRNA(s)
	if err != nil {
		t.Fatal(s, err)
	}
	return rna
}

func TestSerialCanonical(t *testing.T) {
	rna := mustSerial(t, "212010")
	rna.Canonical()
	if rna.String() != "010212" {
		t.Fatal("canonical:", rna.String())
	}

	rna = mustSerial(t, "010212")
	fwd, bwd := rna.CanonicalFB()
	if fwd != "010212" || bwd != "010212" {
		t.Fatal("self-mirror topology:", fwd, bwd)
	}

	rna = mustSerial(t, "010221")
	_, bwd = rna.CanonicalFB()
	if bwd != "011202" {
		t.Fatal("mirror:", bwd)
	}

	if _, err := libxios.ParseSerialRNA("01a0"); err == nil {
		t.Fatal("letters should not parse")
	}
}

func TestSerialConnected(t *testing.T) {
	comps := mustSerial(t, "001122").Connected()
	if len(comps) != 3 {
		t.Fatal("components:", len(comps))
	}

	for _, s := range []string{"010212", "011220", "012012"} {
		if !mustSerial(t, s).IsConnected() {
			t.Fatal(s, "should be connected")
		}
	}
	if mustSerial(t, "001212").IsConnected() {
		t.Fatal("001212 should split")
	}
}

func TestAddStemAll(t *testing.T) {
	children := mustSerial(t, "00").AddStemAll()
	// a new stem can open and close at any two of the four positions
	if len(children) != 6 {
		t.Fatal("children:", len(children))
	}
	for _, child := range children {
		if child.NumStems() != 2 {
			t.Fatal("child stems:", child.NumStems(), child.String())
		}
		// the inserted stem takes label 0
		zeros := 0
		for _, v := range child {
			if v == 0 {
				zeros++
			}
		}
		if zeros != 2 {
			t.Fatal("inserted stem halves:", child.String())
		}
	}
}

func TestSubtractStem(t *testing.T) {
	// Both single-stem removals that stay whole leave the nested pair.
	parents := mustSerial(t, "011220").SubtractStem()
	if len(parents) != 1 || parents[0].String() != "0110" {
		t.Fatal("parents:", parents)
	}

	parents = mustSerial(t, "010212").SubtractStem()
	if len(parents) != 1 || parents[0].String() != "0101" {
		t.Fatal("parents:", parents)
	}
}

func TestPairRNA(t *testing.T) {
	rna := mustSerial(t, "0110")
	pr := libxios.PairsFromSerial(rna)
	if pr.NumStems() != 2 {
		t.Fatal("stems:", pr.NumStems())
	}
	if pr.Pairs[0] != [2]int32{0, 3} || pr.Pairs[1] != [2]int32{1, 2} {
		t.Fatal("pairs:", pr.Pairs)
	}
	if pr.ToSerial().String() != "0110" {
		t.Fatal("round trip:", pr.ToSerial().String())
	}

	stems := pr.ToStems()
	if len(stems) != 2 {
		t.Fatal("stems:", len(stems))
	}
}

func TestInitFromSerial(t *testing.T) {
	X := libxios.NewXios(nil)
	defer X.Reclaim()

	// nested pair
	if err := X.InitFromSerial(mustSerial(t, "0110"), libxios.StemOpts{OmitSerial: true}); err != nil {
		t.Fatal(err)
	}
	if got := libxios.MinDFSOf(X).Ascii(); got != "0i1." {
		t.Fatal("nested pair code:", got)
	}

	// pseudoknot
	if err := X.InitFromSerial(mustSerial(t, "0101"), libxios.StemOpts{OmitSerial: true}); err != nil {
		t.Fatal(err)
	}
	if got := libxios.MinDFSOf(X).Ascii(); got != "0o1." {
		t.Fatal("pseudoknot code:", got)
	}
}
