package libxios_test

import (
	"testing"

	"github.com/xios-systems/goxios/libxios"
)

// Counts of distinct connected topologies by stem count.
func TestEnumMotifCounts(t *testing.T) {
	db := libxios.NewMotifDB()
	defer db.Close()

	stream := libxios.EnumMotifs(2, 3, libxios.StemOpts{OmitSerial: true})
	stream.AddTo(db, libxios.AddMotifOpts{}).PullAll()

	byStems := map[int32]int{}
	db.Walk(func(entry *libxios.MotifEntry) bool {
		byStems[entry.Code.StemCount()]++
		return true
	})

	// two stems either nest or cross
	if byStems[2] != 2 {
		t.Fatal("2-stem motifs:", byStems[2])
	}
	// the eight distinct 3-stem topologies, mirrors collapsed
	if byStems[3] != 8 {
		t.Fatal("3-stem motifs:", byStems[3])
	}
	if db.NumMotifs() != 10 {
		t.Fatal("total motifs:", db.NumMotifs())
	}
}

func TestEnumEmitsCanonical(t *testing.T) {
	stream := libxios.EnumMotifs(2, 3, libxios.StemOpts{OmitSerial: true})
	for {
		X := stream.PullXios()
		if X == nil {
			break
		}
		code := libxios.MinDFSOf(X)

		Y := libxios.NewXios(nil)
		if err := Y.InitFromCode(code); err != nil {
			t.Fatal(err)
		}
		if again := libxios.MinDFSOf(Y); again.Ascii() != code.Ascii() {
			t.Fatalf("code %q re-canonicalized to %q", code.Ascii(), again.Ascii())
		}
		Y.Reclaim()

		if X.NumParts() != 1 {
			t.Fatal("emitted motif should be connected:", X.ExprString())
		}
		X.Reclaim()
	}
}

func TestEnumSelector(t *testing.T) {
	total := 0
	stream := libxios.EnumMotifs(3, 3, libxios.StemOpts{OmitSerial: true})
	for {
		X := stream.PullXios()
		if X == nil {
			break
		}
		if X.NumStems() != 3 {
			t.Fatal("stems:", X.NumStems())
		}
		total++
		X.Reclaim()
	}
	if total != 8 {
		t.Fatal("3-stem motifs:", total)
	}
}
