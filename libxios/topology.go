package libxios

import (
	"strconv"

	"github.com/xios-systems/goxios"
)

// SerialRNA is an abstract RNA topology written as a series of stem IDs
// along the backbone, each ID appearing exactly twice (once per half-stem).
// "0101" is the simplest pseudoknot, "0110" two nested stems.
type SerialRNA []int32

// ParseSerialRNA reads a digit string such as "010122".
func ParseSerialRNA(s string) (SerialRNA, error) {
	rna := make(SerialRNA, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, goxios.ErrBadMotifExpr
		}
		rna = append(rna, int32(s[i]-'0'))
	}
	return rna, nil
}

func (rna SerialRNA) String() string {
	var b []byte
	for _, v := range rna {
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return string(b)
}

func (rna SerialRNA) NumStems() int {
	return len(rna) / 2
}

// Clone returns an independent copy.
func (rna SerialRNA) Clone() SerialRNA {
	return append(SerialRNA{}, rna...)
}

// Canonical relabels the stems in place so they appear in increasing order
// starting at zero.
func (rna SerialRNA) Canonical() {
	remap := make(map[int32]int32, rna.NumStems())
	next := int32(0)
	for _, v := range rna {
		if _, seen := remap[v]; !seen {
			remap[v] = next
			next++
		}
	}
	for i, v := range rna {
		rna[i] = remap[v]
	}
}

// Reverse flips the structure end to end in place.  Stem numbering is not
// re-canonicalized.
func (rna SerialRNA) Reverse() {
	for i, j := 0, len(rna)-1; i < j; i, j = i+1, j-1 {
		rna[i], rna[j] = rna[j], rna[i]
	}
}

// CanonicalFB returns the canonical string of the structure and of its
// end-to-end reversal.  A structure and its reversal describe the same
// topology read from the opposite strand direction.
func (rna SerialRNA) CanonicalFB() (forward, backward string) {
	fb := rna.Clone()
	fb.Canonical()
	forward = fb.String()

	fb.Reverse()
	fb.Canonical()
	backward = fb.String()
	return
}

// Connected splits the structure into its connected components: maximal
// runs in which every stem overlaps the span of another.  A fully connected
// structure yields a single component.
func (rna SerialRNA) Connected() []SerialRNA {
	var components []SerialRNA
	open := make(map[int32]bool)
	begin := 0
	for pos, v := range rna {
		if open[v] {
			delete(open, v)
			if len(open) == 0 {
				components = append(components, rna[begin:pos+1].Clone())
				begin = pos + 1
			}
		} else {
			open[v] = true
		}
	}
	return components
}

// IsConnected returns true if the whole structure is a single component.
func (rna SerialRNA) IsConnected() bool {
	return len(rna.Connected()) == 1
}

// AddStemAll returns every structure formed by inserting one new stem at
// all possible half-stem position pairs.  Existing stems renumber up by one
// and the new stem becomes stem 0.
func (rna SerialRNA) AddStemAll() []SerialRNA {
	newLen := len(rna) + 2
	children := make([]SerialRNA, 0, newLen*(newLen-1)/2)

	for begin := 0; begin < newLen-1; begin++ {
		for end := begin + 1; end < newLen; end++ {
			child := make(SerialRNA, newLen)
			for i := range child {
				child[i] = -1
			}
			child[begin] = 0
			child[end] = 0
			newPos := 0
			for _, v := range rna {
				for child[newPos] >= 0 {
					newPos++
				}
				child[newPos] = v + 1
			}
			children = append(children, child)
		}
	}
	return children
}

// SubtractStem returns the unique canonical connected structures formed by
// removing one stem.  Components reduced to a single stem are dropped.
func (rna SerialRNA) SubtractStem() []SerialRNA {
	unique := make(map[string]SerialRNA)

	for stem := int32(0); stem < int32(rna.NumStems()); stem++ {
		parent := make(SerialRNA, 0, len(rna)-2)
		for _, v := range rna {
			if v != stem {
				parent = append(parent, v)
			}
		}
		for _, component := range parent.Connected() {
			component.Canonical()
			if len(component) == 2 {
				continue
			}
			unique[component.String()] = component
		}
	}

	parents := make([]SerialRNA, 0, len(unique))
	for _, p := range unique {
		parents = append(parents, p)
	}
	return parents
}

// PairRNA is the same abstract topology as SerialRNA, restated as one
// (left, right) backbone position pair per stem.  Two nested stems are
// [[0,3],[1,2]]; the simple pseudoknot is [[0,2],[1,3]].
type PairRNA struct {
	Pairs [][2]int32
}

func PairsFromSerial(rna SerialRNA) PairRNA {
	pr := PairRNA{
		Pairs: make([][2]int32, rna.NumStems()),
	}
	seen := make(map[int32]bool, rna.NumStems())
	for pos, v := range rna {
		if !seen[v] {
			pr.Pairs[v][0] = int32(pos)
			seen[v] = true
		} else {
			pr.Pairs[v][1] = int32(pos)
		}
	}
	return pr
}

func (pr PairRNA) NumStems() int {
	return len(pr.Pairs)
}

func (pr PairRNA) ToSerial() SerialRNA {
	rna := make(SerialRNA, 2*len(pr.Pairs))
	for stem, p := range pr.Pairs {
		rna[p[0]] = int32(stem)
		rna[p[1]] = int32(stem)
	}
	return rna
}

// ToStems views each backbone position pair as a minimal one-base stem,
// suitable for relation classification.
func (pr PairRNA) ToStems() StemList {
	stems := make(StemList, len(pr.Pairs))
	for i, p := range pr.Pairs {
		stems[i] = Stem{
			Lbegin: p[0],
			Lend:   p[0],
			Rbegin: p[1],
			Rend:   p[1],
		}
	}
	return stems
}

// InitFromSerial assigns this graph from an abstract serial topology.
func (X *Xios) InitFromSerial(rna SerialRNA, opts StemOpts) error {
	return X.InitFromStems(PairsFromSerial(rna).ToStems(), opts)
}
