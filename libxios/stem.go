package libxios

import (
	"errors"
	"sort"

	"github.com/xios-systems/goxios"
)

var (
	ErrBadVienna = errors.New("malformed vienna string")
)

// Stem is a base-paired helix of an RNA secondary structure, reduced to the
// sequence intervals of its two half-stems: [Lbegin,Lend] pairs with
// [Rbegin,Rend], with Lend <= Rbegin.
type Stem struct {
	Lbegin int32
	Lend   int32
	Rbegin int32
	Rend   int32
}

// RelationTo classifies the relation between this stem and another that
// starts at or after it (st.Lbegin <= next.Lbegin):
//
//	serial:   this stem ends before the next begins
//	overlap:  the half-stems interleave (a pseudoknot)
//	nested:   the next stem lies entirely between this stem's half-stems
//	excluded: the half-stem intervals collide and no clean relation holds
func (st *Stem) RelationTo(next *Stem) goxios.EdgeType {
	switch {
	case st.Rend < next.Lbegin:
		return goxios.EdgeSerial
	case st.Lend < next.Lbegin && st.Rend < next.Rbegin:
		return goxios.EdgeOverlap
	case st.Lend < next.Lbegin && st.Rbegin > next.Rend:
		return goxios.EdgeIn
	}
	return goxios.EdgeExcluded
}

// StemList is a set of stems, orderable by left half-stem start.
type StemList []Stem

func (stems StemList) Sort() {
	sort.Slice(stems, func(i, j int) bool {
		if stems[i].Lbegin != stems[j].Lbegin {
			return stems[i].Lbegin < stems[j].Lbegin
		}
		return stems[i].Rbegin < stems[j].Rbegin
	})
}

// StemOpts selects which relations become edges when building a graph from
// a stem list.
type StemOpts struct {
	// OmitSerial drops serial edges.  Canonicalization of connected motifs
	// does not need them since nesting and crossing already relate every
	// stem pair that shares context.
	OmitSerial bool

	// OmitExcluded drops excluded edges instead of emitting them.
	OmitExcluded bool
}

// InitFromStems assigns this graph from a stem list: stem index (after
// ordering by left half-stem) becomes the vertex ID and every stem pair
// contributes the edge of its classified relation.
func (X *Xios) InitFromStems(stems StemList, opts StemOpts) error {
	X.Init(nil)

	ordered := make(StemList, len(stems))
	copy(ordered, stems)
	ordered.Sort()

	for i := range ordered {
		for j := i + 1; j < len(ordered); j++ {
			et := ordered[i].RelationTo(&ordered[j])
			if et == goxios.EdgeSerial && opts.OmitSerial {
				continue
			}
			if et == goxios.EdgeExcluded && opts.OmitExcluded {
				continue
			}
			err := X.AddEdge(goxios.Edge{V0: int32(i), V1: int32(j), Type: et})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

var viennaPairs = map[byte]byte{
	'(': ')',
	'[': ']',
	'{': '}',
	'<': '>',
}

// PairTableFromVienna converts a dot-bracket structure string to a pair
// table: table[i] is the position paired with i, or -1.  The four bracket
// kinds nest independently, so pseudoknotted structures are expressible.
func PairTableFromVienna(structure string) ([]int32, error) {
	table := make([]int32, len(structure))
	stacks := make(map[byte][]int32, len(viennaPairs))

	for pos := 0; pos < len(structure); pos++ {
		c := structure[pos]
		table[pos] = -1
		if c == '.' {
			continue
		}
		if _, isOpen := viennaPairs[c]; isOpen {
			stacks[c] = append(stacks[c], int32(pos))
			continue
		}

		matched := false
		for open, closer := range viennaPairs {
			if c != closer {
				continue
			}
			stack := stacks[open]
			if len(stack) == 0 {
				return nil, ErrBadVienna
			}
			lhs := stack[len(stack)-1]
			stacks[open] = stack[:len(stack)-1]
			table[lhs] = int32(pos)
			table[pos] = lhs
			matched = true
			break
		}
		if !matched {
			return nil, ErrBadVienna
		}
	}

	for _, stack := range stacks {
		if len(stack) > 0 {
			return nil, ErrBadVienna
		}
	}
	return table, nil
}

// StemsFromPairTable gathers paired positions into stems, allowing up to
// maxUnpaired unpaired bases inside a half-stem before a new stem starts.
func StemsFromPairTable(pair []int32, maxUnpaired int32) StemList {
	maxGap := maxUnpaired + 1
	var stems StemList
	inStem := false

	for pos := int32(0); pos < int32(len(pair)); pos++ {
		if pair[pos] < pos {
			// unpaired, or the right half of a pair seen earlier
			continue
		}

		if inStem {
			st := &stems[len(stems)-1]
			lgap := pos - st.Lend - 1
			rgap := st.Rbegin - pair[pos] - 1
			// A negative rgap means the new pair closes outside this
			// stem's right half (a crossing), so it cannot stack here.
			if lgap < maxGap && rgap >= 0 && rgap < maxGap {
				st.Lend = pos
				st.Rbegin = pair[pos]
				continue
			}
		}

		stems = append(stems, Stem{
			Lbegin: pos,
			Lend:   pos,
			Rbegin: pair[pos],
			Rend:   pair[pos],
		})
		inStem = true
	}
	return stems
}

// StemsFromVienna parses a dot-bracket structure string into its stem list.
func StemsFromVienna(structure string, maxUnpaired int32) (StemList, error) {
	pair, err := PairTableFromVienna(structure)
	if err != nil {
		return nil, err
	}
	return StemsFromPairTable(pair, maxUnpaired), nil
}
