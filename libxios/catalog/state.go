package catalog

import (
	"encoding/binary"

	"github.com/xios-systems/goxios"
)

// catalogState is the persisted header of a catalog db: format version,
// option flags, and per-stem-count motif tallies.
type catalogState struct {
	MajorVers    uint32
	MinorVers    uint32
	TrackParents bool
	NumMotifs    []uint64 // indexed by stem count
}

func (state *catalogState) Marshal() []byte {
	var scrap [binary.MaxVarintLen64]byte

	buf := make([]byte, 0, 16+2*len(state.NumMotifs))
	appendUvarint := func(v uint64) {
		n := binary.PutUvarint(scrap[:], v)
		buf = append(buf, scrap[:n]...)
	}

	appendUvarint(uint64(state.MajorVers))
	appendUvarint(uint64(state.MinorVers))
	if state.TrackParents {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	appendUvarint(uint64(len(state.NumMotifs)))
	for _, count := range state.NumMotifs {
		appendUvarint(count)
	}
	return buf
}

func (state *catalogState) Unmarshal(buf []byte) error {
	readUvarint := func() (uint64, bool) {
		v, n := binary.Uvarint(buf)
		if n <= 0 {
			return 0, false
		}
		buf = buf[n:]
		return v, true
	}

	major, ok := readUvarint()
	if !ok {
		return goxios.ErrBadEncoding
	}
	minor, ok := readUvarint()
	if !ok {
		return goxios.ErrBadEncoding
	}
	if len(buf) == 0 {
		return goxios.ErrBadEncoding
	}
	state.TrackParents = buf[0] != 0
	buf = buf[1:]

	numCounts, ok := readUvarint()
	if !ok || numCounts > goxios.MaxStems+1 {
		return goxios.ErrBadEncoding
	}

	state.MajorVers = uint32(major)
	state.MinorVers = uint32(minor)
	state.NumMotifs = make([]uint64, numCounts)
	for i := range state.NumMotifs {
		count, ok := readUvarint()
		if !ok {
			return goxios.ErrBadEncoding
		}
		state.NumMotifs[i] = count
	}
	return nil
}
