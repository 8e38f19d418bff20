package libxios

import (
	"bytes"
	"hash/maphash"

	"github.com/xios-systems/goxios"
)

// dropDupes is an in-memory MotifAdder that admits each canonical code
// once, keyed by its ascii form in an open-addressed hash map.
type dropDupes struct {
	hashMap   map[uint64][]byte
	hasher    maphash.Hash
	bufPool   []byte
	bufPoolSz int
	opts      DropDupeOpts
}

const DefaultPoolSz = 32 * 1024

type DropDupeOpts struct {
	PoolSz int // 0 denotes DefaultPoolSz (32k)
}

func NewDropDupes(opts DropDupeOpts) MotifAdder {
	if opts.PoolSz <= 0 {
		opts.PoolSz = DefaultPoolSz
	}
	return &dropDupes{
		hashMap: make(map[uint64][]byte),
		opts:    opts,
	}
}

func (dupes *dropDupes) Reset() {
	dupes.bufPoolSz = 0
	for k := range dupes.hashMap {
		delete(dupes.hashMap, k)
	}
}

func (dupes *dropDupes) Close() error {
	dupes.Reset()
	dupes.hashMap = nil
	return nil
}

func (dupes *dropDupes) TryAddMotif(code goxios.DfsCode) bool {
	var keyBuf [512]byte
	key := code.AppendAsciiTo(keyBuf[:0])

	dupes.hasher.Reset()
	dupes.hasher.Write(key)
	hash := dupes.hasher.Sum64()

	existing, found := dupes.hashMap[hash]
	for found {
		if bytes.Equal(existing, key) {
			return false
		}
		hash++
		existing, found = dupes.hashMap[hash]
	}

	// New entry: place a copy of the key in the backing pool, starting a
	// fresh pool when the current one runs out.
	pos := dupes.bufPoolSz
	itemLen := len(key)
	if pos+itemLen > cap(dupes.bufPool) {
		allocSz := dupes.opts.PoolSz
		if itemLen > allocSz {
			allocSz = itemLen
		}
		dupes.bufPool = make([]byte, allocSz)
		dupes.bufPoolSz = 0
		pos = 0
	}

	dupes.hashMap[hash] = append(dupes.bufPool[pos:pos], key...)
	dupes.bufPoolSz += itemLen
	return true
}

// DropDupes filters the stream so each distinct motif passes through once.
func (stream *MotifStream) DropDupes() *MotifStream {
	next := &MotifStream{
		Outlet: make(chan *Xios, 1),
	}

	dupes := NewDropDupes(DropDupeOpts{})

	go func() {
		for X := range stream.Outlet {
			if dupes.TryAddMotif(MinDFSOf(X)) {
				next.Outlet <- X
			} else {
				X.Reclaim()
			}
		}
		dupes.Close()
		next.Close()
	}()

	return next
}
