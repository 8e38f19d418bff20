package libxios

import (
	"bytes"
	"fmt"
	"io"

	"github.com/emirpasic/gods/trees/redblacktree"

	"github.com/xios-systems/goxios"
)

// MotifDB is an in-memory ordered tally of canonical motif codes, used to
// build occurrence fingerprints of larger structures: sample or decompose a
// structure into motifs, Tally each, then Walk the counts in canonical
// order.
type MotifDB struct {
	byCode *redblacktree.Tree
	total  int64
}

// MotifEntry is one tallied motif.
type MotifEntry struct {
	Code  goxios.DfsCode
	Count int64
}

func NewMotifDB() *MotifDB {
	return &MotifDB{
		byCode: &redblacktree.Tree{
			Comparator: func(A, B interface{}) int {
				return bytes.Compare(A.([]byte), B.([]byte))
			},
		},
	}
}

// Tally counts one occurrence of the given motif, returning its new count.
func (db *MotifDB) Tally(code goxios.DfsCode) int64 {
	key := code.AppendAsciiTo(nil)
	db.total++

	if v, found := db.byCode.Get(key); found {
		entry := v.(*MotifEntry)
		entry.Count++
		return entry.Count
	}

	entry := &MotifEntry{
		Code:  append(goxios.DfsCode{}, code...),
		Count: 1,
	}
	db.byCode.Put(key, entry)
	return 1
}

// TryAddMotif lets a MotifDB terminate a stream: every code is tallied and
// first occurrences report true.
func (db *MotifDB) TryAddMotif(code goxios.DfsCode) bool {
	return db.Tally(code) == 1
}

func (db *MotifDB) Close() error {
	db.byCode.Clear()
	db.total = 0
	return nil
}

// NumMotifs returns the number of distinct motifs tallied.
func (db *MotifDB) NumMotifs() int {
	return db.byCode.Size()
}

// NumTallied returns the total number of occurrences tallied.
func (db *MotifDB) NumTallied() int64 {
	return db.total
}

// Count returns the tallied count of the given motif.
func (db *MotifDB) Count(code goxios.DfsCode) int64 {
	key := code.AppendAsciiTo(nil)
	if v, found := db.byCode.Get(key); found {
		return v.(*MotifEntry).Count
	}
	return 0
}

// Walk visits every entry in ascending canonical code order until fn
// returns false.
func (db *MotifDB) Walk(fn func(entry *MotifEntry) bool) {
	itr := db.byCode.Iterator()
	for itr.Next() {
		if !fn(itr.Value().(*MotifEntry)) {
			break
		}
	}
}

// WriteCSV writes "code,count" lines in canonical order.
func (db *MotifDB) WriteCSV(out io.Writer) {
	db.Walk(func(entry *MotifEntry) bool {
		fmt.Fprintf(out, "%s,%d\n", entry.Code.Ascii(), entry.Count)
		return true
	})
}
