package libxios

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/xios-systems/goxios"
)

// CodeSet accumulates canonical codes, reporting whether each was new.
type CodeSet interface {

	// TryAdd adds the given canonical code if it is not already present,
	// returning true if it was newly added.
	//
	// After one or more calls to TryAdd(), call Close() for cleanup.
	TryAdd(code goxios.DfsCode) bool

	// Close removes all previously added items from this set.
	Close()
}

func NewCodeSet() CodeSet {
	return &codeSet{}
}

type codeSet struct {
	lsmSet
}

func (cs *codeSet) TryAdd(code goxios.DfsCode) bool {
	var buf [192]byte
	key := code.AppendAsciiTo(buf[:0])
	return cs.tryAdd(key)
}

type lsmSet struct {
	db *badger.DB
}

func (set *lsmSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(err)
		}
	}
}

func (set *lsmSet) tryAdd(key []byte) bool {
	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Commit()

	added := false
	_, err := txn.Get(key)
	if err == nil {
		// no-op since the key is already in the db
	} else if err == badger.ErrKeyNotFound {
		err = txn.Set(key, nil)
		added = true
	}

	if err != nil {
		panic(err)
	}

	return added
}

func (set *lsmSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
}
