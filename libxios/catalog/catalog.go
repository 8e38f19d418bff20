package catalog

import (
	"runtime"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/xios-systems/goxios"
	"github.com/xios-systems/goxios/libxios"
)

/***

Catalog database format:

	gCatalogStateKey => catalogState

	[stemCount byte], asciiCode, NUL, NUL           => hex2 encoding
		[stemCount byte], asciiCode, NUL, 0x01, parentAsciiCode  => nil
		...
	...

Motif entries sort by (stemCount, asciiCode), so a range of stem counts is
a single contiguous scan.  The double NUL suffix marks a motif entry; the
NUL 0x01 infix marks a parent index entry nested under its child motif,
naming a cataloged motif obtainable from the child by removing one stem.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

const (
	catalogMajorVers = 2023
	catalogMinorVers = 1
)

// catalog is a db wrapper for a canonical motif catalog
type catalog struct {
	ctx        goxios.CatalogContext
	readOnly   bool
	stateDirty bool
	state      catalogState
	db         *badger.DB
}

func OpenCatalog(ctx goxios.CatalogContext, opts goxios.CatalogOpts) (goxios.Catalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // single writer, so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	var err error

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(goxios.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, we consider the catalog ctx blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = true
		cat.state.MajorVers = catalogMajorVers
		cat.state.MinorVers = catalogMinorVers
		cat.state.TrackParents = opts.TrackParents
		cat.state.NumMotifs = make([]uint64, goxios.MaxStems+1)
	}

	if err == nil {
		if cat.state.MajorVers != catalogMajorVers || cat.state.MinorVers != catalogMinorVers {
			err = errors.New("catalog version is incompatible")
		} else if opts.TrackParents && !cat.state.TrackParents {
			err = errors.New("catalog was not created with parent tracking")
		}
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *catalog) NumMotifs(forStemCount int32) int64 {
	if forStemCount == 0 {
		total := int64(0)
		for _, count := range cat.state.NumMotifs {
			total += int64(count)
		}
		return total
	}
	if forStemCount < 0 || int(forStemCount) >= len(cat.state.NumMotifs) {
		return 0
	}
	return int64(cat.state.NumMotifs[forStemCount])
}

func (cat *catalog) loadState() error {
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			item.Value(func(val []byte) error {
				return cat.state.Unmarshal(val)
			})
		}
		return err
	})
	return err
}

func (cat *catalog) flushState() {
	if cat.stateDirty && !cat.readOnly {
		err := cat.db.Update(func(txn *badger.Txn) error {
			return txn.Set(gCatalogStateKey, cat.state.Marshal())
		})
		if err != nil {
			panic(err)
		}
		cat.stateDirty = false
	}
}

func (cat *catalog) Close() error {
	cat.flushState()
	if cat.db != nil {
		cat.db.Close()
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		cat.ctx = nil
	}
	return nil
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

// formMotifKey appends the catalog key of the given canonical code.
func formMotifKey(key []byte, code goxios.DfsCode) []byte {
	key = append(key, byte(code.StemCount()))
	key = code.AppendAsciiTo(key)
	key = append(key, 0, 0)
	return key
}

// TryAddMotif adds the given canonical code if it isn't already present.
//
// If true is returned, the code was not present and was added.
func (cat *catalog) TryAddMotif(code goxios.DfsCode) bool {
	if cat.readOnly || len(code) == 0 {
		return false
	}
	stemCount := code.StemCount()
	if stemCount > goxios.MaxStems {
		return false
	}

	var keyBuf [256]byte
	motifKey := formMotifKey(keyBuf[:0], code)

	txn := cat.db.NewTransaction(true)
	defer txn.Discard()

	_, err := txn.Get(motifKey)
	if err == nil {
		return false
	} else if err != badger.ErrKeyNotFound {
		panic(err)
	}

	val, _ := code.AppendHex2To(nil)
	if err = txn.Set(motifKey, val); err != nil {
		panic(err)
	}

	if cat.state.TrackParents {
		cat.indexParents(txn, motifKey, code)
	}

	if err = txn.Commit(); err != nil {
		panic(err)
	}

	cat.state.NumMotifs[stemCount]++
	cat.stateDirty = true
	return true
}

// indexParents writes one index entry per distinct motif reachable from
// code by removing a single stem together with its edges.
func (cat *catalog) indexParents(txn *badger.Txn, motifKey []byte, code goxios.DfsCode) {
	for _, parent := range StemParents(code) {
		key := append([]byte{}, motifKey[:len(motifKey)-1]...) // keep trailing NUL
		key = append(key, 0x01)
		key = parent.AppendAsciiTo(key)
		if err := txn.Set(key, nil); err != nil {
			panic(err)
		}
	}
}

// StemParents returns the distinct canonical codes formed by deleting one
// stem from the given motif.  Components severed into single stems vanish;
// remaining connected components are each a parent.
func StemParents(code goxios.DfsCode) []goxios.DfsCode {
	X := libxios.NewXios(nil)
	defer X.Reclaim()
	sub := libxios.NewXios(nil)
	defer sub.Reclaim()

	if err := X.InitFromCode(code); err != nil {
		return nil
	}
	X.Normalize()
	stemCount := X.NumStems()

	seen := make(map[string]bool)
	var parents []goxios.DfsCode

	for drop := int32(0); drop < stemCount; drop++ {
		sub.Init(nil)
		for _, e := range X.Edges() {
			if e.V0 == drop || e.V1 == drop {
				continue
			}
			if err := sub.AddEdge(e); err != nil {
				return parents
			}
		}
		if sub.NumEdges() == 0 {
			continue
		}

		for _, component := range sub.Components() {
			pcode := libxios.MinDFSOf(component)
			component.Reclaim()
			key := pcode.Ascii()
			if !seen[key] {
				seen[key] = true
				parents = append(parents, pcode)
			}
		}
	}
	return parents
}

// Parents returns the cataloged single-stem-removal parents of code.
func (cat *catalog) Parents(code goxios.DfsCode) []goxios.DfsCode {
	var keyBuf [256]byte
	prefix := formMotifKey(keyBuf[:0], code)
	prefix[len(prefix)-1] = 0x01 // NUL, 0x01 marks the parent index range

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: false,
		Prefix:         prefix,
	})
	defer it.Close()

	var parents []goxios.DfsCode
	for it.Rewind(); it.Valid(); it.Next() {
		key := it.Item().Key()
		parent, err := goxios.ParseAscii(string(key[len(prefix):]))
		if err != nil {
			continue
		}
		parents = append(parents, parent)
	}
	return parents
}

// Select sends every cataloged code within the selector's stem count range
// to onHit, in ascending (stemCount, code) order.
func (cat *catalog) Select(sel goxios.MotifSelector, onHit goxios.OnMotifHit) {
	minStems := sel.MinStems
	if minStems < 1 {
		minStems = 1
	}
	minKey := [1]byte{byte(minStems)}

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: false,
	})
	defer it.Close()

	for it.Seek(minKey[:]); it.Valid(); it.Next() {
		curKey := it.Item().Key()

		// Stop when the stem count is over the max
		if int32(curKey[0]) > sel.MaxStems {
			break
		}

		n := len(curKey)
		if n < 3 || curKey[n-2] != 0 || curKey[n-1] != 0 {
			// parent index entry
			continue
		}

		code, err := goxios.ParseAscii(string(curKey[1 : n-2]))
		if err != nil {
			panic(err)
		}
		onHit <- code
	}
}
