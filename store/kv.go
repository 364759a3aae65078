// Package store persists analysis results (disassembly listings and branch
// edges) in an on-disk key-value database, so a later run can reopen an
// image's analysis without re-decoding it.
package store

import (
	"errors"

	"github.com/cockroachdb/pebble"
)

// ErrNotFound means no record exists under the requested key.
var ErrNotFound = errors.New("record not found")

// KVStore is the key-value storage interface the analysis store writes
// through.
type KVStore interface {
	Put(key, value []byte) error
	Get(key []byte) ([]byte, error)
	NewIterator(start, end []byte) (Iterator, error)
	Close() error
}

// Iterator provides sequential access over a range of key-value pairs.
// Iterators must be closed after use.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Close() error
}

// pebbleKV implements KVStore on a pebble database.
type pebbleKV struct {
	db *pebble.DB
}

// OpenKV opens (or creates) a pebble-backed KVStore at path.
func OpenKV(path string) (KVStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &pebbleKV{db: db}, nil
}

func (p *pebbleKV) Put(key, value []byte) error {
	return p.db.Set(key, value, pebble.Sync)
}

func (p *pebbleKV) Get(key []byte) ([]byte, error) {
	value, closer, err := p.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, closer.Close()
}

func (p *pebbleKV) NewIterator(start, end []byte) (Iterator, error) {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: start,
		UpperBound: end,
	})
	if err != nil {
		return nil, err
	}
	return &pebbleIterator{iter: iter}, nil
}

func (p *pebbleKV) Close() error {
	return p.db.Close()
}

type pebbleIterator struct {
	iter    *pebble.Iterator
	started bool
}

func (it *pebbleIterator) Next() bool {
	if !it.started {
		it.started = true
		return it.iter.First()
	}
	return it.iter.Next()
}

func (it *pebbleIterator) Key() []byte   { return it.iter.Key() }
func (it *pebbleIterator) Value() []byte { return it.iter.Value() }
func (it *pebbleIterator) Close() error  { return it.iter.Close() }
