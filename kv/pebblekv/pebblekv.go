// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package pebblekv adapts a cockroachdb/pebble database to the kv.Store
// boundary used by overlaydb's BlobStore.
package pebblekv

import (
	"github.com/cockroachdb/pebble"

	"github.com/ginformancer/zigzag/kv"
)

// DB wraps a *pebble.DB to satisfy kv.Store.
type DB struct {
	db *pebble.DB
}

// Open opens (creating if necessary) a pebble database at dir.
func Open(dir string, opts *pebble.Options) (*DB, error) {
	pdb, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, err
	}
	return &DB{db: pdb}, nil
}

// Wrap adapts an already-open pebble database.
func Wrap(pdb *pebble.DB) *DB {
	return &DB{db: pdb}
}

// Close closes the underlying pebble database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Get implements kv.Store.
func (d *DB) Get(key []byte) ([]byte, bool, error) {
	val, closer, err := d.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	out := append([]byte(nil), val...)
	closer.Close()
	return out, true, nil
}

// Put implements kv.Store.
func (d *DB) Put(key, value []byte) error {
	return d.db.Set(key, value, pebble.Sync)
}

// Delete implements kv.Store.
func (d *DB) Delete(key []byte) error {
	return d.db.Delete(key, pebble.Sync)
}

// NewIterator implements kv.Store, streaming every key in ascending order.
func (d *DB) NewIterator() kv.Iterator {
	iter, err := d.db.NewIter(nil)
	if err != nil {
		return &errIterator{err: err}
	}
	return &iterator{iter: iter, started: false}
}

// iterator adapts *pebble.Iterator to kv.Iterator.
type iterator struct {
	iter    *pebble.Iterator
	started bool
}

func (it *iterator) Next() bool {
	if !it.started {
		it.started = true
		return it.iter.First()
	}
	return it.iter.Next()
}

func (it *iterator) Key() []byte   { return it.iter.Key() }
func (it *iterator) Value() []byte { return it.iter.Value() }
func (it *iterator) Error() error  { return it.iter.Error() }
func (it *iterator) Close() error  { return it.iter.Close() }

// errIterator is returned when pebble fails to construct an iterator; it
// reports the error on the first Error() call instead of panicking.
type errIterator struct{ err error }

func (errIterator) Next() bool     { return false }
func (errIterator) Key() []byte    { return nil }
func (errIterator) Value() []byte  { return nil }
func (e errIterator) Error() error { return e.err }
func (errIterator) Close() error   { return nil }
