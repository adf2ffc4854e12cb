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

// Package memkv is an in-memory kv.Store, the stand-in this module uses for
// the Rust original's temp-directory-backed RocksDB test fixture
// (OverlayDB::new_temp). It is not durable and exists only for tests and
// quick experimentation.
package memkv

import (
	"sort"
	"sync"

	"github.com/ginformancer/zigzag/kv"
)

// Store is a sorted, in-memory kv.Store guarded by a mutex.
type Store struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{m: make(map[string][]byte)}
}

// Get implements kv.Store.
func (s *Store) Get(key []byte) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[string(key)]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put implements kv.Store.
func (s *Store) Put(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[string(key)] = append([]byte(nil), value...)
	return nil
}

// Delete implements kv.Store.
func (s *Store) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, string(key))
	return nil
}

// NewIterator implements kv.Store. It snapshots the current key set in
// sorted order so that mutations during iteration (from a subsequent Put
// issued by the same goroutine, e.g. inside a BlobStore write-back loop)
// never affect an in-flight traversal.
func (s *Store) NewIterator() kv.Iterator {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]entry, len(keys))
	for i, k := range keys {
		entries[i] = entry{key: []byte(k), value: append([]byte(nil), s.m[k]...)}
	}
	return &iterator{entries: entries, pos: -1}
}

type entry struct {
	key, value []byte
}

type iterator struct {
	entries []entry
	pos     int
}

func (it *iterator) Next() bool {
	it.pos++
	return it.pos < len(it.entries)
}

func (it *iterator) Key() []byte   { return it.entries[it.pos].key }
func (it *iterator) Value() []byte { return it.entries[it.pos].value }
func (it *iterator) Error() error  { return nil }
func (it *iterator) Close() error  { return nil }
