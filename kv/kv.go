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

// Package kv defines the narrow embedded key-value store boundary that
// overlaydb programs against. The store itself (pebble, an in-memory map,
// or anything else bit-compatible with this interface) is an external
// collaborator, not something this module implements.
package kv

import "io"

// Store is the synchronous, blocking contract an embedded ordered
// key-value engine must satisfy. Get and Put never block on anything but
// disk I/O; there is no transaction or batching concept exposed here
// because BlobStore only ever needs point reads/writes and a full scan.
type Store interface {
	// Get returns the value stored under key, or ok == false if the key
	// is absent. A non-nil error indicates a fatal I/O failure.
	Get(key []byte) (value []byte, ok bool, err error)

	// Put writes value under key, overwriting any previous value.
	Put(key []byte, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key []byte) error

	// NewIterator returns a fresh iterator walking every key in the store
	// in ascending order. Each call starts a new, independent traversal;
	// the returned Iterator is not restartable once exhausted or closed.
	NewIterator() Iterator
}

// Iterator walks a Store's keys in ascending order. Callers must call
// Close when done, even after an error.
type Iterator interface {
	// Next advances the iterator and reports whether a new entry is
	// available. It returns false both at end-of-sequence and on error;
	// callers must check Error after a false return.
	Next() bool

	// Key returns the current entry's key. Only valid after a Next call
	// that returned true; the backing bytes may be reused by the next
	// Next call, so callers that retain it must copy.
	Key() []byte

	// Value returns the current entry's value, with the same lifetime
	// caveat as Key.
	Value() []byte

	// Error returns the first error encountered during iteration, if any.
	Error() error

	io.Closer
}
