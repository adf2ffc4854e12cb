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

package overlaydb

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// overlayEntry is a pending in-memory refcount delta for one digest,
// optionally carrying the payload. Payload is empty when the entry only
// records kills against a digest that is (or might be) already present in
// the backing store.
type overlayEntry struct {
	payload []byte
	delta   int64
}

// memoryOverlay accumulates pending insertions and deletions relative to
// the current backing state. It has no knowledge of the backing store; it
// only tracks what has changed since the last commit or revert.
type memoryOverlay struct {
	entries map[common.Hash]*overlayEntry
}

// newMemoryOverlay returns an empty overlay.
func newMemoryOverlay() *memoryOverlay {
	return &memoryOverlay{entries: make(map[common.Hash]*overlayEntry)}
}

// raw peeks at the entry for hash without mutating the overlay.
func (m *memoryOverlay) raw(hash common.Hash) *overlayEntry {
	return m.entries[hash]
}

// insert computes the digest of payload and increments its delta,
// creating the entry if absent. It returns the digest.
func (m *memoryOverlay) insert(payload []byte) common.Hash {
	hash := crypto.Keccak256Hash(payload)
	m.emplace(hash, payload)
	return hash
}

// emplace increments the delta for a caller-supplied digest, filling in
// payload if the entry has none yet. The caller is trusted to have
// supplied the digest that actually hashes to payload; assertDigest
// checks this under debug builds (see debugassert.go).
func (m *memoryOverlay) emplace(hash common.Hash, payload []byte) {
	assertDigest(hash, payload)
	e, ok := m.entries[hash]
	if !ok {
		m.entries[hash] = &overlayEntry{payload: payload, delta: 1}
		return
	}
	e.delta++
	if len(e.payload) == 0 {
		e.payload = payload
	}
}

// kill decrements the delta for hash, creating a payload-less entry if
// absent. No payload lookup is required to kill a digest.
func (m *memoryOverlay) kill(hash common.Hash) {
	e, ok := m.entries[hash]
	if !ok {
		m.entries[hash] = &overlayEntry{delta: -1}
		return
	}
	e.delta--
}

// denote associates a backing-fetched payload with hash, either creating a
// zero-delta entry (if none existed) or filling in the payload of an
// existing payload-less entry. It never changes delta, and therefore never
// changes effective refcounts (§4.3's lookup step 2).
func (m *memoryOverlay) denote(hash common.Hash, payload []byte) []byte {
	e, ok := m.entries[hash]
	if !ok {
		e = &overlayEntry{payload: payload}
		m.entries[hash] = e
		return e.payload
	}
	if len(e.payload) == 0 {
		e.payload = payload
	}
	return e.payload
}

// clear removes every entry, discarding all pending deltas and payloads.
func (m *memoryOverlay) clear() {
	m.entries = make(map[common.Hash]*overlayEntry)
}

// drain yields every entry via fn and then empties the overlay. Iteration
// order is unspecified.
func (m *memoryOverlay) drain(fn func(hash common.Hash, payload []byte, delta int64)) {
	for hash, e := range m.entries {
		fn(hash, e.payload, e.delta)
	}
	m.clear()
}

// keys returns a snapshot of every entry's delta, keyed by digest.
func (m *memoryOverlay) keys() map[common.Hash]int64 {
	out := make(map[common.Hash]int64, len(m.entries))
	for hash, e := range m.entries {
		out[hash] = e.delta
	}
	return out
}
