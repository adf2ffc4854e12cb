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
	"github.com/ethereum/go-ethereum/log"

	"github.com/ginformancer/zigzag/internal/auditlog"
	"github.com/ginformancer/zigzag/kv"
	"github.com/ginformancer/zigzag/kv/memkv"
)

// DB composes a memoryOverlay with a BlobStore to present a unified
// content-addressed, reference-counted hash store. All mutating methods
// (Insert, Emplace, Kill) touch only the in-memory overlay; Lookup and
// Exists fuse the overlay with the backing store; Commit drains the
// overlay into the backing store, and Revert discards it.
//
// DB is not safe for concurrent writers: all mutating calls must be
// serialized by the caller (see package docs). Multiple DB instances may
// share a kv.Store for read-only access as long as only one of them is
// ever mutated and committed at a time.
type DB struct {
	overlay *memoryOverlay
	backing *BlobStore

	audit *auditlog.Writer // optional; nil unless WithAuditLog was used
}

// New returns a DB backed by db. The overlay starts empty.
func New(db kv.Store) *DB {
	return &DB{
		overlay: newMemoryOverlay(),
		backing: newBlobStore(db),
	}
}

// NewMem returns a DB backed by a fresh in-memory kv/memkv store, the
// stand-in this module uses for the original source's temp-directory
// RocksDB constructor (OverlayDB::new_temp). It is for tests and quick
// experimentation only; nothing written to it is durable.
func NewMem() *DB {
	return New(memkv.New())
}

// WithAuditLog attaches an asynchronous rotating file writer that records
// one line per Commit/Revert call. It is an operational convenience, not
// part of the HashDB contract, and has no effect on query semantics.
func (db *DB) WithAuditLog(w *auditlog.Writer) *DB {
	db.audit = w
	return db
}

// Insert computes the digest of value, stages +1 to its overlay delta, and
// returns the digest (I4).
func (db *DB) Insert(value []byte) common.Hash {
	return db.overlay.insert(value)
}

// Emplace stages +1 to hash's overlay delta using a caller-supplied
// digest, avoiding a re-hash when the caller already knows it. The
// contract trusts that hash == digest(value); see debugassert.go.
func (db *DB) Emplace(hash common.Hash, value []byte) {
	db.overlay.emplace(hash, value)
}

// Kill stages -1 to hash's overlay delta (I5). No payload lookup is
// required.
func (db *DB) Kill(hash common.Hash) {
	db.overlay.kill(hash)
}

// Lookup returns the payload for hash if its effective refcount
// (backing + overlay delta) is strictly positive, per §4.3:
//
//  1. If the overlay already has a positive-delta entry, return its
//     payload directly.
//  2. Otherwise consult the backing store. If present with a total
//     (backing rc + overlay delta) that is positive, denote the payload
//     into the overlay (for a stable returned lifetime) and return it.
//  3. Otherwise return ok == false.
func (db *DB) Lookup(hash common.Hash) (value []byte, ok bool) {
	entry := db.overlay.raw(hash)
	if entry != nil && entry.delta > 0 {
		return entry.payload, true
	}

	memDelta := int64(0)
	if entry != nil {
		memDelta = entry.delta
	}
	payload, backRC, found := db.backing.getRecord(hash)
	if !found {
		return nil, false
	}
	if int64(backRC)+memDelta > 0 {
		return db.overlay.denote(hash, payload), true
	}
	return nil, false
}

// Exists reports whether hash's effective refcount is strictly positive.
// Unlike Lookup it never denotes a payload into the overlay (§4.3: "it
// MUST NOT denote").
func (db *DB) Exists(hash common.Hash) bool {
	entry := db.overlay.raw(hash)
	if entry != nil && entry.delta > 0 {
		return true
	}

	memDelta := int64(0)
	if entry != nil {
		memDelta = entry.delta
	}
	_, backRC, found := db.backing.getRecord(hash)
	if !found {
		return false
	}
	return int64(backRC)+memDelta > 0
}

// Keys returns the effective refcount of every digest known to either the
// backing store or the overlay. Effective refcounts may be zero or
// negative; this is diagnostic surface for GC analysis, not a liveness
// check (§4.3, §9).
func (db *DB) Keys() map[common.Hash]int64 {
	ret := make(map[common.Hash]int64)
	db.backing.iterAll(func(hash common.Hash, rc uint32) {
		ret[hash] = int64(rc)
	})
	for hash, delta := range db.overlay.keys() {
		ret[hash] += delta
	}
	return ret
}

// Commit drains the overlay into the backing store and returns the number
// of backing records touched (written or removed) — the count of drained
// entries with nonzero delta, matching the original source's definition.
//
// For each nonzero-delta entry:
//
//   - If the backing record exists, total = backing rc + delta (signed).
//     total < 0 fails the whole commit with NegativelyReferencedHashError;
//     total == 0 removes the backing record (P4); total > 0 rewrites it
//     with rc = total and the existing payload.
//   - If the backing record is absent: delta < 0 fails with
//     NegativelyReferencedHashError; delta > 0 writes a new record with
//     the overlay's payload and rc = delta.
//
// On a NegativelyReferencedHashError, writes already applied earlier in
// this drain are not rolled back (see the commit design note in DESIGN.md);
// the caller should discard this DB and treat the backing store as
// indeterminate.
func (db *DB) Commit() (int, error) {
	touched := 0
	var failure error

	db.overlay.drain(func(hash common.Hash, payload []byte, delta int64) {
		if failure != nil || delta == 0 {
			return
		}
		backPayload, backRC, found := db.backing.getRecord(hash)
		if found {
			total := int64(backRC) + delta
			switch {
			case total < 0:
				failure = &NegativelyReferencedHashError{Hash: hash, BackRC: int64(backRC), Delta: delta}
				return
			case total == 0:
				db.backing.deleteRecord(hash)
			default:
				// The backing store's own payload is authoritative here,
				// mirroring the original source: content is identity-addressed,
				// so it is equal to the overlay's by construction whenever both
				// are present, but the backing copy is what must survive when
				// the overlay's entry is payload-less (kill-only).
				db.backing.putRecord(hash, backPayload, uint32(total))
			}
		} else {
			if delta < 0 {
				failure = &NegativelyReferencedHashError{Hash: hash, BackRC: 0, Delta: delta}
				return
			}
			// delta == 0 is filtered above; delta > 0 here always.
			if len(payload) == 0 {
				log.Crit("overlaydb: positive delta with no payload", "hash", hash, "delta", delta)
			}
			db.backing.putRecord(hash, payload, uint32(delta))
		}
		touched++
	})

	if failure != nil {
		touched = 0 // commit() is "integer | error", not both; see spec.md §4.3
	}
	if db.audit != nil {
		db.audit.Write(auditlog.Line("commit", touched, failure))
	}
	return touched, failure
}

// Revert discards every pending overlay mutation since the last Commit (or
// since construction). The backing store is untouched (I6).
func (db *DB) Revert() {
	touched := len(db.overlay.keys())
	db.overlay.clear()
	if db.audit != nil {
		db.audit.Write(auditlog.Line("revert", touched, nil))
	}
}
