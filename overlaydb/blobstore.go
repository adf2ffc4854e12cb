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
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ginformancer/zigzag/kv"
)

// backingRecord is the on-disk encoding of a blob: a two-element RLP list,
// refcount first, payload second. Any sibling reader using the same RLP
// scheme can decode a record written here, and vice versa.
type backingRecord struct {
	RC      uint32
	Payload []byte
}

// BlobStore is the thin boundary between encoded backing records and the
// embedded KV engine. It holds no state beyond the KV handle and never
// writes a record with RC == 0 (callers must delete instead, per I1).
type BlobStore struct {
	db kv.Store
}

// newBlobStore wraps a kv.Store.
func newBlobStore(db kv.Store) *BlobStore {
	return &BlobStore{db: db}
}

// getRecord fetches and decodes the record at hash, or ok == false if
// absent. Decode failures and KV I/O failures are both fatal: a corrupt or
// unreachable backing store cannot be reasoned about by the caller.
func (b *BlobStore) getRecord(hash common.Hash) (payload []byte, rc uint32, ok bool) {
	raw, found, err := b.db.Get(hash[:])
	if err != nil {
		log.Crit("overlaydb: backing store read failed", "hash", hash, "err", err)
	}
	if !found {
		return nil, 0, false
	}
	var rec backingRecord
	if err := rlp.DecodeBytes(raw, &rec); err != nil {
		log.Crit("overlaydb: corrupt backing record", "hash", hash, "err", err)
	}
	return rec.Payload, rec.RC, true
}

// putRecord encodes and writes a record. rc must be nonzero; a zero
// refcount record must never be written (I1) — remove it instead.
func (b *BlobStore) putRecord(hash common.Hash, payload []byte, rc uint32) {
	if rc == 0 {
		log.Crit("overlaydb: refusing to write zero-refcount record", "hash", hash)
	}
	enc, err := rlp.EncodeToBytes(&backingRecord{RC: rc, Payload: payload})
	if err != nil {
		log.Crit("overlaydb: failed to encode backing record", "hash", hash, "err", err)
	}
	if err := b.db.Put(hash[:], enc); err != nil {
		log.Crit("overlaydb: backing store write failed", "hash", hash, "err", err)
	}
}

// deleteRecord removes the record at hash, used when commit drives its
// refcount to exactly zero (P4).
func (b *BlobStore) deleteRecord(hash common.Hash) {
	if err := b.db.Delete(hash[:]); err != nil {
		log.Crit("overlaydb: backing store delete failed", "hash", hash, "err", err)
	}
}

// iterAll streams every (hash, rc) pair currently in the backing store, in
// key order. It decodes the full record but only reports the refcount to
// fn, discarding the payload, since Keys only needs counts. The traversal
// is finite and not restartable; calling iterAll again starts fresh.
func (b *BlobStore) iterAll(fn func(hash common.Hash, rc uint32)) {
	it := b.db.NewIterator()
	defer it.Close()

	for it.Next() {
		var rec backingRecord
		if err := rlp.DecodeBytes(it.Value(), &rec); err != nil {
			log.Crit("overlaydb: corrupt backing record during scan", "key", it.Key(), "err", err)
		}
		var hash common.Hash
		copy(hash[:], it.Key())
		fn(hash, rec.RC)
	}
	if err := it.Error(); err != nil {
		log.Crit("overlaydb: backing store iteration failed", "err", err)
	}
}
