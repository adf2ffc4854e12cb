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

// Package overlaydb implements a content-addressed, reference-counted hash
// database with a write-deferring memory overlay on top of an embedded
// ordered key-value store. It is built for trie/DAG-style consumers (a
// Merkle-Patricia trie layer, for instance) that add immutable blobs keyed
// by their digest, share them across many logical references, and want
// those blobs freed only once the last reference drops.
//
// Three layers compose the public surface:
//
//   - BlobStore reads and writes encoded (refcount, payload) records to a
//     kv.Store, keyed by digest.
//   - memoryOverlay accumulates pending refcount deltas and payloads
//     in memory, relative to the current backing state.
//   - DB composes the two into a single HashDB-style contract: Insert,
//     Emplace, Kill, Lookup, Exists, Keys, Commit, Revert.
//
// DB is single-writer: all mutating operations must be serialized by the
// caller. Reads are safe to share concurrently with a reader that accesses
// the same backing kv.Store read-only, but this package does not itself
// coordinate multiple writers against one physical store.
package overlaydb
