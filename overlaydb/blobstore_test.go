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
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/ginformancer/zigzag/kv/memkv"
)

func TestBlobStoreRoundTrip(t *testing.T) {
	bs := newBlobStore(memkv.New())
	h := crypto.Keccak256Hash([]byte("payload"))

	_, _, ok := bs.getRecord(h)
	require.False(t, ok)

	bs.putRecord(h, []byte("payload"), 3)
	payload, rc, ok := bs.getRecord(h)
	require.True(t, ok)
	require.Equal(t, uint32(3), rc)
	require.Equal(t, "payload", string(payload))
}

func TestBlobStoreDelete(t *testing.T) {
	bs := newBlobStore(memkv.New())
	h := crypto.Keccak256Hash([]byte("payload"))
	bs.putRecord(h, []byte("payload"), 1)

	bs.deleteRecord(h)
	_, _, ok := bs.getRecord(h)
	require.False(t, ok)
}

func TestBlobStoreIterAll(t *testing.T) {
	bs := newBlobStore(memkv.New())
	h1 := crypto.Keccak256Hash([]byte("a"))
	h2 := crypto.Keccak256Hash([]byte("b"))
	bs.putRecord(h1, []byte("a"), 1)
	bs.putRecord(h2, []byte("b"), 2)

	seen := make(map[common.Hash]uint32)
	bs.iterAll(func(hash common.Hash, rc uint32) {
		seen[hash] = rc
	})
	require.Equal(t, map[common.Hash]uint32{
		h1: 1,
		h2: 2,
	}, seen)
}
