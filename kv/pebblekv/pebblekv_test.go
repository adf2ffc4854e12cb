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

package pebblekv

import (
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	pdb, err := pebble.Open("test", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	db := Wrap(pdb)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDBGetPutDelete(t *testing.T) {
	db := openTest(t)

	_, ok, err := db.Get([]byte("a"))
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, db.Put([]byte("a"), []byte("1")))
	v, ok, err := db.Get([]byte("a"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", string(v))

	require.NoError(t, db.Delete([]byte("a")))
	_, ok, err = db.Get([]byte("a"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDBIteratorOrder(t *testing.T) {
	db := openTest(t)
	require.NoError(t, db.Put([]byte("c"), []byte("3")))
	require.NoError(t, db.Put([]byte("a"), []byte("1")))
	require.NoError(t, db.Put([]byte("b"), []byte("2")))

	it := db.NewIterator()
	defer it.Close()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Error())
	require.Equal(t, []string{"a", "b", "c"}, keys)
}
