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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// NegativelyReferencedHashError is returned by Commit when draining the
// overlay would drive some digest's backing refcount below zero. The
// commit is not rolled back; already-applied writes within the same drain
// stay applied and the caller should treat the backing store as
// indeterminate for this DB instance (see the docs on DB.Commit).
type NegativelyReferencedHashError struct {
	Hash   common.Hash
	BackRC int64 // refcount on record in the backing store prior to this commit (0 if absent)
	Delta  int64 // net overlay delta that was being applied
}

func (e *NegativelyReferencedHashError) Error() string {
	return fmt.Sprintf("overlaydb: negatively referenced hash %x (backing rc %d, delta %d)", e.Hash, e.BackRC, e.Delta)
}
