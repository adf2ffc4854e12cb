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

//go:build overlaydb.debug

package overlaydb

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// assertDigest panics if hash does not actually match payload. It is
// compiled in only under the overlaydb.debug build tag, per §4.2's design
// note that emplace's contract does not require verifying the caller's
// claim but an implementation MAY assert it in debug builds.
func assertDigest(hash common.Hash, payload []byte) {
	if len(payload) == 0 {
		return // kill-only / payload-less entries never carry a claim to check
	}
	if got := crypto.Keccak256Hash(payload); got != hash {
		panic(fmt.Sprintf("overlaydb: emplace digest mismatch: claimed %x, computed %x", hash, got))
	}
}
