// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package merkle implements the air-drop commitment: leaf encoding, proof verification and an
// off-chain tree builder. Leaves and inner nodes use different prefixes, and the two children of a
// node are hashed in ascending order, so a proof carries no left/right flags.
package merkle

import (
	"bytes"
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/thor"
)

const (
	leafPrefix = byte(0x00)
	nodePrefix = byte(0x01)
)

// ErrAmountRange is returned when an amount does not fit the 256-bit leaf field.
var ErrAmountRange = errors.New("merkle: amount out of range")

// LeafHash returns keccak256(0x00 || account || uint256(amount) || uint64(index)).
func LeafHash(account thor.Address, amount *big.Int, index uint64) (thor.Bytes32, error) {
	if amount.Sign() < 0 || amount.BitLen() > 256 {
		return thor.Bytes32{}, ErrAmountRange
	}
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], index)
	return thor.Keccak256(
		[]byte{leafPrefix},
		account.Bytes(),
		math.U256Bytes(new(big.Int).Set(amount)),
		idx[:],
	), nil
}

// NodeHash returns keccak256(0x01 || min(a,b) || max(a,b)).
func NodeHash(a, b thor.Bytes32) thor.Bytes32 {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return thor.Keccak256([]byte{nodePrefix}, a[:], b[:])
}

// Verify folds the proof over leaf and compares the result with root.
// It performs exactly depth hash operations, and fails when the proof length differs from depth
// or index does not address a leaf of a tree of that depth.
func Verify(root thor.Bytes32, depth uint8, index uint64, leaf thor.Bytes32, proof []thor.Bytes32) bool {
	if depth == 0 || depth > thor.MaxDropDepth || len(proof) != int(depth) {
		return false
	}
	if depth < 64 && index >= uint64(1)<<depth {
		return false
	}
	node := leaf
	for _, sibling := range proof {
		node = NodeHash(node, sibling)
	}
	return node == root
}
