// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package merkle

import (
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/thor"
)

// Tree is a complete binary tree over a list of leaves. Missing leaves are zero hashes.
type Tree struct {
	levels [][]thor.Bytes32 // levels[0] holds the padded leaves, the last level the root
}

// NewTree builds the smallest tree holding all leaves, at least one level deep.
func NewTree(leaves []thor.Bytes32) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, errors.New("merkle: no leaves")
	}
	depth := 1
	for (1 << depth) < len(leaves) {
		depth++
	}
	if depth > thor.MaxDropDepth {
		return nil, errors.Errorf("merkle: %d leaves exceed max depth %d", len(leaves), thor.MaxDropDepth)
	}

	level := make([]thor.Bytes32, 1<<depth)
	copy(level, leaves)

	levels := [][]thor.Bytes32{level}
	for len(level) > 1 {
		next := make([]thor.Bytes32, len(level)/2)
		for i := range next {
			next[i] = NodeHash(level[2*i], level[2*i+1])
		}
		levels = append(levels, next)
		level = next
	}
	return &Tree{levels: levels}, nil
}

func (t *Tree) Root() thor.Bytes32 {
	return t.levels[len(t.levels)-1][0]
}

func (t *Tree) Depth() uint8 {
	return uint8(len(t.levels) - 1)
}

// Proof returns the sibling path of the leaf at index, bottom-up.
func (t *Tree) Proof(index uint64) ([]thor.Bytes32, error) {
	if index >= uint64(len(t.levels[0])) {
		return nil, errors.Errorf("merkle: leaf index %d out of range", index)
	}
	proof := make([]thor.Bytes32, 0, t.Depth())
	for _, level := range t.levels[:len(t.levels)-1] {
		proof = append(proof, level[index^1])
		index >>= 1
	}
	return proof, nil
}
