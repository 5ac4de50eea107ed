// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package merkle

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-staking/thor"
)

func buildTree(t *testing.T, n int) (*Tree, []thor.Address, []*big.Int) {
	accounts := make([]thor.Address, n)
	amounts := make([]*big.Int, n)
	leaves := make([]thor.Bytes32, n)
	for i := range n {
		accounts[i] = thor.BytesToAddress([]byte{byte(i + 1)})
		amounts[i] = big.NewInt(int64(100 * (i + 1)))
		leaf, err := LeafHash(accounts[i], amounts[i], uint64(i))
		require.NoError(t, err)
		leaves[i] = leaf
	}
	tree, err := NewTree(leaves)
	require.NoError(t, err)
	return tree, accounts, amounts
}

func TestLeafHashEncoding(t *testing.T) {
	account := thor.BytesToAddress([]byte("alice"))
	leaf, err := LeafHash(account, big.NewInt(500), 3)
	require.NoError(t, err)

	var buf []byte
	buf = append(buf, 0x00)
	buf = append(buf, account.Bytes()...)
	amount := make([]byte, 32)
	amount[30], amount[31] = 0x01, 0xf4
	buf = append(buf, amount...)
	buf = append(buf, 0, 0, 0, 0, 0, 0, 0, 3)
	assert.Equal(t, thor.Bytes32(crypto.Keccak256Hash(buf)), leaf)

	_, err = LeafHash(account, big.NewInt(-1), 0)
	assert.ErrorIs(t, err, ErrAmountRange)
	_, err = LeafHash(account, new(big.Int).Lsh(big.NewInt(1), 256), 0)
	assert.ErrorIs(t, err, ErrAmountRange)
}

func TestNodeHashIsOrderIndependent(t *testing.T) {
	a := thor.Blake2b([]byte("a"))
	b := thor.Blake2b([]byte("b"))
	assert.Equal(t, NodeHash(a, b), NodeHash(b, a))
	assert.NotEqual(t, NodeHash(a, b), NodeHash(a, a))
}

func TestTreeProofs(t *testing.T) {
	tests := []struct {
		leaves int
		depth  uint8
	}{
		{1, 1},
		{2, 1},
		{3, 2},
		{16, 4},
		{17, 5},
	}
	for _, tt := range tests {
		tree, accounts, amounts := buildTree(t, tt.leaves)
		assert.Equal(t, tt.depth, tree.Depth())

		for i := range tt.leaves {
			proof, err := tree.Proof(uint64(i))
			require.NoError(t, err)
			assert.Len(t, proof, int(tt.depth))

			leaf, _ := LeafHash(accounts[i], amounts[i], uint64(i))
			assert.True(t, Verify(tree.Root(), tree.Depth(), uint64(i), leaf, proof), "leaf %d of %d", i, tt.leaves)
		}
	}
}

func TestVerifyRejects(t *testing.T) {
	tree, accounts, amounts := buildTree(t, 16)
	proof, err := tree.Proof(5)
	require.NoError(t, err)
	leaf, _ := LeafHash(accounts[5], amounts[5], 5)

	// wrong amount
	other, _ := LeafHash(accounts[5], big.NewInt(1), 5)
	assert.False(t, Verify(tree.Root(), 4, 5, other, proof))
	// wrong claimer
	other, _ = LeafHash(accounts[6], amounts[5], 5)
	assert.False(t, Verify(tree.Root(), 4, 5, other, proof))
	// short and long proofs
	assert.False(t, Verify(tree.Root(), 4, 5, leaf, proof[:3]))
	assert.False(t, Verify(tree.Root(), 4, 5, leaf, append(proof, thor.Bytes32{})))
	// index beyond the tree
	assert.False(t, Verify(tree.Root(), 4, 16, leaf, proof))
	// depth bounds
	assert.False(t, Verify(tree.Root(), 0, 0, leaf, nil))

	_, err = tree.Proof(16)
	assert.Error(t, err)

	_, err = NewTree(nil)
	assert.Error(t, err)
}

func TestVerifySingleByteMutations(t *testing.T) {
	tree, accounts, amounts := buildTree(t, 16)
	proof, err := tree.Proof(9)
	require.NoError(t, err)
	leaf, _ := LeafHash(accounts[9], amounts[9], 9)
	require.True(t, Verify(tree.Root(), 4, 9, leaf, proof))

	for i := range proof {
		for j := range 32 {
			mutated := append([]thor.Bytes32(nil), proof...)
			mutated[i][j] ^= 0x01
			assert.False(t, Verify(tree.Root(), 4, 9, leaf, mutated), "proof[%d][%d]", i, j)
		}
	}
}
