// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestKeccak256(t *testing.T) {
	data := [][]byte{[]byte("foo"), []byte("bar")}
	assert.Equal(t, Bytes32(crypto.Keccak256Hash(data...)), Keccak256(data...))

	// pooled hashers must be reset between uses
	assert.Equal(t, Keccak256([]byte("foo")), Keccak256([]byte("foo")))
}

func TestBlake2b(t *testing.T) {
	single := Blake2b([]byte("foobar"))
	multi := Blake2b([]byte("foo"), []byte("bar"))
	assert.Equal(t, single, multi)
	assert.NotEqual(t, Blake2b([]byte("foo")), multi)
}
