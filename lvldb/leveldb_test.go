// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-staking/kv"
)

func TestLevelDBPersistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.db")

	db, err := New(path, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("foo"), []byte("bar")))
	require.NoError(t, db.Close())

	db, err = New(path, Options{CacheSize: 64, OpenFilesCacheCapacity: 32})
	require.NoError(t, err)
	defer db.Close()

	v, err := db.Get([]byte("foo"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("bar"), v)
}

func TestLevelDBBatchAndIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	for _, k := range []string{"a1", "a2", "b1"} {
		assert.NoError(t, batch.Put([]byte(k), []byte(k)))
	}
	assert.Equal(t, 3, batch.Len())
	assert.NoError(t, batch.Write())

	it := db.Iterate(kv.Range{Start: []byte("a"), Limit: []byte("b")})
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.Equal(t, []string{"a1", "a2"}, keys)

	assert.NoError(t, db.Delete([]byte("a1")))
	_, err = db.Get([]byte("a1"))
	assert.True(t, db.IsNotFound(err))
	has, err := db.Has([]byte("a2"))
	assert.NoError(t, err)
	assert.True(t, has)
}
