// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	lru "github.com/hashicorp/golang-lru"
)

// Cache is a read cache of committed slots, shared by all State instances over the same store.
type Cache struct {
	lru *lru.Cache
}

// NewCache creates a cache holding at most size slots.
func NewCache(size int) *Cache {
	c, err := lru.New(size)
	if err != nil {
		panic(err)
	}
	return &Cache{c}
}

func (c *Cache) get(key []byte) ([]byte, bool) {
	v, ok := c.lru.Get(string(key))
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (c *Cache) add(key []byte, raw []byte) {
	c.lru.Add(string(key), raw)
}

// Len returns the number of cached slots.
func (c *Cache) Len() int {
	return c.lru.Len()
}
