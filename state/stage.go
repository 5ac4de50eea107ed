// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/kv"
)

// Stage abstracts pending storage changes.
type Stage struct {
	store   kv.Store
	cache   *Cache
	changes map[storageKey]rlp.RawValue
	order   []storageKey
}

// Len returns the number of slots changed.
func (s *Stage) Len() int {
	return len(s.order)
}

// Commit writes all changes into the kv store atomically.
func (s *Stage) Commit() error {
	if len(s.order) == 0 {
		return nil
	}

	batch := s.store.NewBatch()
	for _, key := range s.order {
		raw := s.changes[key]
		var err error
		if len(raw) == 0 {
			err = batch.Delete(key.bytes())
		} else {
			err = batch.Put(key.bytes(), raw)
		}
		if err != nil {
			return errors.Wrap(err, "stage storage")
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit storage")
	}

	if s.cache != nil {
		for _, key := range s.order {
			s.cache.add(key.bytes(), s.changes[key])
		}
	}
	metricStorageWrites().Add(int64(len(s.order)))
	return nil
}
