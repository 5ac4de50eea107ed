// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/builtin/solidity"
	"github.com/vechain/thor-staking/thor"
)

var (
	slotLastID  = thor.BytesToBytes32([]byte("last-stake-id"))
	slotRecords = thor.BytesToBytes32([]byte("stakes"))
	slotOwners  = thor.BytesToBytes32([]byte("owner-stakes"))
	slotLocked  = thor.BytesToBytes32([]byte("total-locked"))
	slotBonus   = thor.BytesToBytes32([]byte("total-bonus"))
	slotPaid    = thor.BytesToBytes32([]byte("total-paid"))
)

// Service is the arena of stake records, addressed by ids allocated from 1 upwards,
// plus a per-owner doubly linked list of open records.
type Service struct {
	lastID  *solidity.Uint256
	records *solidity.Mapping[*big.Int, *Stake]
	owners  *solidity.Mapping[thor.Address, *ownerList]

	locked *solidity.Uint256
	bonus  *solidity.Uint256
	paid   *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		lastID:  solidity.NewUint256(sctx, slotLastID),
		records: solidity.NewMapping[*big.Int, *Stake](sctx, slotRecords),
		owners:  solidity.NewMapping[thor.Address, *ownerList](sctx, slotOwners),
		locked:  solidity.NewUint256(sctx, slotLocked),
		bonus:   solidity.NewUint256(sctx, slotBonus),
		paid:    solidity.NewUint256(sctx, slotPaid),
	}
}

// Open allocates a record and links it at the tail of the owner's list.
func (s *Service) Open(owner thor.Address, amount *big.Int, start uint64, tier uint32, bonus bool) (*big.Int, error) {
	id, err := s.lastID.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get last stake id")
	}
	id.Add(id, big.NewInt(1))
	s.lastID.Set(id)

	list, err := s.owners.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get owner stakes")
	}

	record := &Stake{
		Owner:  owner,
		Amount: new(big.Int).Set(amount),
		Start:  start,
		Tier:   tier,
		Bonus:  bonus,
	}
	if isNone(list.Tail) {
		list.Head = id
	} else {
		record.Prev = list.Tail
		tail, err := s.records.Get(list.Tail)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get tail stake")
		}
		tail.Next = id
		if err := s.records.Set(list.Tail, tail); err != nil {
			return nil, err
		}
	}
	list.Tail = id
	list.Count++

	if err := s.records.Set(id, record); err != nil {
		return nil, err
	}
	if err := s.owners.Set(owner, list); err != nil {
		return nil, err
	}

	if bonus {
		err = s.bonus.Add(amount)
	} else {
		err = s.locked.Add(amount)
	}
	if err != nil {
		return nil, err
	}
	return id, nil
}

// Get returns the record of id, ErrNotFound if id was never allocated.
func (s *Service) Get(id *big.Int) (*Stake, error) {
	lastID, err := s.lastID.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get last stake id")
	}
	if id == nil || id.Sign() <= 0 || id.Cmp(lastID) > 0 {
		return nil, reverts.ErrNotFound
	}
	record, err := s.records.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake")
	}
	return record, nil
}

// Close marks an open record withdrawn with payout, unlinks it from its owner and updates totals.
func (s *Service) Close(id *big.Int, record *Stake, payout *big.Int) error {
	if record.Closed {
		return reverts.ErrAlreadyWithdrawn
	}
	if err := s.unlink(record); err != nil {
		return err
	}

	record.Closed = true
	record.Prev = nil
	record.Next = nil
	record.Payout = new(big.Int).Set(payout)
	if err := s.records.Set(id, record); err != nil {
		return err
	}

	var err error
	if record.Bonus {
		err = s.bonus.Sub(record.Amount)
	} else {
		err = s.locked.Sub(record.Amount)
	}
	if err != nil {
		return err
	}
	return s.paid.Add(payout)
}

func (s *Service) unlink(record *Stake) error {
	list, err := s.owners.Get(record.Owner)
	if err != nil {
		return errors.Wrap(err, "failed to get owner stakes")
	}

	if isNone(record.Prev) {
		list.Head = record.Next
	} else {
		prev, err := s.records.Get(record.Prev)
		if err != nil {
			return err
		}
		prev.Next = record.Next
		if err := s.records.Set(record.Prev, prev); err != nil {
			return err
		}
	}

	if isNone(record.Next) {
		list.Tail = record.Prev
	} else {
		next, err := s.records.Get(record.Next)
		if err != nil {
			return err
		}
		next.Prev = record.Prev
		if err := s.records.Set(record.Next, next); err != nil {
			return err
		}
	}

	list.Count--
	if list.Count == 0 {
		s.owners.Delete(record.Owner)
		return nil
	}
	return s.owners.Set(record.Owner, list)
}

// StakesOf returns the ids of the open stakes of owner, oldest first.
func (s *Service) StakesOf(owner thor.Address) ([]*big.Int, error) {
	list, err := s.owners.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get owner stakes")
	}
	ids := make([]*big.Int, 0, list.Count)
	for ptr := list.Head; !isNone(ptr); {
		record, err := s.records.Get(ptr)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get stake")
		}
		ids = append(ids, ptr)
		ptr = record.Next
	}
	return ids, nil
}

// LastID returns the last allocated id, zero if none.
func (s *Service) LastID() (*big.Int, error) {
	return s.lastID.Get()
}

func (s *Service) Totals() (*Totals, error) {
	locked, err := s.locked.Get()
	if err != nil {
		return nil, err
	}
	bonus, err := s.bonus.Get()
	if err != nil {
		return nil, err
	}
	paid, err := s.paid.Get()
	if err != nil {
		return nil, err
	}
	return &Totals{Locked: locked, Bonus: bonus, Paid: paid}, nil
}
