// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tiers

import (
	"encoding/binary"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/builtin/solidity"
	"github.com/vechain/thor-staking/thor"
)

var (
	slotTierCount = thor.BytesToBytes32([]byte("tier-count"))
	slotTiers     = thor.BytesToBytes32([]byte("tiers"))
)

// Tier is a (duration, rate) pair stakers can choose.
// Rate is the share of principal earned over the full duration, scaled by thor.RateScale.
type Tier struct {
	Duration uint64
	Rate     *big.Int
	Open     uint64 // live stakes referencing the tier
}

type index uint32

func (i index) Bytes() []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(i))
	return b[:]
}

// Service manages the ordered, append-only tier table.
type Service struct {
	count *solidity.Uint256
	tiers *solidity.Mapping[index, *Tier]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		count: solidity.NewUint256(sctx, slotTierCount),
		tiers: solidity.NewMapping[index, *Tier](sctx, slotTiers),
	}
}

func validate(duration uint64, rate *big.Int) error {
	if duration == 0 || rate == nil || rate.Sign() < 0 {
		return reverts.ErrInvalidTier
	}
	if _, overflow := uint256.FromBig(rate); overflow {
		return reverts.ErrOverflow
	}
	return nil
}

func (s *Service) Count() (uint32, error) {
	count, err := s.count.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get tier count")
	}
	return uint32(count.Uint64()), nil
}

// Get returns the tier at i, ErrInvalidTier if there is none.
func (s *Service) Get(i uint32) (*Tier, error) {
	count, err := s.Count()
	if err != nil {
		return nil, err
	}
	if i >= count {
		return nil, reverts.ErrInvalidTier
	}
	tier, err := s.tiers.Get(index(i))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tier")
	}
	return tier, nil
}

// List returns all tiers in index order.
func (s *Service) List() ([]*Tier, error) {
	count, err := s.Count()
	if err != nil {
		return nil, err
	}
	list := make([]*Tier, 0, count)
	for i := range count {
		tier, err := s.tiers.Get(index(i))
		if err != nil {
			return nil, errors.Wrap(err, "failed to get tier")
		}
		list = append(list, tier)
	}
	return list, nil
}

// Add appends a tier and returns its index.
func (s *Service) Add(duration uint64, rate *big.Int) (uint32, error) {
	if err := validate(duration, rate); err != nil {
		return 0, err
	}
	count, err := s.Count()
	if err != nil {
		return 0, err
	}
	if err := s.tiers.Set(index(count), &Tier{Duration: duration, Rate: new(big.Int).Set(rate)}); err != nil {
		return 0, err
	}
	if err := s.count.Add(big.NewInt(1)); err != nil {
		return 0, err
	}
	return count, nil
}

// Update replaces duration and rate of a tier no live stake references.
func (s *Service) Update(i uint32, duration uint64, rate *big.Int) error {
	tier, err := s.Get(i)
	if err != nil {
		return err
	}
	if err := validate(duration, rate); err != nil {
		return err
	}
	if tier.Open > 0 {
		return reverts.ErrTierInUse
	}
	tier.Duration = duration
	tier.Rate = new(big.Int).Set(rate)
	return s.tiers.Set(index(i), tier)
}

// IncOpen records a new stake under tier i.
func (s *Service) IncOpen(i uint32) error {
	tier, err := s.Get(i)
	if err != nil {
		return err
	}
	tier.Open++
	return s.tiers.Set(index(i), tier)
}

// DecOpen records the closure of a stake under tier i.
func (s *Service) DecOpen(i uint32) error {
	tier, err := s.Get(i)
	if err != nil {
		return err
	}
	if tier.Open == 0 {
		return errors.Errorf("tier %d has no open stakes", i)
	}
	tier.Open--
	return s.tiers.Set(index(i), tier)
}
