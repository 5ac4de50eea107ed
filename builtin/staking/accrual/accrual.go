// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual computes stake rewards. Rewards grow linearly with elapsed time and are capped at
// the full-term reward. Every result is overflow checked and every division truncates.
package accrual

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/thor"
)

// Policy decides what an early withdrawal earns.
type Policy uint8

const (
	// Forfeit pays back the principal only.
	Forfeit Policy = iota
	// Prorate pays the principal plus the reward earned so far.
	Prorate
)

func (p Policy) String() string {
	switch p {
	case Forfeit:
		return "forfeit"
	case Prorate:
		return "prorate"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy is the inverse of Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "forfeit", "":
		return Forfeit, nil
	case "prorate":
		return Prorate, nil
	}
	return 0, errors.Errorf("unknown early exit policy %q", s)
}

func (p Policy) Valid() bool {
	return p <= Prorate
}

var rateScale = uint256.MustFromBig(thor.RateScale)

// Reward returns principal * rate / RateScale * min(elapsed, duration) / duration.
// Both divisions truncate. The products are taken in 512 bits, so only a result that does not fit 256
// bits overflows.
func Reward(principal, rate *big.Int, elapsed, duration uint64) (*big.Int, error) {
	if duration == 0 {
		return nil, reverts.ErrInvalidTier
	}
	p, err := toUint256(principal)
	if err != nil {
		return nil, err
	}
	r, err := toUint256(rate)
	if err != nil {
		return nil, err
	}
	elapsed = min(elapsed, duration)

	full, overflow := new(uint256.Int).MulDivOverflow(p, r, rateScale)
	if overflow {
		return nil, reverts.ErrOverflow
	}
	if elapsed == duration {
		return full.ToBig(), nil
	}
	// never above full, since elapsed < duration
	reward, _ := new(uint256.Int).MulDivOverflow(full, uint256.NewInt(elapsed), uint256.NewInt(duration))
	return reward.ToBig(), nil
}

func toUint256(v *big.Int) (*uint256.Int, error) {
	if v.Sign() < 0 {
		return nil, reverts.ErrOverflow
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, reverts.ErrOverflow
	}
	return u, nil
}

// Payout returns what a withdrawal after elapsed seconds pays.
// A stake held for the full duration earns the full reward; before that the policy decides.
func Payout(principal, rate *big.Int, elapsed, duration uint64, policy Policy) (*big.Int, error) {
	var (
		reward *big.Int
		err    error
	)
	switch {
	case elapsed >= duration:
		reward, err = Reward(principal, rate, duration, duration)
	case policy == Prorate:
		reward, err = Reward(principal, rate, elapsed, duration)
	default:
		reward, err = new(big.Int), nil
	}
	if err != nil {
		return nil, err
	}

	p, err := toUint256(principal)
	if err != nil {
		return nil, err
	}
	total, overflow := new(uint256.Int).AddOverflow(p, uint256.MustFromBig(reward))
	if overflow {
		return nil, reverts.ErrOverflow
	}
	return total.ToBig(), nil
}
