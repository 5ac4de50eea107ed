// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/thor-staking/builtin/staking/ledger"
	"github.com/vechain/thor-staking/builtin/staking/tiers"
	"github.com/vechain/thor-staking/thor"
)

type Tier struct {
	Index    uint32                `json:"index"`
	Duration uint64                `json:"duration"`
	Rate     *math.HexOrDecimal256 `json:"rate"`
	Open     uint64                `json:"open"`
}

func convertTier(index uint32, t *tiers.Tier) *Tier {
	return &Tier{
		Index:    index,
		Duration: t.Duration,
		Rate:     (*math.HexOrDecimal256)(t.Rate),
		Open:     t.Open,
	}
}

type Stake struct {
	ID     *math.HexOrDecimal256 `json:"id"`
	Owner  thor.Address          `json:"owner"`
	Amount *math.HexOrDecimal256 `json:"amount"`
	Start  uint64                `json:"start"`
	Tier   uint32                `json:"tier"`
	Bonus  bool                  `json:"bonus"`
	Closed bool                  `json:"closed"`
	Payout *math.HexOrDecimal256 `json:"payout,omitempty"`
	// what a withdrawal now would pay, open stakes only
	Quote *math.HexOrDecimal256 `json:"quote,omitempty"`
}

func convertStake(id *big.Int, s *ledger.Stake, quote *big.Int) *Stake {
	return &Stake{
		ID:     (*math.HexOrDecimal256)(id),
		Owner:  s.Owner,
		Amount: (*math.HexOrDecimal256)(s.Amount),
		Start:  s.Start,
		Tier:   s.Tier,
		Bonus:  s.Bonus,
		Closed: s.Closed,
		Payout: (*math.HexOrDecimal256)(s.Payout),
		Quote:  (*math.HexOrDecimal256)(quote),
	}
}

type Totals struct {
	Locked          *math.HexOrDecimal256 `json:"locked"`
	Bonus           *math.HexOrDecimal256 `json:"bonus"`
	Paid            *math.HexOrDecimal256 `json:"paid"`
	RewardPool      *math.HexOrDecimal256 `json:"rewardPool"`
	Paused          bool                  `json:"paused"`
	EarlyExitPolicy string                `json:"earlyExitPolicy"`
}

type TierRequest struct {
	Caller   thor.Address          `json:"caller"`
	Duration uint64                `json:"duration"`
	Rate     *math.HexOrDecimal256 `json:"rate"`
}

type StakeRequest struct {
	Caller thor.Address          `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
	Tier   uint32                `json:"tier"`
}

type CallerRequest struct {
	Caller thor.Address `json:"caller"`
}

type FundRequest struct {
	Caller thor.Address          `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type IDResponse struct {
	ID *math.HexOrDecimal256 `json:"id"`
}

type IndexResponse struct {
	Index uint32 `json:"index"`
}

type PayoutResponse struct {
	Payout *math.HexOrDecimal256 `json:"payout"`
}
