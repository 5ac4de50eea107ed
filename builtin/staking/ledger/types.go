// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/vechain/thor-staking/thor"
)

// Stake is one stake record. Records are never removed: a closed record stays as a tombstone
// so that repeated withdrawals can be told apart from unknown ids.
type Stake struct {
	Owner  thor.Address
	Amount *big.Int
	Start  uint64 // unix seconds
	Tier   uint32
	Bonus  bool // created by an air-drop claim, not deposited
	Closed bool

	// neighbours in the owner's list, zero when absent
	Prev *big.Int
	Next *big.Int

	Payout *big.Int `rlp:"optional"` // set on withdrawal
}

// ownerList indexes the open stakes of an owner in insertion order.
type ownerList struct {
	Head  *big.Int
	Tail  *big.Int
	Count uint64
}

// Totals are the contract-wide sums over stake records.
type Totals struct {
	Locked *big.Int // deposited principal of open stakes
	Bonus  *big.Int // bonus principal of open stakes
	Paid   *big.Int // cumulative payouts
}

func isNone(id *big.Int) bool {
	return id == nil || id.Sign() == 0
}
