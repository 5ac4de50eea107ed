// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package airdrops

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/thor-staking/builtin/staking/airdrop"
	"github.com/vechain/thor-staking/thor"
)

type Drop struct {
	Type          uint8                 `json:"type"`
	Root          thor.Bytes32          `json:"root"`
	Depth         uint8                 `json:"depth"`
	Tier          uint32                `json:"tier"`
	Claimed       uint64                `json:"claimed"`
	ClaimedAmount *math.HexOrDecimal256 `json:"claimedAmount"`
}

func convertDrop(dropType uint8, d *airdrop.Drop) *Drop {
	return &Drop{
		Type:          dropType,
		Root:          d.Root,
		Depth:         d.Depth,
		Tier:          d.Tier,
		Claimed:       d.Claimed,
		ClaimedAmount: (*math.HexOrDecimal256)(d.ClaimedAmount),
	}
}

type SetRootRequest struct {
	Caller thor.Address `json:"caller"`
	Root   thor.Bytes32 `json:"root"`
	Depth  uint8        `json:"depth"`
	Tier   uint32       `json:"tier"`
}

type ClaimRequest struct {
	Caller thor.Address          `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
	Index  uint64                `json:"index"`
	Proof  []thor.Bytes32        `json:"proof"`
}

type ClaimResponse struct {
	ID *math.HexOrDecimal256 `json:"id"`
}

type ClaimStatus struct {
	Index   uint64 `json:"index"`
	Claimed bool   `json:"claimed"`
}
