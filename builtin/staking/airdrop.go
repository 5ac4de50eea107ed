// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/thor"
)

// SetAirDropRoot installs the commitment of dropType. Bonus stakes claimed from it use tier.
func (s *Staking) SetAirDropRoot(caller thor.Address, dropType uint8, root thor.Bytes32, depth uint8, tier uint32) error {
	return s.atomic(func() error {
		if err := s.gov.Check(caller); err != nil {
			return err
		}
		if _, err := s.tierService.Get(tier); err != nil {
			return err
		}
		previous, err := s.airdropService.SetRoot(dropType, root, depth, tier)
		if err != nil {
			return err
		}
		if previous.Claimed > 0 && previous.Root != root {
			logger.Warn("air-drop root replaced after claims, unclaimed leaves of the old root are orphaned",
				"dropType", dropType,
				"claimed", previous.Claimed,
				"old", previous.Root.AbbrevString(),
				"new", root.AbbrevString(),
			)
		}
		s.sctx.Emit("DropSet", []thor.Bytes32{uintTopic(uint64(dropType))}, map[string]any{
			"root":  root.String(),
			"depth": depth,
			"tier":  tier,
		})
		return nil
	})
}

// Claim consumes the leaf (caller, amount, leafIndex) of dropType and opens a bonus stake of amount.
// No asset moves: the bonus is paid out of the reward pool on withdrawal.
func (s *Staking) Claim(caller thor.Address, dropType uint8, amount *big.Int, leafIndex uint64, proof []thor.Bytes32) (id *big.Int, err error) {
	err = s.atomic(func() error {
		if err := s.checkInitialized(); err != nil {
			return err
		}
		if err := checkAmount(amount); err != nil {
			return err
		}
		if err := s.checkNotPaused(); err != nil {
			return err
		}
		drop, err := s.airdropService.Verify(dropType, caller, amount, leafIndex, proof)
		if err != nil {
			return err
		}
		if err := s.airdropService.MarkClaimed(dropType, drop, leafIndex, amount); err != nil {
			return err
		}
		if id, err = s.openStake(caller, amount, drop.Tier, true); err != nil {
			return err
		}
		s.sctx.Emit("Claimed", []thor.Bytes32{uintTopic(uint64(dropType)), addressTopic(caller)}, map[string]any{
			"leafIndex": leafIndex,
			"amount":    amount,
			"stakeId":   id,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, reverts.ErrInvalidProof) {
			metricInvalidProofs().Add(1)
		}
		return nil, err
	}
	metricStakes().AddWithLabel(1, map[string]string{"kind": "bonus"})
	return id, nil
}

func uintTopic(v uint64) thor.Bytes32 {
	return thor.BytesToBytes32(new(big.Int).SetUint64(v).Bytes())
}

func addressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}
