// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/builtin/staking/accrual"
	"github.com/vechain/thor-staking/thor"
)

// Initialize installs the tier table and makes caller the governor. It can be called once.
func (s *Staking) Initialize(caller thor.Address, durations []uint64, rates []*big.Int) error {
	return s.atomic(func() error {
		initialized, err := s.gov.IsInitialized()
		if err != nil {
			return err
		}
		if initialized {
			return reverts.ErrAlreadyInitialized
		}
		if len(durations) != len(rates) {
			return reverts.ErrLengthMismatch
		}
		if len(durations) == 0 {
			return reverts.ErrEmptyConfig
		}
		for i := range durations {
			if _, err := s.addTier(durations[i], rates[i]); err != nil {
				return err
			}
		}
		if err := s.gov.Initialize(caller); err != nil {
			return err
		}
		logger.Info("staking initialized", "governor", caller, "tiers", len(durations))
		return nil
	})
}

// AddTier appends a tier and returns its index.
func (s *Staking) AddTier(caller thor.Address, duration uint64, rate *big.Int) (index uint32, err error) {
	err = s.atomic(func() error {
		if err := s.gov.Check(caller); err != nil {
			return err
		}
		index, err = s.addTier(duration, rate)
		return err
	})
	return
}

func (s *Staking) addTier(duration uint64, rate *big.Int) (uint32, error) {
	index, err := s.tierService.Add(duration, rate)
	if err != nil {
		return 0, err
	}
	s.sctx.Emit("TierAdded", []thor.Bytes32{uintTopic(uint64(index))}, map[string]any{
		"duration": duration,
		"rate":     rate,
	})
	return index, nil
}

// UpdateTier edits a tier no open stake references.
func (s *Staking) UpdateTier(caller thor.Address, index uint32, duration uint64, rate *big.Int) error {
	return s.atomic(func() error {
		if err := s.gov.Check(caller); err != nil {
			return err
		}
		if err := s.tierService.Update(index, duration, rate); err != nil {
			return err
		}
		s.sctx.Emit("TierUpdated", []thor.Bytes32{uintTopic(uint64(index))}, map[string]any{
			"duration": duration,
			"rate":     rate,
		})
		return nil
	})
}

func (s *Staking) Pause(caller thor.Address) error {
	return s.setPaused(caller, true)
}

func (s *Staking) Unpause(caller thor.Address) error {
	return s.setPaused(caller, false)
}

func (s *Staking) setPaused(caller thor.Address, paused bool) error {
	return s.atomic(func() error {
		if err := s.gov.Check(caller); err != nil {
			return err
		}
		if err := s.params.SetBool(thor.KeyPaused, paused); err != nil {
			return err
		}
		name := "Unpaused"
		if paused {
			name = "Paused"
		}
		logger.Info("pause state changed", "paused", paused, "by", caller)
		s.sctx.Emit(name, []thor.Bytes32{addressTopic(caller)}, nil)
		return nil
	})
}

// SetEarlyExitPolicy selects what withdrawals before the end of the term earn.
func (s *Staking) SetEarlyExitPolicy(caller thor.Address, policy accrual.Policy) error {
	return s.atomic(func() error {
		if err := s.gov.Check(caller); err != nil {
			return err
		}
		if !policy.Valid() {
			return ErrInvalidPolicy
		}
		if err := s.params.Set(thor.KeyEarlyExitPolicy, big.NewInt(int64(policy))); err != nil {
			return err
		}
		s.sctx.Emit("EarlyExitPolicySet", nil, map[string]any{"policy": policy.String()})
		return nil
	})
}

// TransferGovernance proposes newGovernor, see governance.Governance.
func (s *Staking) TransferGovernance(caller, newGovernor thor.Address) error {
	return s.atomic(func() error {
		return s.gov.TransferGovernance(caller, newGovernor)
	})
}

func (s *Staking) ClaimGovernance(caller thor.Address) error {
	return s.atomic(func() error {
		return s.gov.ClaimGovernance(caller)
	})
}
