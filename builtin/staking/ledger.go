// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/builtin/staking/accrual"
	"github.com/vechain/thor-staking/thor"
)

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrZeroAmount
	}
	if amount.BitLen() > 256 {
		return reverts.ErrOverflow
	}
	return nil
}

// Stake locks amount of the asset from caller under tier and returns the new stake id.
// The record is written before the asset is pulled.
func (s *Staking) Stake(caller thor.Address, amount *big.Int, tier uint32) (id *big.Int, err error) {
	err = s.atomic(func() error {
		if err := s.checkInitialized(); err != nil {
			return err
		}
		if err := s.checkNotPaused(); err != nil {
			return err
		}
		if err := checkAmount(amount); err != nil {
			return err
		}
		if id, err = s.openStake(caller, amount, tier, false); err != nil {
			return err
		}

		ok, err := s.asset.TransferFrom(caller, s.Address(), amount)
		if err != nil {
			return errors.Wrap(err, "asset transfer from")
		}
		if !ok {
			return reverts.ErrTransferFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metricStakes().AddWithLabel(1, map[string]string{"kind": "deposit"})
	return id, nil
}

func (s *Staking) openStake(owner thor.Address, amount *big.Int, tier uint32, bonus bool) (*big.Int, error) {
	if err := s.tierService.IncOpen(tier); err != nil {
		return nil, err
	}
	t, err := s.tierService.Get(tier)
	if err != nil {
		return nil, err
	}
	// a stake whose full-term payout does not fit could never be withdrawn
	if _, err := accrual.Payout(amount, t.Rate, t.Duration, t.Duration, accrual.Forfeit); err != nil {
		return nil, err
	}
	now := s.clock()
	id, err := s.ledgerService.Open(owner, amount, now, tier, bonus)
	if err != nil {
		return nil, err
	}
	logger.Debug("stake opened", "id", id, "owner", owner, "amount", amount, "tier", tier, "bonus", bonus)
	s.sctx.Emit("Staked", []thor.Bytes32{uintTopic(id.Uint64()), addressTopic(owner)}, map[string]any{
		"amount": amount,
		"tier":   tier,
		"bonus":  bonus,
		"start":  now,
	})
	return id, nil
}

// Withdraw closes stake id and pays its payout to caller.
// The record is closed and unlinked before the asset is paid out, so a reentrant call observes
// the stake as withdrawn.
func (s *Staking) Withdraw(caller thor.Address, id *big.Int) (payout *big.Int, err error) {
	var early bool
	err = s.atomic(func() error {
		record, err := s.ledgerService.Get(id)
		if err != nil {
			return err
		}
		if record.Owner != caller {
			return reverts.ErrNotOwner
		}
		if record.Closed {
			return reverts.ErrAlreadyWithdrawn
		}
		tier, err := s.tierService.Get(record.Tier)
		if err != nil {
			return err
		}

		now := s.clock()
		early = now < record.Start+tier.Duration
		if payout, err = s.payout(record, now); err != nil {
			return err
		}

		if err := s.ledgerService.Close(id, record, payout); err != nil {
			return err
		}
		if err := s.tierService.DecOpen(record.Tier); err != nil {
			return err
		}
		if err := s.checkSolvent(payout); err != nil {
			return err
		}
		s.sctx.Emit("Withdrawn", []thor.Bytes32{uintTopic(id.Uint64()), addressTopic(caller)}, map[string]any{
			"payout": payout,
			"early":  early,
		})

		ok, err := s.asset.Transfer(caller, payout)
		if err != nil {
			return errors.Wrap(err, "asset transfer")
		}
		if !ok {
			return reverts.ErrTransferFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("stake withdrawn", "id", id, "owner", caller, "payout", payout, "early", early)
	metricWithdrawals().AddWithLabel(1, map[string]string{"early": boolLabel(early)})
	return payout, nil
}

// checkSolvent fails unless the engine still backs every open deposit after paying out payout.
// Called after the stake is closed, so its own principal is no longer counted as locked.
func (s *Staking) checkSolvent(payout *big.Int) error {
	balance, err := s.asset.BalanceOf(s.Address())
	if err != nil {
		return errors.Wrap(err, "failed to get engine balance")
	}
	totals, err := s.ledgerService.Totals()
	if err != nil {
		return err
	}
	if new(big.Int).Sub(balance, payout).Cmp(totals.Locked) < 0 {
		return reverts.ErrInsufficientPool
	}
	return nil
}

// Fund pulls amount from caller into the reward pool.
func (s *Staking) Fund(caller thor.Address, amount *big.Int) error {
	return s.atomic(func() error {
		if err := s.checkInitialized(); err != nil {
			return err
		}
		if err := checkAmount(amount); err != nil {
			return err
		}
		ok, err := s.asset.TransferFrom(caller, s.Address(), amount)
		if err != nil {
			return errors.Wrap(err, "asset transfer from")
		}
		if !ok {
			return reverts.ErrTransferFailed
		}
		s.sctx.Emit("Funded", []thor.Bytes32{addressTopic(caller)}, map[string]any{"amount": amount})
		return nil
	})
}
