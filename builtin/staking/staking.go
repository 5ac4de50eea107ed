// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/thor-staking/builtin/governance"
	"github.com/vechain/thor-staking/builtin/params"
	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/builtin/solidity"
	"github.com/vechain/thor-staking/builtin/staking/accrual"
	"github.com/vechain/thor-staking/builtin/staking/airdrop"
	"github.com/vechain/thor-staking/builtin/staking/ledger"
	"github.com/vechain/thor-staking/builtin/staking/tiers"
	"github.com/vechain/thor-staking/log"
	"github.com/vechain/thor-staking/state"
	"github.com/vechain/thor-staking/thor"
)

var logger = log.WithContext("pkg", "staking")

func SetLogger(l log.Logger) {
	logger = l
}

// Asset is the fungible token the engine holds. It acts on behalf of the engine address:
// TransferFrom spends the allowance granted to the engine, Transfer pays from its balance.
// A false result means the transfer did not happen.
type Asset interface {
	TransferFrom(from, to thor.Address, amount *big.Int) (bool, error)
	Transfer(to thor.Address, amount *big.Int) (bool, error)
	BalanceOf(addr thor.Address) (*big.Int, error)
}

// Clock returns the current time in unix seconds.
type Clock func() uint64

// Staking implements native methods of the `Staking` contract.
type Staking struct {
	sctx   *solidity.Context
	gov    *governance.Governance
	params *params.Params
	asset  Asset
	clock  Clock

	tierService    *tiers.Service
	ledgerService  *ledger.Service
	airdropService *airdrop.Service
}

// New create a new instance.
func New(
	addr thor.Address,
	state *state.State,
	gov *governance.Governance,
	params *params.Params,
	asset Asset,
	sink solidity.EventSink,
	clock Clock,
) *Staking {
	sctx := solidity.NewContext(addr, state, sink)
	return &Staking{
		sctx:   sctx,
		gov:    gov,
		params: params,
		asset:  asset,
		clock:  clock,

		tierService:    tiers.New(sctx),
		ledgerService:  ledger.New(sctx),
		airdropService: airdrop.New(sctx),
	}
}

// Address returns the engine address, which holds the deposited asset.
func (s *Staking) Address() thor.Address {
	return s.sctx.Address()
}

// atomic runs fn inside a state checkpoint and rolls every write back if fn fails.
func (s *Staking) atomic(fn func() error) error {
	st := s.sctx.State()
	revision := st.NewCheckpoint()
	if err := fn(); err != nil {
		st.RevertTo(revision)
		metricReverts().AddWithLabel(1, map[string]string{"revert": revertLabel(err)})
		return err
	}
	return nil
}

func (s *Staking) checkInitialized() error {
	initialized, err := s.gov.IsInitialized()
	if err != nil {
		return err
	}
	if !initialized {
		return reverts.ErrUninitialized
	}
	return nil
}

func (s *Staking) checkNotPaused() error {
	paused, err := s.IsPaused()
	if err != nil {
		return err
	}
	if paused {
		return reverts.ErrPaused
	}
	return nil
}

//
// Getters - no state change
//

// Tiers returns the whole tier table.
func (s *Staking) Tiers() ([]*tiers.Tier, error) {
	return s.tierService.List()
}

// Tier returns the tier at index.
func (s *Staking) Tier(index uint32) (*tiers.Tier, error) {
	return s.tierService.Get(index)
}

// GetStake returns a stake record, open or closed.
func (s *Staking) GetStake(id *big.Int) (*ledger.Stake, error) {
	return s.ledgerService.Get(id)
}

// StakesOf returns the ids of the open stakes of owner, in insertion order.
func (s *Staking) StakesOf(owner thor.Address) ([]*big.Int, error) {
	return s.ledgerService.StakesOf(owner)
}

func (s *Staking) Totals() (*ledger.Totals, error) {
	return s.ledgerService.Totals()
}

// RewardPool returns the engine balance not backing deposited principal.
func (s *Staking) RewardPool() (*big.Int, error) {
	balance, err := s.asset.BalanceOf(s.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get engine balance")
	}
	totals, err := s.ledgerService.Totals()
	if err != nil {
		return nil, err
	}
	pool := new(big.Int).Sub(balance, totals.Locked)
	if pool.Sign() < 0 {
		return new(big.Int), nil
	}
	return pool, nil
}

// Quote returns what withdrawing stake id at time at would pay, under the current policy.
func (s *Staking) Quote(id *big.Int, at uint64) (*big.Int, error) {
	record, err := s.ledgerService.Get(id)
	if err != nil {
		return nil, err
	}
	if record.Closed {
		return nil, reverts.ErrAlreadyWithdrawn
	}
	return s.payout(record, at)
}

func (s *Staking) payout(record *ledger.Stake, at uint64) (*big.Int, error) {
	tier, err := s.tierService.Get(record.Tier)
	if err != nil {
		return nil, err
	}
	policy, err := s.EarlyExitPolicy()
	if err != nil {
		return nil, err
	}
	var elapsed uint64
	if at > record.Start {
		elapsed = at - record.Start
	}
	return accrual.Payout(record.Amount, tier.Rate, elapsed, tier.Duration, policy)
}

// GetDrop returns the active commitment of dropType.
func (s *Staking) GetDrop(dropType uint8) (*airdrop.Drop, error) {
	return s.airdropService.Get(dropType)
}

func (s *Staking) IsClaimed(dropType uint8, leafIndex uint64) (bool, error) {
	return s.airdropService.IsClaimed(dropType, leafIndex)
}

func (s *Staking) IsPaused() (bool, error) {
	return s.params.GetBool(thor.KeyPaused)
}

func (s *Staking) EarlyExitPolicy() (accrual.Policy, error) {
	v, err := s.params.Get(thor.KeyEarlyExitPolicy)
	if err != nil {
		return 0, err
	}
	return accrual.Policy(v.Uint64()), nil
}

func (s *Staking) Governor() (thor.Address, error) {
	return s.gov.Governor()
}

func (s *Staking) PendingGovernor() (thor.Address, error) {
	return s.gov.PendingGovernor()
}
