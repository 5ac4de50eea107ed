// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/builtin/token"
	"github.com/vechain/thor-staking/thor"
)

// hostileAsset moves tokens like the real binding but calls back into the engine
// from inside every outbound transfer.
type hostileAsset struct {
	*token.Binding
	engine  *Staking
	reenter func(s *Staking) error
	errs    []error
}

func (h *hostileAsset) Transfer(to thor.Address, amount *big.Int) (bool, error) {
	if h.reenter != nil {
		h.errs = append(h.errs, h.reenter(h.engine))
	}
	return h.Binding.Transfer(to, amount)
}

func newHostileEnv(t *testing.T) (*testEnv, *hostileAsset) {
	hostile := &hostileAsset{}
	env := newTestEnv(t, func(b *token.Binding) Asset {
		hostile.Binding = b
		return hostile
	})
	hostile.engine = env.staking

	require.NoError(t, env.staking.Initialize(governor, defaultDurations, defaultRates))
	env.mint(t, alice, 10_000)
	env.mint(t, governor, 100_000)
	require.NoError(t, env.staking.Fund(governor, big.NewInt(100_000)))
	return env, hostile
}

func TestReentrantWithdraw(t *testing.T) {
	env, hostile := newHostileEnv(t)

	id, err := env.staking.Stake(alice, big.NewInt(1000), 0)
	require.NoError(t, err)
	env.advance(month)

	hostile.reenter = func(s *Staking) error {
		// the record is already closed when the payout happens
		record, err := s.GetStake(id)
		if err != nil {
			return err
		}
		assert.True(t, record.Closed)
		_, err = s.Withdraw(alice, id)
		return err
	}

	payout, err := env.staking.Withdraw(alice, id)
	require.NoError(t, err)
	assert.Equal(t, 0, payout.Cmp(big.NewInt(1006)))

	require.Len(t, hostile.errs, 1)
	assert.ErrorIs(t, hostile.errs[0], reverts.ErrAlreadyWithdrawn)

	// exactly one payout left the engine
	assert.Equal(t, 0, env.balance(t, alice).Cmp(big.NewInt(10_006)))
	totals, err := env.staking.Totals()
	require.NoError(t, err)
	assert.Equal(t, 0, totals.Locked.Sign())
	assert.Equal(t, 0, totals.Paid.Cmp(big.NewInt(1006)))
}

func TestReentrantClaim(t *testing.T) {
	env, hostile := newHostileEnv(t)
	entries, tree := newDrop(t)
	require.NoError(t, env.staking.SetAirDropRoot(governor, 1, tree.Root(), tree.Depth(), 0))
	proof, _ := tree.Proof(5)

	bonusID, err := env.staking.Claim(alice, 1, entries[5].amount, 5, proof)
	require.NoError(t, err)
	env.advance(month)

	// a callback during the payout of the bonus stake tries to claim the same leaf again
	hostile.reenter = func(s *Staking) error {
		_, err := s.Claim(alice, 1, entries[5].amount, 5, proof)
		return err
	}
	_, err = env.staking.Withdraw(alice, bonusID)
	require.NoError(t, err)

	require.Len(t, hostile.errs, 1)
	assert.ErrorIs(t, hostile.errs[0], reverts.ErrAlreadyClaimed)

	ids, err := env.staking.StakesOf(alice)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReentrantStakeDuringPayout(t *testing.T) {
	env, hostile := newHostileEnv(t)

	id, err := env.staking.Stake(alice, big.NewInt(1000), 0)
	require.NoError(t, err)
	env.advance(month)

	// a nested stake succeeds and is accounted on top of the closed one
	hostile.reenter = func(s *Staking) error {
		_, err := s.Stake(alice, big.NewInt(10), 1)
		return err
	}
	_, err = env.staking.Withdraw(alice, id)
	require.NoError(t, err)
	require.Len(t, hostile.errs, 1)
	assert.NoError(t, hostile.errs[0])

	totals, err := env.staking.Totals()
	require.NoError(t, err)
	assert.Equal(t, 0, totals.Locked.Cmp(big.NewInt(10)))
	ids, err := env.staking.StakesOf(alice)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, int64(2), ids[0].Int64())
}

func TestFuzzedProofsAreRejected(t *testing.T) {
	env := newInitializedEnv(t)
	entries, tree := newDrop(t)
	require.NoError(t, env.staking.SetAirDropRoot(governor, 1, tree.Root(), tree.Depth(), 1))

	f := fuzz.New().NilChance(0).NumElements(0, 6)
	for range 200 {
		var (
			proof []thor.Bytes32
			index uint64
		)
		f.Fuzz(&proof)
		f.Fuzz(&index)
		index %= 16

		_, err := env.staking.Claim(entries[index].account, 1, entries[index].amount, index, proof)
		assert.ErrorIs(t, err, reverts.ErrInvalidProof)
	}

	for i := range entries {
		claimed, err := env.staking.IsClaimed(1, uint64(i))
		require.NoError(t, err)
		assert.False(t, claimed)
	}
}
