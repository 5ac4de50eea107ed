// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-staking/builtin"
	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/logdb"
	"github.com/vechain/thor-staking/lvldb"
	"github.com/vechain/thor-staking/state"
	"github.com/vechain/thor-staking/thor"
)

var (
	governor = thor.BytesToAddress([]byte("governor"))
	alice    = thor.BytesToAddress([]byte("alice"))
)

func newTestRuntime(t *testing.T) (*Runtime, *uint64) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	now := uint64(1_000_000)
	rt := New(db, state.NewCache(1024), logDB, func() uint64 { return now })
	return rt, &now
}

func TestCallCommits(t *testing.T) {
	rt, _ := newTestRuntime(t)
	ctx := context.Background()

	require.NoError(t, rt.Call(ctx, "setup", func(c *builtin.Contracts) error {
		if err := c.Token.Mint(alice, big.NewInt(1000)); err != nil {
			return err
		}
		return c.Staking.Initialize(governor, []uint64{30 * thor.Day}, []*big.Int{big.NewInt(6e15)})
	}))

	require.NoError(t, rt.View(func(c *builtin.Contracts) error {
		balance, err := c.Token.BalanceOf(alice)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(1000), balance)
		gov, err := c.Staking.Governor()
		require.NoError(t, err)
		assert.Equal(t, governor, gov)
		return nil
	}))

	events, err := rt.LogDB().FilterEvents(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "Transfer")
	assert.Contains(t, names, "GovernanceTransferred")
	assert.Contains(t, names, "TierAdded")
	assert.Equal(t, uint64(1_000_000), events[0].Time)
}

func TestCallRevertsAll(t *testing.T) {
	rt, _ := newTestRuntime(t)
	ctx := context.Background()

	err := rt.Call(ctx, "half", func(c *builtin.Contracts) error {
		if err := c.Token.Mint(alice, big.NewInt(1000)); err != nil {
			return err
		}
		// uninitialized engine
		_, err := c.Staking.Stake(alice, big.NewInt(10), 0)
		return err
	})
	assert.ErrorIs(t, err, reverts.ErrUninitialized)

	require.NoError(t, rt.View(func(c *builtin.Contracts) error {
		balance, err := c.Token.BalanceOf(alice)
		require.NoError(t, err)
		assert.Equal(t, 0, balance.Sign())
		return nil
	}))
	events, err := rt.LogDB().FilterEvents(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestViewDiscardsWrites(t *testing.T) {
	rt, _ := newTestRuntime(t)

	require.NoError(t, rt.View(func(c *builtin.Contracts) error {
		return c.Token.Mint(alice, big.NewInt(1000))
	}))
	require.NoError(t, rt.View(func(c *builtin.Contracts) error {
		supply, err := c.Token.TotalSupply()
		require.NoError(t, err)
		assert.Equal(t, 0, supply.Sign())
		return nil
	}))
}

func TestClockAdvances(t *testing.T) {
	rt, now := newTestRuntime(t)
	ctx := context.Background()

	require.NoError(t, rt.Call(ctx, "setup", func(c *builtin.Contracts) error {
		if err := c.Token.Mint(alice, big.NewInt(1000)); err != nil {
			return err
		}
		if err := c.Token.Mint(governor, big.NewInt(1000)); err != nil {
			return err
		}
		if err := c.Staking.Initialize(governor, []uint64{30 * thor.Day}, []*big.Int{big.NewInt(6e15)}); err != nil {
			return err
		}
		if err := c.Token.Approve(governor, c.Staking.Address(), big.NewInt(1000)); err != nil {
			return err
		}
		if err := c.Staking.Fund(governor, big.NewInt(1000)); err != nil {
			return err
		}
		return c.Token.Approve(alice, c.Staking.Address(), big.NewInt(1000))
	}))

	var id *big.Int
	require.NoError(t, rt.Call(ctx, "stake", func(c *builtin.Contracts) (err error) {
		id, err = c.Staking.Stake(alice, big.NewInt(1000), 0)
		return err
	}))

	*now += 30 * thor.Day
	var payout *big.Int
	require.NoError(t, rt.Call(ctx, "withdraw", func(c *builtin.Contracts) (err error) {
		payout, err = c.Staking.Withdraw(alice, id)
		return err
	}))
	assert.Equal(t, big.NewInt(1006), payout)

	staking := thor.StakingAddress
	withdrawn, err := rt.LogDB().FilterEvents(ctx, &logdb.EventFilter{Address: &staking, Name: "Withdrawn"})
	require.NoError(t, err)
	require.Len(t, withdrawn, 1)
	assert.Equal(t, *now, withdrawn[0].Time)
}

func TestChangedSignalsCommits(t *testing.T) {
	rt, _ := newTestRuntime(t)
	ctx := context.Background()

	changed := rt.Changed()
	require.Error(t, rt.Call(ctx, "fail", func(c *builtin.Contracts) error {
		return c.Staking.Pause(alice)
	}))
	select {
	case <-changed:
		t.Fatal("signalled on a reverted call")
	default:
	}

	require.NoError(t, rt.Call(ctx, "mint", func(c *builtin.Contracts) error {
		return c.Token.Mint(alice, big.NewInt(1))
	}))
	select {
	case <-changed:
	default:
		t.Fatal("not signalled on commit")
	}
	assert.NotEqual(t, changed, rt.Changed())
}
