// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-staking/builtin/governance"
	"github.com/vechain/thor-staking/builtin/params"
	"github.com/vechain/thor-staking/builtin/solidity"
	"github.com/vechain/thor-staking/builtin/token"
	"github.com/vechain/thor-staking/lvldb"
	"github.com/vechain/thor-staking/merkle"
	"github.com/vechain/thor-staking/state"
	"github.com/vechain/thor-staking/thor"
)

var (
	governor = thor.BytesToAddress([]byte("governor"))
	alice    = thor.BytesToAddress([]byte("alice"))
	bob      = thor.BytesToAddress([]byte("bob"))

	month   = 30 * thor.Day
	quarter = 90 * thor.Day

	// 0.6% over 30 days, 3% over 90 days
	defaultDurations = []uint64{month, quarter}
	defaultRates     = []*big.Int{big.NewInt(6e15), big.NewInt(3e16)}
)

type recorder struct {
	events []*solidity.Event
}

func (r *recorder) Emit(ev *solidity.Event) { r.events = append(r.events, ev) }

func (r *recorder) named(name string) []*solidity.Event {
	var out []*solidity.Event
	for _, ev := range r.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

type testEnv struct {
	now     uint64
	state   *state.State
	token   *token.Token
	staking *Staking
	events  *recorder
}

// newTestEnv wires an engine over a fresh in-memory state. asset overrides the token binding when set.
func newTestEnv(t *testing.T, wrap func(*token.Binding) Asset) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		now:    1_700_000_000,
		state:  state.New(db, state.NewCache(1024)),
		events: &recorder{},
	}
	env.token = token.New(thor.TokenAddress, env.state, env.events)

	var asset Asset = env.token.Bind(thor.StakingAddress)
	if wrap != nil {
		asset = wrap(env.token.Bind(thor.StakingAddress))
	}
	env.staking = New(
		thor.StakingAddress,
		env.state,
		governance.New(thor.GovernanceAddress, env.state, env.events),
		params.New(thor.ParamsAddress, env.state),
		asset,
		env.events,
		func() uint64 { return env.now },
	)
	return env
}

// newInitializedEnv returns an env with the default tiers, a funded reward pool and funded users.
func newInitializedEnv(t *testing.T) *testEnv {
	env := newTestEnv(t, nil)
	require.NoError(t, env.staking.Initialize(governor, defaultDurations, defaultRates))
	env.mint(t, alice, 10_000)
	env.mint(t, bob, 10_000)
	env.mint(t, governor, 100_000)
	require.NoError(t, env.staking.Fund(governor, big.NewInt(100_000)))
	return env
}

// mint credits addr and approves the engine for the whole balance.
func (env *testEnv) mint(t *testing.T, addr thor.Address, amount int64) {
	require.NoError(t, env.token.Mint(addr, big.NewInt(amount)))
	bal, err := env.token.BalanceOf(addr)
	require.NoError(t, err)
	require.NoError(t, env.token.Approve(addr, thor.StakingAddress, bal))
}

func (env *testEnv) advance(seconds uint64) {
	env.now += seconds
}

func (env *testEnv) balance(t *testing.T, addr thor.Address) *big.Int {
	bal, err := env.token.BalanceOf(addr)
	require.NoError(t, err)
	return bal
}

type dropEntry struct {
	account thor.Address
	amount  *big.Int
}

// newDrop builds a 16 leaf, 4 level tree whose leaf 5 belongs to alice for 500.
func newDrop(t *testing.T) ([]dropEntry, *merkle.Tree) {
	entries := make([]dropEntry, 16)
	leaves := make([]thor.Bytes32, 16)
	for i := range entries {
		entries[i] = dropEntry{thor.BytesToAddress([]byte{0xd, byte(i)}), big.NewInt(int64(100 + i))}
	}
	entries[5] = dropEntry{alice, big.NewInt(500)}
	for i, e := range entries {
		leaf, err := merkle.LeafHash(e.account, e.amount, uint64(i))
		require.NoError(t, err)
		leaves[i] = leaf
	}
	tree, err := merkle.NewTree(leaves)
	require.NoError(t, err)
	require.Equal(t, uint8(4), tree.Depth())
	return entries, tree
}
