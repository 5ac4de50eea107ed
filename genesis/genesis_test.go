// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-staking/builtin"
	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/builtin/staking/accrual"
	"github.com/vechain/thor-staking/lvldb"
	"github.com/vechain/thor-staking/state"
	"github.com/vechain/thor-staking/thor"
)

const sample = `
governor: "0x000000000000000000000000676f7665726e6f72"
earlyExitPolicy: prorate
tiers:
  - duration: "30d"
    rate: "0.6%"
  - duration: "2160h"
    rate: "0.03"
accounts:
  - address: "0x000000000000000000000000000000616c696365"
    balance: "10000"
  - address: "0x0000000000000000000000000000000000626f62"
    balance: "0x2710"
rewardPool: "100000"
drops:
  - type: 1
    root: "0x1111111111111111111111111111111111111111111111111111111111111111"
    depth: 4
    tier: 1
executor:
  admin: "0x00000000000000000000000000000061646d696e"
  delay: "48h"
  governs: true
`

func TestParseRate(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"0.006", 6e15, false},
		{"0.6%", 6e15, false},
		{"3%", 3e16, false},
		{"1", 1e18, false},
		{"0", 0, false},
		{"0.0000000000000000001", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, big.NewInt(tt.want), got)
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"30d", 30 * thor.Day, false},
		{"720h", 30 * thor.Day, false},
		{"45s", 45, false},
		{"1.5s", 0, true},
		{"-1h", 0, true},
		{"xd", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	gen, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, thor.BytesToAddress([]byte("governor")), gen.Governor)
	require.Len(t, gen.Tiers, 2)
	assert.Equal(t, Duration(30*thor.Day), gen.Tiers[0].Duration)
	assert.Equal(t, Duration(90*thor.Day), gen.Tiers[1].Duration)
	assert.Equal(t, big.NewInt(6e15), &gen.Tiers[0].Rate.Int)
	assert.Equal(t, big.NewInt(3e16), &gen.Tiers[1].Rate.Int)
	require.Len(t, gen.Accounts, 2)
	assert.Equal(t, big.NewInt(10000), (*big.Int)(gen.Accounts[1].Balance))
	require.NotNil(t, gen.Executor)
	assert.Equal(t, Duration(48*3600), gen.Executor.Delay)

	id1, err := gen.ID()
	require.NoError(t, err)
	again, err := Parse([]byte(sample))
	require.NoError(t, err)
	id2, err := again.ID()
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no governor", "tiers: [{duration: 1d, rate: '1%'}]"},
		{"no tiers", "governor: '0x000000000000000000000000676f7665726e6f72'"},
		{"zero duration", "governor: '0x000000000000000000000000676f7665726e6f72'\ntiers: [{duration: 0s, rate: '1%'}]"},
		{"bad policy", "governor: '0x000000000000000000000000676f7665726e6f72'\nearlyExitPolicy: refund\ntiers: [{duration: 1d, rate: '1%'}]"},
		{"drop tier", "governor: '0x000000000000000000000000676f7665726e6f72'\ntiers: [{duration: 1d, rate: '1%'}]\ndrops: [{type: 1, depth: 4, tier: 3}]"},
		{"drop depth", "governor: '0x000000000000000000000000676f7665726e6f72'\ntiers: [{duration: 1d, rate: '1%'}]\ndrops: [{type: 1, depth: 33, tier: 0}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func newContracts(t *testing.T) *builtin.Contracts {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	c, err := builtin.Bind(state.New(db, nil), nil, func() uint64 { return 0 })
	require.NoError(t, err)
	return c
}

func TestApply(t *testing.T) {
	gen, err := Parse([]byte(sample))
	require.NoError(t, err)
	c := newContracts(t)
	require.NoError(t, gen.Apply(c))

	tiers, err := c.Staking.Tiers()
	require.NoError(t, err)
	assert.Len(t, tiers, 2)

	policy, err := c.Staking.EarlyExitPolicy()
	require.NoError(t, err)
	assert.Equal(t, accrual.Prorate, policy)

	pool, err := c.Staking.RewardPool()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100000), pool)

	drop, err := c.Staking.GetDrop(1)
	require.NoError(t, err)
	assert.Equal(t, uint8(4), drop.Depth)

	gov, err := c.Staking.Governor()
	require.NoError(t, err)
	assert.Equal(t, thor.ExecutorAddress, gov)
	_, err = c.Staking.AddTier(gen.Governor, thor.Day, big.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrNotGovernor)

	delay, err := c.Executor.Delay()
	require.NoError(t, err)
	assert.Equal(t, uint64(48*3600), delay)
}

func TestDevnet(t *testing.T) {
	gen := NewDevnet()
	require.NoError(t, gen.Validate())
	c := newContracts(t)
	require.NoError(t, gen.Apply(c))

	accs := DevAccounts()
	balance, err := c.Token.BalanceOf(accs[1].Address)
	require.NoError(t, err)
	assert.Equal(t, (*big.Int)(gen.Accounts[1].Balance), balance)

	gov, err := c.Staking.Governor()
	require.NoError(t, err)
	assert.Equal(t, accs[0].Address, gov)
}
