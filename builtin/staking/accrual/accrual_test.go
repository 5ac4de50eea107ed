// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-staking/builtin/reverts"
	"github.com/vechain/thor-staking/thor"
)

var (
	month     = 30 * thor.Day
	sixPermil = big.NewInt(6e15) // 0.6%
)

func TestPayout(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		elapsed uint64
		policy  Policy
		want    int64
	}{
		{"full term", 1000, month, Forfeit, 1006},
		{"past term is capped", 1000, 10 * month, Forfeit, 1006},
		{"early forfeit", 1000, month - 1, Forfeit, 1000},
		{"early prorate half", 1000, month / 2, Prorate, 1003},
		{"early prorate truncates", 1000, month / 3, Prorate, 1002},
		{"prorate at start", 1000, 0, Prorate, 1000},
		{"dust reward truncates to zero", 100, month, Forfeit, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Payout(big.NewInt(tt.amount), sixPermil, tt.elapsed, month, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, 0, got.Cmp(big.NewInt(tt.want)), "got %v", got)
		})
	}
}

func TestRewardNeverExceedsFullTerm(t *testing.T) {
	principal := new(big.Int).Mul(big.NewInt(123456789), thor.RateScale)
	rate := big.NewInt(3e16)
	full, err := Reward(principal, rate, month, month)
	require.NoError(t, err)

	for _, elapsed := range []uint64{0, 1, month / 7, month - 1, month, month + 1, 1 << 40} {
		r, err := Reward(principal, rate, elapsed, month)
		require.NoError(t, err)
		assert.True(t, r.Cmp(full) <= 0)
	}
}

func TestOverflow(t *testing.T) {
	maxU256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	// the result overflows, not just the product
	_, err := Reward(maxU256, new(big.Int).Mul(big.NewInt(2), thor.RateScale), month, month)
	assert.ErrorIs(t, err, reverts.ErrOverflow)

	_, err = Reward(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1), month, month)
	assert.ErrorIs(t, err, reverts.ErrOverflow)

	// a zero reward never overflows the payout
	got, err := Payout(maxU256, new(big.Int), month, month, Forfeit)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Cmp(maxU256))

	// a full rate on the largest principal overflows
	_, err = Payout(maxU256, thor.RateScale, month, month, Forfeit)
	assert.ErrorIs(t, err, reverts.ErrOverflow)

	_, err = Reward(big.NewInt(1), big.NewInt(1), 1, 0)
	assert.ErrorIs(t, err, reverts.ErrInvalidTier)
}

func TestLargePrincipal(t *testing.T) {
	// principal * rate * duration does not fit 256 bits, the payout does
	principal := new(big.Int).Lsh(big.NewInt(1), 200)
	rate := big.NewInt(3e16)
	fullReward := new(big.Int).Div(new(big.Int).Mul(principal, rate), thor.RateScale)

	got, err := Payout(principal, rate, month, month, Forfeit)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Cmp(new(big.Int).Add(principal, fullReward)))

	got, err = Payout(principal, rate, month/2, month, Prorate)
	require.NoError(t, err)
	half := new(big.Int).Div(new(big.Int).Mul(fullReward, big.NewInt(int64(month/2))), big.NewInt(int64(month)))
	assert.Equal(t, 0, got.Cmp(new(big.Int).Add(principal, half)))

	maxU256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	reward, err := Reward(maxU256, big.NewInt(2), month, month)
	require.NoError(t, err)
	assert.Equal(t, 0, reward.Cmp(new(big.Int).Div(new(big.Int).Mul(maxU256, big.NewInt(2)), thor.RateScale)))
}

func TestPolicyString(t *testing.T) {
	for _, p := range []Policy{Forfeit, Prorate} {
		parsed, err := ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
		assert.True(t, p.Valid())
	}
	_, err := ParsePolicy("linear")
	assert.Error(t, err)
	assert.False(t, Policy(7).Valid())
	assert.Equal(t, "policy(7)", Policy(7).String())
}
