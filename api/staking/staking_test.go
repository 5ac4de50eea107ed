// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-staking/api/staking"
	"github.com/vechain/thor-staking/api/utils"
	"github.com/vechain/thor-staking/builtin"
	"github.com/vechain/thor-staking/genesis"
	"github.com/vechain/thor-staking/test/testnode"
	"github.com/vechain/thor-staking/thor"
)

var (
	ts   *httptest.Server
	node *testnode.Node
)

func TestStaking(t *testing.T) {
	initStakingServer(t)
	defer ts.Close()
	defer node.Close()

	t.Run("getTiers", testGetTiers)
	t.Run("getTotals", testGetTotals)
	t.Run("stakeAndWithdraw", testStakeAndWithdraw)
	t.Run("stakeReverts", testStakeReverts)
	t.Run("getStakeNotFound", testGetStakeNotFound)
	t.Run("badRequests", testBadRequests)
	t.Run("tierGovernance", testTierGovernance)
	t.Run("fund", testFund)
}

func initStakingServer(t *testing.T) {
	var err error
	node, err = testnode.NewDefault()
	require.NoError(t, err)

	router := mux.NewRouter()
	staking.New(node.Runtime()).Mount(router, "/staking")
	ts = httptest.NewServer(router)

	// every dev account lets the engine pull its tokens
	require.NoError(t, node.Call(func(c *builtin.Contracts) error {
		for _, acc := range genesis.DevAccounts() {
			allowance := new(big.Int).Lsh(big.NewInt(1), 200)
			if err := c.Token.Approve(acc.Address, c.Staking.Address(), allowance); err != nil {
				return err
			}
		}
		return nil
	}))
}

func httpDo(t *testing.T, method, url string, body any) ([]byte, int) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res.StatusCode
}

func decode[T any](t *testing.T, data []byte) T {
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func amount(v int64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(big.NewInt(v))
}

func testGetTiers(t *testing.T) {
	data, status := httpDo(t, http.MethodGet, ts.URL+"/staking/tiers", nil)
	require.Equal(t, http.StatusOK, status)

	tiers := decode[[]staking.Tier](t, data)
	require.Len(t, tiers, 2)
	assert.Equal(t, 30*thor.Day, tiers[0].Duration)
	assert.Equal(t, big.NewInt(6e15), (*big.Int)(tiers[0].Rate))
	assert.Equal(t, uint32(1), tiers[1].Index)
}

func testGetTotals(t *testing.T) {
	data, status := httpDo(t, http.MethodGet, ts.URL+"/staking/totals", nil)
	require.Equal(t, http.StatusOK, status)

	totals := decode[staking.Totals](t, data)
	assert.Equal(t, (*big.Int)(node.Genesis().RewardPool), (*big.Int)(totals.RewardPool))
	assert.Equal(t, "forfeit", totals.EarlyExitPolicy)
	assert.False(t, totals.Paused)
}

func testStakeAndWithdraw(t *testing.T) {
	staker := genesis.DevAccounts()[1].Address

	data, status := httpDo(t, http.MethodPost, ts.URL+"/staking/stakes", &staking.StakeRequest{
		Caller: staker,
		Amount: amount(1000),
		Tier:   0,
	})
	require.Equal(t, http.StatusOK, status, string(data))
	id := (*big.Int)(decode[staking.IDResponse](t, data).ID)

	data, status = httpDo(t, http.MethodGet, ts.URL+"/staking/stakes/"+id.String(), nil)
	require.Equal(t, http.StatusOK, status)
	stake := decode[staking.Stake](t, data)
	assert.Equal(t, staker, stake.Owner)
	assert.False(t, stake.Closed)
	// forfeit before term
	assert.Equal(t, big.NewInt(1000), (*big.Int)(stake.Quote))

	data, status = httpDo(t, http.MethodGet, ts.URL+"/staking/accounts/"+staker.String()+"/stakes", nil)
	require.Equal(t, http.StatusOK, status)
	stakes := decode[[]staking.Stake](t, data)
	require.Len(t, stakes, 1)
	assert.Equal(t, id, (*big.Int)(stakes[0].ID))

	node.Advance(30 * thor.Day)
	data, status = httpDo(t, http.MethodPost, ts.URL+"/staking/stakes/"+id.String()+"/withdraw", &staking.CallerRequest{Caller: staker})
	require.Equal(t, http.StatusOK, status, string(data))
	assert.Equal(t, big.NewInt(1006), (*big.Int)(decode[staking.PayoutResponse](t, data).Payout))

	data, status = httpDo(t, http.MethodPost, ts.URL+"/staking/stakes/"+id.String()+"/withdraw", &staking.CallerRequest{Caller: staker})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "already withdrawn", decode[utils.RevertResponse](t, data).Error)

	data, status = httpDo(t, http.MethodGet, ts.URL+"/staking/stakes/"+id.String(), nil)
	require.Equal(t, http.StatusOK, status)
	stake = decode[staking.Stake](t, data)
	assert.True(t, stake.Closed)
	assert.Nil(t, stake.Quote)
	assert.Equal(t, big.NewInt(1006), (*big.Int)(stake.Payout))
}

func testStakeReverts(t *testing.T) {
	staker := genesis.DevAccounts()[2].Address
	tests := []struct {
		name string
		body *staking.StakeRequest
		want string
	}{
		{"zero amount", &staking.StakeRequest{Caller: staker, Amount: amount(0)}, "zero amount"},
		{"missing amount", &staking.StakeRequest{Caller: staker}, "zero amount"},
		{"invalid tier", &staking.StakeRequest{Caller: staker, Amount: amount(1), Tier: 9}, "invalid tier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, status := httpDo(t, http.MethodPost, ts.URL+"/staking/stakes", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			res := decode[utils.RevertResponse](t, data)
			assert.Equal(t, tt.want, res.Error)
			assert.NotEmpty(t, res.Data)
		})
	}
}

func testGetStakeNotFound(t *testing.T) {
	_, status := httpDo(t, http.MethodGet, ts.URL+"/staking/stakes/1000", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func testBadRequests(t *testing.T) {
	_, status := httpDo(t, http.MethodGet, ts.URL+"/staking/stakes/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpDo(t, http.MethodGet, ts.URL+"/staking/accounts/0x12/stakes", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpDo(t, http.MethodPost, ts.URL+"/staking/stakes", map[string]any{"unknown": 1})
	assert.Equal(t, http.StatusBadRequest, status)
}

func testTierGovernance(t *testing.T) {
	governor := genesis.DevAccounts()[0].Address
	outsider := genesis.DevAccounts()[3].Address

	data, status := httpDo(t, http.MethodPost, ts.URL+"/staking/tiers", &staking.TierRequest{
		Caller:   outsider,
		Duration: thor.Day,
		Rate:     amount(1e15),
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "not governor", decode[utils.RevertResponse](t, data).Error)

	data, status = httpDo(t, http.MethodPost, ts.URL+"/staking/tiers", &staking.TierRequest{
		Caller:   governor,
		Duration: thor.Day,
		Rate:     amount(1e15),
	})
	require.Equal(t, http.StatusOK, status, string(data))
	index := decode[staking.IndexResponse](t, data).Index
	assert.Equal(t, uint32(2), index)

	data, status = httpDo(t, http.MethodPut, ts.URL+"/staking/tiers/2", &staking.TierRequest{
		Caller:   governor,
		Duration: 2 * thor.Day,
		Rate:     amount(2e15),
	})
	require.Equal(t, http.StatusOK, status, string(data))

	data, _ = httpDo(t, http.MethodGet, ts.URL+"/staking/tiers", nil)
	tiers := decode[[]staking.Tier](t, data)
	require.Len(t, tiers, 3)
	assert.Equal(t, 2*thor.Day, tiers[2].Duration)
}

func testFund(t *testing.T) {
	funder := genesis.DevAccounts()[4].Address

	data, _ := httpDo(t, http.MethodGet, ts.URL+"/staking/totals", nil)
	before := (*big.Int)(decode[staking.Totals](t, data).RewardPool)

	data, status := httpDo(t, http.MethodPost, ts.URL+"/staking/fund", &staking.FundRequest{Caller: funder, Amount: amount(5000)})
	require.Equal(t, http.StatusOK, status, string(data))

	data, _ = httpDo(t, http.MethodGet, ts.URL+"/staking/totals", nil)
	after := (*big.Int)(decode[staking.Totals](t, data).RewardPool)
	assert.Equal(t, new(big.Int).Add(before, big.NewInt(5000)), after)
}
