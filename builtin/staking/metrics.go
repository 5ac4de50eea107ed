// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/vechain/thor-staking/metrics"

var (
	metricStakes        = metrics.LazyLoadCounterVec("staking_stakes_count", []string{"kind"})
	metricWithdrawals   = metrics.LazyLoadCounterVec("staking_withdrawals_count", []string{"early"})
	metricReverts       = metrics.LazyLoadCounterVec("staking_reverts_count", []string{"revert"})
	metricInvalidProofs = metrics.LazyLoadCounter("staking_invalid_proofs_count")
)
