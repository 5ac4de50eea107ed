// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/thor-staking/metrics"

var (
	metricCalls        = metrics.LazyLoadCounterVec("runtime_calls_count", []string{"call", "result"})
	metricCallDuration = metrics.LazyLoadHistogramVec("runtime_call_duration_us", []string{"call"}, metrics.BucketCallMicros)
)
