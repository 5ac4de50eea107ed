// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestNoopMetrics(t *testing.T) {
	m := defaultNoopMetrics()
	m.GetOrCreateCountMeter("noop").Add(1)
	m.GetOrCreateGaugeMeter("noop").Set(1)
	m.GetOrCreateHistogramMeter("noop", nil).Observe(1)
	require.Nil(t, m.GetOrCreateHandler())
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()
	require.NotNil(t, HTTPHandler())

	count := Counter("test_count")
	count.Add(2)
	Counter("test_count").Add(3)

	countVec := LazyLoadCounterVec("test_count_vec", []string{"kind"})
	countVec().AddWithLabel(1, map[string]string{"kind": "stake"})
	countVec().AddWithLabel(4, map[string]string{"kind": "claim"})

	gauge := LazyLoadGauge("test_gauge")
	gauge().Set(10)
	gauge().Add(-3)

	hist := Histogram("test_hist", BucketCallMicros)
	hist.Observe(42)
	HistogramVec("test_hist_vec", []string{"method"}, nil).ObserveWithLabels(7, map[string]string{"method": "stake"})

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	require.Equal(t, float64(5), byName["staking_test_count"].GetMetric()[0].GetCounter().GetValue())
	require.Equal(t, float64(7), byName["staking_test_gauge"].GetMetric()[0].GetGauge().GetValue())
	require.Equal(t, uint64(1), byName["staking_test_hist"].GetMetric()[0].GetHistogram().GetSampleCount())
	require.Len(t, byName["staking_test_count_vec"].GetMetric(), 2)
	require.Len(t, byName["staking_test_hist_vec"].GetMetric(), 1)
}
