// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-staking/api/middleware"
	"github.com/vechain/thor-staking/metrics"
	"github.com/vechain/thor-staking/test/testnode"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func httpGet(t *testing.T, url string) ([]byte, *http.Response) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res
}

func TestRoutes(t *testing.T) {
	node, err := testnode.NewDefault()
	require.NoError(t, err)
	defer node.Close()

	handler, closeSubs := New(node.Runtime(), Options{AllowedOrigins: "*", EventsLimit: 100})
	ts := httptest.NewServer(handler)
	defer func() { closeSubs(); ts.Close() }()

	for _, path := range []string{
		"/staking/tiers",
		"/staking/totals",
		"/governance",
		"/governance/executor",
		"/token",
		"/events",
	} {
		_, res := httpGet(t, ts.URL+path)
		assert.Equal(t, http.StatusOK, res.StatusCode, path)
		assert.NotEmpty(t, res.Header.Get(middleware.RequestIDHeader), path)
	}

	_, res := httpGet(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestMetricsMiddleware(t *testing.T) {
	node, err := testnode.NewDefault()
	require.NoError(t, err)
	defer node.Close()

	handler, closeSubs := New(node.Runtime(), Options{EnableMetrics: true, EventsLimit: 100})
	ts := httptest.NewServer(handler)
	defer func() { closeSubs(); ts.Close() }()

	_, res := httpGet(t, ts.URL+"/staking/tiers")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	_, res = httpGet(t, ts.URL+"/staking/stakes/99")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	_, res = httpGet(t, ts.URL+"/staking/stakes/99")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	body, _ := httpGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	counts := make(map[string]float64)
	for _, m := range families["staking_api_request_count"].GetMetric() {
		labels := make(map[string]string)
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		counts[labels["name"]+" "+labels["code"]] = m.GetCounter().GetValue()
	}
	assert.Equal(t, float64(1), counts["GET /staking/tiers 200"])
	assert.Equal(t, float64(2), counts["GET /staking/stakes/{id} 404"])

	assert.NotNil(t, families["staking_api_duration_ms"])
}
