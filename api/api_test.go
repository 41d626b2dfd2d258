// Copyright (c) 2024 The VeChainThor developers

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

	"github.com/vechain/eoaproxy/builtin"
	"github.com/vechain/eoaproxy/log"
	"github.com/vechain/eoaproxy/lvldb"
	"github.com/vechain/eoaproxy/metrics"
	"github.com/vechain/eoaproxy/runtime"
	"github.com/vechain/eoaproxy/state"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func newServer(t *testing.T, opts Options) *httptest.Server {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rt := runtime.New(state.New(db, 1), 1)
	require.NoError(t, rt.DeployBuiltins())

	ts := httptest.NewServer(New(rt, opts))
	t.Cleanup(ts.Close)
	return ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func TestMetricsMiddleware(t *testing.T) {
	ts := newServer(t, Options{EnableMetrics: true})

	_, code := httpGet(t, ts.URL+"/accounts/"+builtin.Proxy.Address.String())
	assert.Equal(t, http.StatusOK, code)
	_, code = httpGet(t, ts.URL+"/accounts/0xbad")
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = httpGet(t, ts.URL+"/not/found")
	assert.Equal(t, http.StatusNotFound, code)

	body, code := httpGet(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, code)

	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	family, ok := families["eoaproxy_api_request_count"]
	require.True(t, ok)
	counts := make(map[string]float64)
	for _, m := range family.GetMetric() {
		labels := make(map[string]string)
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		assert.Equal(t, "accounts_get_account", labels["name"])
		assert.Equal(t, "GET", labels["method"])
		counts[labels["code"]] += m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"200": 1, "400": 1}, counts)

	_, ok = families["eoaproxy_api_duration_ms"]
	assert.True(t, ok)
}

func TestMetricsDisabled(t *testing.T) {
	ts := newServer(t, Options{})
	_, code := httpGet(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCORS(t *testing.T) {
	ts := newServer(t, Options{AllowedOrigins: "https://wallet.example"})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/accounts/"+builtin.Proxy.Address.String(), nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://wallet.example")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "https://wallet.example", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogger(log.JSONHandler(&buf))

	handler := RequestLoggerHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "test body", string(body))
		w.WriteHeader(http.StatusAccepted)
	}), logger)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString("test body")))

	assert.Equal(t, http.StatusAccepted, recorder.Code)
	assert.Contains(t, buf.String(), `"URI":"/test"`)
	assert.Contains(t, buf.String(), `"Body":"test body"`)
	assert.Contains(t, buf.String(), `"status":202`)
}
