package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerMetrics_IsolatedRegistries(t *testing.T) {
	first := NewServerMetrics("api")
	second := NewServerMetrics("api")

	first.Requests.WithLabelValues("/v1/cart", "GET", "200").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(first.Requests.WithLabelValues("/v1/cart", "GET", "200")))
	assert.Equal(t, float64(0), testutil.ToFloat64(second.Requests.WithLabelValues("/v1/cart", "GET", "200")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := NewServerMetrics("api")
	m.Requests.WithLabelValues("/v1/cart", "GET", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cartstore_api_http_requests_total{handler="/v1/cart",method="GET",status="200"} 1`)
}
