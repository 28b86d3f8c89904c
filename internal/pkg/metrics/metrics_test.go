package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.CartOperation("add", nil)
	m.CartOperation("add", nil)
	m.CartOperation("add", errors.New("boom"))
	m.CatalogRefresh("stale")
	m.Checkout(decimal.NewFromInt(121), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cartOperations.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartOperations.WithLabelValues("add", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogRefreshes.WithLabelValues("stale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkouts.WithLabelValues("ok")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CartOperation("add", nil)
		m.Checkout(decimal.Zero, nil)
		m.CatalogRefresh("installed")
		m.HTTPRequest("GET", "/", 200, time.Millisecond)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.HTTPRequest("GET", "/api/v1/products", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_request_duration_seconds")
}
