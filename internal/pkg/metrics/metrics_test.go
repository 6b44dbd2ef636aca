package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_RecordsOutcome(t *testing.T) {
	m := New()

	assert.NoError(t, m.Track("process").End(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track("process").End(boom), boom)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("process", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("process", "failure")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NoError(t, m.Track("approve").End(nil))
	m.AddPayslips(3)
	m.CacheHit("holidays")
	m.CacheMiss("holidays")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/payroll-runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/payroll-runs/abc", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/payroll-runs/{id}", "404")))

	m.AddPayslips(2)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "payrollx_payslips_generated_total 2"))
}
