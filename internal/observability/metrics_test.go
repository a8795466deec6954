package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	metrics := NewMetrics()
	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/api/bills/{id}")
	req := httptest.NewRequest(http.MethodGet, "/api/bills/abc", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusTeapot, rr.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("/api/bills/{id}", "418")))
}

func TestStoreObserver(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveMutation("create_bill", nil)
	metrics.ObserveMutation("create_bill", nil)
	metrics.ObserveMutation("record_payment", errors.New("not found"))
	metrics.ObserveSave(nil, 5*time.Millisecond)
	metrics.ObserveSave(errors.New("timeout"), time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.mutationsTotal.WithLabelValues("create_bill", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.mutationsTotal.WithLabelValues("record_payment", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.savesTotal.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.saveDuration))
}

func TestHandlerExposesMetrics(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveSave(nil, time.Millisecond)

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `jewelry_store_saves_total{result="ok"} 1`)

	var nilMetrics *Metrics
	rr = httptest.NewRecorder()
	nilMetrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
