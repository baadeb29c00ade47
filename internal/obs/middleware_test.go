package obs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/noah-isme/toko-pricing/internal/obs"
)

func TestHTTPMetricsLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("pricing", []float64{1, 10}, registry)
	handler := obs.HTTPObs{Metrics: metrics}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", nil)
	req = req.WithContext(obs.WithRoutePattern(req.Context(), "/api/v1/quotes"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rr.Code)
	}

	total := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodPost, "/api/v1/quotes", "204"))
	if total != 1 {
		t.Fatalf("expected counter to be 1, got %v", total)
	}

	samples := testutil.CollectAndCount(metrics.ReqDur)
	if samples == 0 {
		t.Fatalf("expected histogram sample")
	}

	if metrics.InFlight != nil {
		if val := testutil.ToFloat64(metrics.InFlight); val != 0 {
			t.Fatalf("expected no in-flight requests, got %v", val)
		}
	}
}

func TestPricingMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewPricingMetrics("pricing", registry)
	again := obs.NewPricingMetrics("pricing", registry)

	metrics.ObserveQuote(obs.ResultOK)
	again.ObserveQuote(obs.ResultOK)
	metrics.ObserveBill("applied", 120, 900)
	metrics.ObserveCache(true)
	metrics.ObserveCache(false)

	if got := testutil.ToFloat64(metrics.QuotesTotal.WithLabelValues(obs.ResultOK)); got != 2 {
		t.Fatalf("expected shared counter at 2, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.CouponOutcomes.WithLabelValues("applied")); got != 1 {
		t.Fatalf("expected one applied coupon, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit")); got != 1 {
		t.Fatalf("expected one cache hit, got %v", got)
	}

	var nilMetrics *obs.PricingMetrics
	nilMetrics.ObserveQuote(obs.ResultInvalid)
}

func TestParseBucketsCSV(t *testing.T) {
	got := obs.ParseBucketsCSV(" 5, x, -1, 50 ")
	if len(got) != 2 || got[0] != 5 || got[1] != 50 {
		t.Fatalf("unexpected buckets %v", got)
	}
	if obs.ParseBucketsCSV("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
