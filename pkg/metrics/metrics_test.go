package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveNode(t *testing.T) {
	r := New()
	r.ObserveNode("guardrail", 10*time.Millisecond, nil, "")
	if got := testutil.CollectAndCount(r.NodeDuration); got != 1 {
		t.Fatalf("expected 1 histogram series, got %d", got)
	}
}

func TestObserveNodeError(t *testing.T) {
	r := New()
	r.ObserveNode("cache", 5*time.Millisecond, http.ErrHandlerTimeout, "timeout")
	if got := testutil.ToFloat64(r.NodeErrors.WithLabelValues("cache", "timeout")); got != 1 {
		t.Fatalf("expected error counter 1, got %f", got)
	}
}

func TestCacheCounters(t *testing.T) {
	r := New()
	r.CacheHits.Inc()
	r.CacheHits.Inc()
	r.CacheMisses.Inc()
	if got := testutil.ToFloat64(r.CacheHits); got != 2 {
		t.Fatalf("expected 2 hits, got %f", got)
	}
	if got := testutil.ToFloat64(r.CacheMisses); got != 1 {
		t.Fatalf("expected 1 miss, got %f", got)
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.QueriesTotal.WithLabelValues("auto_reply").Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "queries_total") {
		t.Error("missing queries_total in handler output")
	}
}
