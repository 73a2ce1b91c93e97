package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestDomainCounters(t *testing.T) {
	m := New()

	m.IncSignatureRendered("full", "inline")
	m.IncSignatureRendered("full", "inline")
	m.IncSignatureRendered("reply", "cid")
	m.IncDirectoryLookup("hit")
	m.IncTestSend("ok")
	m.IncRateLimitExceeded()

	if got := testutil.ToFloat64(m.SignaturesRenderedTotal.WithLabelValues("full", "inline")); got != 2 {
		t.Errorf("rendered full/inline = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.SignaturesRenderedTotal.WithLabelValues("reply", "cid")); got != 1 {
		t.Errorf("rendered reply/cid = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DirectoryLookupsTotal.WithLabelValues("hit")); got != 1 {
		t.Errorf("directory lookups = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RateLimitExceededTotal); got != 1 {
		t.Errorf("rate limit exceeded = %v, want 1", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics

	// None of these may panic when metrics are disabled.
	m.IncSignatureRendered("full", "inline")
	m.IncDirectoryLookup("miss")
	m.IncTestSend("error")
	m.IncRateLimitExceeded()
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.IncSignatureRendered("full", "inline")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "signatures_rendered_total") {
		t.Error("scrape output missing signatures_rendered_total")
	}
}
