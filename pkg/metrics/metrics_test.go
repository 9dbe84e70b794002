package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHandlerServesOwnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "coffeeshop")
	m.Checkouts.WithLabelValues("placed").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "coffeeshop_checkouts_total") {
		t.Fatalf("scrape missing registered counter:\n%s", body)
	}
	if strings.Contains(body, "coffeeshop_coffeeshop_") {
		t.Fatalf("metric names carry a doubled namespace:\n%s", body)
	}
}

func TestNewIsolatedRegistries(t *testing.T) {
	// Two instances must not collide; each gets its own registry when nil.
	New(nil, "a")
	New(nil, "a")
}
