package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
	CartOps   *prometheus.CounterVec
	Checkouts *prometheus.CounterVec

	reg *prometheus.Registry
}

// New registers the collectors with reg, creating a fresh registry when reg
// is nil. Handler serves that same registry, so scrapes see exactly what was
// registered here. The service name rides along as a constant label.
func New(reg *prometheus.Registry, service string) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	labels := prometheus.Labels{"service": service}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "coffeeshop",
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests.",
		ConstLabels: labels,
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   "coffeeshop",
		Name:        "http_request_duration_ms",
		Help:        "HTTP request latency in milliseconds.",
		Buckets:     []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		ConstLabels: labels,
	}, []string{"handler"})
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "coffeeshop",
		Name:        "cart_operations_total",
		Help:        "Cart mutations by operation.",
		ConstLabels: labels,
	}, []string{"op"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "coffeeshop",
		Name:        "checkouts_total",
		Help:        "Checkout attempts by outcome.",
		ConstLabels: labels,
	}, []string{"outcome"})

	reg.MustRegister(requests, latency, cartOps, checkouts)
	return &Metrics{
		Requests:  requests,
		LatencyMS: latency,
		CartOps:   cartOps,
		Checkouts: checkouts,
		reg:       reg,
	}
}

// Handler exposes the registry the collectors were registered with.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
