// Package metrics exposes Prometheus instrumentation for API calls and the gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/colombia-api/colombia-cli/internal/api"
)

const namespace = "colombia"

// Outcome label values for colombia_api_calls_total.
const (
	KindOK             = "ok"
	KindRemoteStatus   = "remote_status"
	KindTransportFault = "transport_fault"
)

// Collector holds the call and gateway metrics on its own registry.
type Collector struct {
	registry *prometheus.Registry

	calls        *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	statuses     *prometheus.CounterVec
	requests     *prometheus.CounterVec
	inFlight     prometheus.Gauge
}

// Compile-time interface implementation check
var _ api.Observer = (*Collector)(nil)

// NewCollector creates a Collector with a fresh registry that also carries
// the Go runtime and process collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_calls_total",
			Help:      "Upstream API calls by method and outcome kind.",
		}, []string{"method", "kind"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_call_duration_seconds",
			Help:      "Upstream API call latency, retries included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		statuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_responses_total",
			Help:      "Upstream HTTP status codes received.",
		}, []string{"code"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Gateway requests by route and response status.",
		}, []string{"route", "code"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gateway_requests_in_flight",
			Help:      "Gateway requests currently being served.",
		}),
	}
	c.registry.MustRegister(
		c.calls,
		c.callDuration,
		c.statuses,
		c.requests,
		c.inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveCall records one completed api.Client call.
func (c *Collector) ObserveCall(method, _ string, env api.Envelope, elapsed time.Duration) {
	kind := KindOK
	if env.Err != nil {
		kind = env.Err.Kind.String()
	}
	c.calls.WithLabelValues(method, kind).Inc()
	c.callDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	if code := env.StatusCode(); code != 0 {
		c.statuses.WithLabelValues(strconv.Itoa(code)).Inc()
	}
}

// ObserveRequest records one gateway response.
func (c *Collector) ObserveRequest(route string, status int) {
	c.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// TrackInFlight increments the in-flight gauge and returns the matching decrement.
func (c *Collector) TrackInFlight() func() {
	c.inFlight.Inc()
	return c.inFlight.Dec
}
