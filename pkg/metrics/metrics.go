package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsPrefix = "relay_"

// outcome label values not produced by the relay client
const (
	OutcomeValidation = "validation"
	OutcomeBadRequest = "bad_request"
)

// NoStatusCode labels remote calls which never got a response.
const NoStatusCode = "none"

var (
	// RelayOutcomesCounterVec counts the check requests by outcome and returned status code
	RelayOutcomesCounterVec *prometheus.CounterVec
	// RemoteRequestHistogramVec measures the time taken by the remote availability service
	RemoteRequestHistogramVec *prometheus.HistogramVec
)

// HTTP server instrumentation, see middleware
var (
	HTTPInFlightGauge               prometheus.Gauge
	HTTPRequestsCounterVec          *prometheus.CounterVec
	HTTPRequestDurationHistogramVec *prometheus.HistogramVec
)

// collections
var (
	allCollectors = []prometheus.Collector{}
)

func init() {
	initMetrics()
}

func initMetrics() {
	allCollectors = []prometheus.Collector{}
	RelayOutcomesCounterVec = newCounterVec("outcomes_total", "number of check requests by outcome", "outcome", "code")
	RemoteRequestHistogramVec = newHistogramVec("remote_request_duration_seconds", "time taken by the remote availability service to answer", []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60}, "code")
	HTTPInFlightGauge = newGauge("promhttp_in_flight_requests", "number of requests currently served")
	HTTPRequestsCounterVec = newCounterVec("promhttp_api_requests_total", "number of requests served", "code", "method", "path")
	HTTPRequestDurationHistogramVec = newHistogramVec("promhttp_request_duration_seconds", "time taken to serve a request", prometheus.DefBuckets, "code", "method", "path")
}

// Reset resets all metrics. For testing purpose only!
func Reset() {
	initMetrics()
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	v := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + name,
		Help: help,
	}, labels)
	allCollectors = append(allCollectors, v)
	return v
}

func newHistogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	v := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    metricsPrefix + name,
		Help:    help,
		Buckets: buckets,
	}, labels)
	allCollectors = append(allCollectors, v)
	return v
}

func newGauge(name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: metricsPrefix + name,
		Help: help,
	})
	allCollectors = append(allCollectors, g)
	return g
}

// RegisterCustomMetrics registers the custom metrics in the given registry
func RegisterCustomMetrics(reg prometheus.Registerer) {
	for _, c := range allCollectors {
		reg.MustRegister(c)
	}
}

// RecordOutcome counts one check request
func RecordOutcome(outcome string, code int) {
	RelayOutcomesCounterVec.WithLabelValues(outcome, strconv.Itoa(code)).Inc()
}

// ObserveRemoteRequest records the duration of a remote call. A zero code
// means no response was received.
func ObserveRemoteRequest(code int, duration time.Duration) {
	label := NoStatusCode
	if code != 0 {
		label = strconv.Itoa(code)
	}
	RemoteRequestHistogramVec.WithLabelValues(label).Observe(duration.Seconds())
}
