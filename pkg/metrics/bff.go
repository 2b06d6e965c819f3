package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BFFMetrics records outbound calls made to the backend-for-frontend API.
type BFFMetrics struct {
	duration *prometheus.HistogramVec
	failure  *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
}

// NewBFFMetrics registers the BFF client metrics on the provided registerer.
func NewBFFMetrics(reg prometheus.Registerer) *BFFMetrics {
	if reg == nil {
		return &BFFMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bff_request_duration_seconds",
		Help:    "Duration of BFF requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bff_request_failure",
		Help: "BFF requests that returned a non-2xx status or failed in transport.",
	}, []string{"method", "status"})
	inFlight := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bff_requests_in_flight",
		Help: "BFF requests currently awaiting a response, per portal.",
	}, []string{"portal"})
	reg.MustRegister(duration, failure, inFlight)
	return &BFFMetrics{
		duration: duration,
		failure:  failure,
		inFlight: inFlight,
	}
}

// ObserveRequest records the outcome of one BFF call. Status 0 means the
// request never produced a response.
func (m *BFFMetrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	label := statusLabel(status)
	m.duration.WithLabelValues(normalizeLabel(method), label).Observe(elapsed.Seconds())
	if status < 200 || status > 299 {
		m.failure.WithLabelValues(normalizeLabel(method), label).Inc()
	}
}

// AddInFlight moves the in-flight gauge for the portal by delta.
func (m *BFFMetrics) AddInFlight(portal string, delta float64) {
	if m == nil || m.inFlight == nil {
		return
	}
	m.inFlight.WithLabelValues(normalizeLabel(portal)).Add(delta)
}

func statusLabel(status int) string {
	if status <= 0 {
		return "transport_error"
	}
	return strconv.Itoa(status)
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
