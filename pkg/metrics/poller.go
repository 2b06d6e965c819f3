package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PollerMetrics tracks the dashboard check-in feed.
type PollerMetrics struct {
	polls  *prometheus.CounterVec
	active prometheus.Gauge
}

// NewPollerMetrics registers the poller metrics on the provided registerer.
func NewPollerMetrics(reg prometheus.Registerer) *PollerMetrics {
	if reg == nil {
		return &PollerMetrics{}
	}
	polls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_polls",
		Help: "Dashboard refreshes by outcome.",
	}, []string{"outcome"})
	active := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_feeds_active",
		Help: "Dashboard pollers currently running.",
	})
	reg.MustRegister(polls, active)
	return &PollerMetrics{polls: polls, active: active}
}

// IncPoll counts a refresh. ok=false counts a failed refresh.
func (p *PollerMetrics) IncPoll(ok bool) {
	if p == nil || p.polls == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	p.polls.WithLabelValues(outcome).Inc()
}

// FeedStarted marks a poller as running.
func (p *PollerMetrics) FeedStarted() {
	if p == nil || p.active == nil {
		return
	}
	p.active.Inc()
}

// FeedStopped marks a poller as stopped.
func (p *PollerMetrics) FeedStopped() {
	if p == nil || p.active == nil {
		return
	}
	p.active.Dec()
}
