package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	SessionsPruned   prometheus.Counter
	SessionsMounted  prometheus.Counter
}

// NewMetrics registers the site's collectors on reg. Tests pass a fresh
// registry so repeated construction does not collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_api_requests_total",
			Help: "Requests made to the studio API, by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of requests served by the site.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		SessionsPruned: f.NewCounter(prometheus.CounterOpts{
			Name: "view_sessions_pruned_total",
			Help: "Idle visitor sessions removed by the sweeper.",
		}),
		SessionsMounted: f.NewCounter(prometheus.CounterOpts{
			Name: "view_sessions_mounted_total",
			Help: "Visitor sessions created.",
		}),
	}
}
