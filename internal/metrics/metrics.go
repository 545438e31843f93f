package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generate outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
)

var (
	GenerateRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bedtime_generate_requests_total",
		Help: "Story generation requests by outcome",
	}, []string{"outcome"})

	UpstreamLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bedtime_upstream_latency_seconds",
		Help:    "Latency of Gemini generateContent calls",
		Buckets: prometheus.DefBuckets,
	})
)
