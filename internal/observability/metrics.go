// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codelens_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ReviewRequests counts review generation attempts by outcome.
	ReviewRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codelens_review_requests_total",
		Help: "Total number of AI review requests by outcome",
	}, []string{"outcome"})

	// UpstreamLatency records generative-AI call latency in seconds.
	UpstreamLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "codelens_upstream_latency_seconds",
		Help:    "Latency of calls to the generative AI service",
		Buckets: prometheus.DefBuckets,
	})

	// HistoryAppendFailures counts best-effort history saves that were
	// suppressed during the review flow.
	HistoryAppendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codelens_history_append_failures_total",
		Help: "Total number of suppressed review-history save failures",
	})
)
