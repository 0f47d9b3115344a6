// Package observability provides Prometheus metrics for twcai client calls
// and HTTP middleware for the mock agent server.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LLMBuckets defines histogram buckets suited for agent inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Result labels for RequestsTotal besides the error kinds.
const ResultOK = "ok"

var (
	// RequestsTotal counts client calls by operation and classified result
	// ("ok" or an error kind such as "rate_limited").
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twcai_requests_total",
			Help: "Agent API calls",
		},
		[]string{"operation", "result"},
	)

	// RequestDuration records client call duration in seconds by operation.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "twcai_request_duration_seconds",
			Help:    "Agent API call duration",
			Buckets: LLMBuckets,
		},
		[]string{"operation"},
	)

	// TokensTotal counts tokens reported in usage blocks by direction (input/output).
	TokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twcai_tokens_total",
			Help: "Token count",
		},
		[]string{"direction"},
	)

	// InflightRequests tracks client calls currently waiting on the network.
	InflightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "twcai_inflight_requests",
			Help: "In-flight agent API calls",
		},
	)

	// ServerRequestsTotal counts requests served by the mock agent by method and status class.
	ServerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twcai_mock_requests_total",
			Help: "Mock agent requests",
		},
		[]string{"method", "status"},
	)

	// ServerRequestDuration records mock agent handling time by method.
	ServerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "twcai_mock_request_duration_seconds",
			Help:    "Mock agent request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// RateLimitRejectedTotal counts requests rejected by the mock agent's rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "twcai_mock_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		TokensTotal,
		InflightRequests,
		ServerRequestsTotal,
		ServerRequestDuration,
		RateLimitRejectedTotal,
	)
}

// ObserveCall records one finished client call. An empty result is
// recorded as "ok".
func ObserveCall(operation, result string, elapsed time.Duration) {
	if result == "" {
		result = ResultOK
	}
	RequestsTotal.WithLabelValues(operation, result).Inc()
	RequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveTokens adds reported token usage. Zero counts are skipped.
func ObserveTokens(input, output int) {
	if input > 0 {
		TokensTotal.WithLabelValues("input").Add(float64(input))
	}
	if output > 0 {
		TokensTotal.WithLabelValues("output").Add(float64(output))
	}
}
