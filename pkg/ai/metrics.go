package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of model requests.",
		},
		[]string{"provider", "model", "status"},
	)

	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "Model request duration in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"provider", "model"},
	)

	aiTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_used_total",
			Help: "Total tokens consumed, split by prompt and completion.",
		},
		[]string{"provider", "model", "type"},
	)
)

func observeRequest(provider, model, status string, seconds float64) {
	aiRequestsTotal.WithLabelValues(provider, model, status).Inc()
	aiRequestDuration.WithLabelValues(provider, model).Observe(seconds)
}

func observeTokens(provider, model string, prompt, completion int) {
	if prompt > 0 {
		aiTokensUsed.WithLabelValues(provider, model, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		aiTokensUsed.WithLabelValues(provider, model, "completion").Add(float64(completion))
	}
}
