package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	ToolRequestsTotal   *prometheus.CounterVec
	ToolRequestDuration *prometheus.HistogramVec

	SearchRequestsTotal   *prometheus.CounterVec
	SearchRequestDuration *prometheus.HistogramVec

	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		ToolRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsdigest_tool_requests_total",
				Help: "Total number of tool invocations",
			},
			[]string{"status"},
		),
		ToolRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "newsdigest_tool_request_duration_seconds",
				Help:    "Tool invocation duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{},
		),

		SearchRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsdigest_search_requests_total",
				Help: "Total number of search API requests",
			},
			[]string{"status"},
		),
		SearchRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "newsdigest_search_request_duration_seconds",
				Help:    "Search request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{},
		),

		LLMRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsdigest_llm_requests_total",
				Help: "Total number of LLM API requests",
			},
			[]string{"provider", "status"},
		),
		LLMRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "newsdigest_llm_request_duration_seconds",
				Help:    "LLM request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),
	}

	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordToolRequest(status string, duration time.Duration) {
	m.ToolRequestsTotal.WithLabelValues(status).Inc()
	m.ToolRequestDuration.WithLabelValues().Observe(duration.Seconds())
}

func (m *Metrics) RecordSearchRequest(status string, duration time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(status).Inc()
	m.SearchRequestDuration.WithLabelValues().Observe(duration.Seconds())
}

func (m *Metrics) RecordLLMRequest(provider, status string, duration time.Duration) {
	m.LLMRequestsTotal.WithLabelValues(provider, status).Inc()
	m.LLMRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}
