package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DocumentsTotal      *prometheus.CounterVec
	GenerationDuration  prometheus.Histogram
	RepairsTotal        *prometheus.CounterVec
)

var once sync.Once

// Init registers all collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		DocumentsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsletter_documents_total",
				Help: "Total number of newsletter generation attempts.",
			},
			[]string{"model", "status"},
		)

		GenerationDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "newsletter_generation_duration_seconds",
				Help:    "End-to-end duration of newsletter generation.",
				Buckets: []float64{1, 5, 10, 20, 30, 60, 120, 300},
			},
		)

		RepairsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsletter_repairs_total",
				Help: "Total number of block repairs applied during reconciliation.",
			},
			[]string{"kind"},
		)
	})
}
