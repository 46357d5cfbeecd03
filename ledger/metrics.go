package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are collected for every request processed by the ledger.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Messages        *prometheus.CounterVec
	Height          prometheus.Gauge
}

// NewMetrics creates the ledger collectors and registers them with reg.
// A nil registerer leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantheon_ledger_requests_total",
				Help: "Total number of processed requests",
			},
			[]string{"kind", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pantheon_ledger_request_duration_seconds",
				Help:    "Duration of processed requests",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~0.8s
			},
			[]string{"kind"},
		),
		Messages: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantheon_ledger_messages_total",
				Help: "Total number of messages emitted by contracts",
			},
			[]string{"type", "status"},
		),
		Height: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "pantheon_ledger_height",
				Help: "Height of the last committed request",
			},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
