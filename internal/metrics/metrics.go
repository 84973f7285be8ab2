package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
)

// Recorder exposes terminal metrics to Prometheus.
type Recorder struct {
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	fallbacks        *prometheus.CounterVec
	strength         *prometheus.GaugeVec
	dollarIndex      prometheus.Gauge
	advisories       *prometheus.CounterVec
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		upstreamRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxterminal_upstream_requests_total",
				Help: "Upstream calls by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		upstreamLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fxterminal_upstream_duration_seconds",
				Help:    "Duration of upstream calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		fallbacks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxterminal_fallbacks_total",
				Help: "Snapshots built from fallback data instead of live data",
			},
			[]string{"source"},
		),
		strength: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fxterminal_currency_strength_pct",
				Help: "Latest strength score per currency",
			},
			[]string{"currency"},
		),
		dollarIndex: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "fxterminal_dollar_index",
				Help: "Latest dollar index close",
			},
		),
		advisories: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxterminal_advisories_total",
				Help: "Advisory requests by outcome",
			},
			[]string{"outcome"},
		),
	}
}

func (r *Recorder) RecordUpstream(source string, ok bool, seconds float64) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	r.upstreamRequests.WithLabelValues(source, outcome).Inc()
	r.upstreamLatency.WithLabelValues(source).Observe(seconds)
}

func (r *Recorder) RecordFallback(source string) {
	r.fallbacks.WithLabelValues(source).Inc()
}

func (r *Recorder) RecordStrength(s models.Strength) {
	for c, v := range s.Scores {
		r.strength.WithLabelValues(string(c)).Set(v)
	}
	r.dollarIndex.Set(s.Index)
}

func (r *Recorder) RecordAdvisory(outcome string) {
	r.advisories.WithLabelValues(outcome).Inc()
}
