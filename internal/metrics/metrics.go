// Package metrics exposes Prometheus instruments for the document pipeline
// and decision notifications. All recording methods are nil-safe so tests
// can run systems without a registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline holds the pipeline's Prometheus instruments.
type Pipeline struct {
	stageDuration *prometheus.HistogramVec
	runsTotal     *prometheus.CounterVec
	decisions     *prometheus.CounterVec
	notifications *prometheus.CounterVec
	queueDepth    prometheus.Gauge
}

// NewPipeline registers the pipeline instruments with reg.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	f := promauto.With(reg)

	return &Pipeline{
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kyc",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stage executions.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage", "outcome"}),

		runsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kyc",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Completed document pipeline runs.",
		}, []string{"outcome"}),

		decisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kyc",
			Subsystem: "pipeline",
			Name:      "decisions_total",
			Help:      "Risk decisions by outcome.",
		}, []string{"decision"}),

		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kyc",
			Subsystem: "notify",
			Name:      "notifications_total",
			Help:      "Decision notification deliveries by outcome.",
		}, []string{"outcome"}),

		queueDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "kyc",
			Subsystem: "pipeline",
			Name:      "queue_depth",
			Help:      "Documents waiting for a pipeline worker.",
		}),
	}
}

// ObserveStage records one stage execution.
func (p *Pipeline) ObserveStage(stage, outcome string, seconds float64) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage, outcome).Observe(seconds)
}

// RunCompleted counts one finished document run.
func (p *Pipeline) RunCompleted(outcome string) {
	if p == nil {
		return
	}
	p.runsTotal.WithLabelValues(outcome).Inc()
}

// DecisionMade counts one scoring decision.
func (p *Pipeline) DecisionMade(decision string) {
	if p == nil {
		return
	}
	p.decisions.WithLabelValues(decision).Inc()
}

// NotificationResult counts one notification delivery attempt.
func (p *Pipeline) NotificationResult(outcome string) {
	if p == nil {
		return
	}
	p.notifications.WithLabelValues(outcome).Inc()
}

// SetQueueDepth records the current dispatch queue length.
func (p *Pipeline) SetQueueDepth(n int) {
	if p == nil {
		return
	}
	p.queueDepth.Set(float64(n))
}

// Handler serves the registry in Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
