package jobs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments the worker. A nil *Metrics records nothing.
type Metrics struct {
	jobsTotal     *prometheus.CounterVec
	auditsTotal   *prometheus.CounterVec
	renderSeconds prometheus.Histogram
	skippedTicks  prometheus.Counter
	inProgress    prometheus.Gauge
}

// NewMetrics creates the worker metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cobit5_report_jobs_total",
				Help: "Report jobs finished, by final status.",
			},
			[]string{"status"},
		),
		auditsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cobit5_report_job_audits_total",
				Help: "Audits processed by report jobs, by outcome.",
			},
			[]string{"outcome"},
		),
		renderSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cobit5_report_render_duration_seconds",
			Help:    "Time to fetch, render and store one audit report.",
			Buckets: prometheus.DefBuckets,
		}),
		skippedTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cobit5_report_worker_skipped_ticks_total",
			Help: "Worker ticks skipped because a previous tick was still running.",
		}),
		inProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cobit5_report_jobs_in_progress",
			Help: "Report jobs currently being processed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.jobsTotal, m.auditsTotal, m.renderSeconds, m.skippedTicks, m.inProgress)
	}
	return m
}

func (m *Metrics) jobStarted() {
	if m == nil {
		return
	}
	m.inProgress.Inc()
}

func (m *Metrics) jobFinished(status Status) {
	if m == nil {
		return
	}
	m.inProgress.Dec()
	m.jobsTotal.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) auditProcessed(ok bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "error"
	}
	m.auditsTotal.WithLabelValues(outcome).Inc()
	m.renderSeconds.Observe(elapsed.Seconds())
}

func (m *Metrics) tickSkipped() {
	if m == nil {
		return
	}
	m.skippedTicks.Inc()
}
