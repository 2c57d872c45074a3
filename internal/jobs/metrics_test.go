package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/report"
)

func TestMetricsRecordJobOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	f := setup(t, 2)
	w := NewWorker(f.store, f.source, report.NewRenderer(), f.files, WithMetrics(m))
	broken := f.audits[0].ID
	w.render = func(v report.Variant, agg *report.Aggregate) ([]byte, error) {
		if agg.Audit.ID == broken {
			return nil, errors.New("boom")
		}
		return []byte("%PDF-fake"), nil
	}
	f.submit(t, Filters{})

	w.Tick(context.Background())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsTotal.WithLabelValues(string(StatusCompleted))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.auditsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.auditsTotal.WithLabelValues("error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inProgress))
}

func TestMetricsSkippedTick(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	f := setup(t, 0)
	w := NewWorker(f.store, f.source, report.NewRenderer(), f.files, WithMetrics(m))

	assert.True(t, w.begin())
	assert.False(t, w.Tick(context.Background()))
	w.end()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.skippedTicks))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.jobStarted()
		m.jobFinished(StatusFailed)
		m.tickSkipped()
	})
}
