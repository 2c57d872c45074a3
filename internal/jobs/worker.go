package jobs

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/report"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/storage"
)

// DefaultPollInterval is used when no interval is configured.
const DefaultPollInterval = 5 * time.Second

// FilesPath is the URL path under which stored reports are served.
const FilesPath = "/api/reports/files/"

// DownloadURL is the link to a stored report served under baseURL.
func DownloadURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + FilesPath + key
}

// ReportKey is the storage key of an audit's batch report.
func ReportKey(auditID string) string {
	return fmt.Sprintf("audit-report-%s.pdf", auditID)
}

// Notifier is told about every job the worker finishes, whether it
// completed or failed.
type Notifier interface {
	JobFinished(ctx context.Context, j *Job)
}

type renderFunc func(report.Variant, *report.Aggregate) ([]byte, error)

type workerState int

const (
	stateIdle workerState = iota
	stateRunning
)

// Worker drains pending jobs one at a time.
type Worker struct {
	store    *Store
	source   report.Source
	render   renderFunc
	files    storage.Storage
	baseURL  string
	interval time.Duration
	logger   *zap.Logger
	metrics  *Metrics
	notifier Notifier

	mu    sync.Mutex
	state workerState
	wg    sync.WaitGroup
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithPollInterval sets the time between ticks.
func WithPollInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithBaseURL sets the prefix of result download URLs.
func WithBaseURL(u string) WorkerOption {
	return func(w *Worker) { w.baseURL = strings.TrimRight(u, "/") }
}

// WithLogger sets the worker logger.
func WithLogger(l *zap.Logger) WorkerOption {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *Metrics) WorkerOption {
	return func(w *Worker) { w.metrics = m }
}

// WithNotifier registers a Notifier for finished jobs.
func WithNotifier(n Notifier) WorkerOption {
	return func(w *Worker) { w.notifier = n }
}

// NewWorker creates a Worker that renders the full audit report for every
// audit a job matches.
func NewWorker(store *Store, source report.Source, renderer *report.Renderer, files storage.Storage, opts ...WorkerOption) *Worker {
	w := &Worker{
		store:    store,
		source:   source,
		render:   renderer.Render,
		files:    files,
		interval: DefaultPollInterval,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Running reports whether a tick is in flight.
func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == stateRunning
}

func (w *Worker) begin() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == stateRunning {
		return false
	}
	w.state = stateRunning
	return true
}

func (w *Worker) end() {
	w.mu.Lock()
	w.state = stateIdle
	w.mu.Unlock()
}

// Run ticks once immediately and then on every poll interval until ctx is
// cancelled. Ticks that fire while another is running are skipped. Run
// returns after the last tick has finished.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("report worker started", zap.Duration("poll_interval", w.interval))
	defer w.logger.Info("report worker stopped")

	w.spawn(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			return
		case <-ticker.C:
			w.spawn(ctx)
		}
	}
}

func (w *Worker) spawn(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.Tick(ctx)
	}()
}

// Tick processes every pending job in creation order, one after another.
// It returns false without doing anything when a tick is already running.
func (w *Worker) Tick(ctx context.Context) bool {
	if !w.begin() {
		w.metrics.tickSkipped()
		w.logger.Debug("tick skipped, previous tick still running")
		return false
	}
	defer w.end()

	pending, err := w.store.ListPending(ctx)
	if err != nil {
		w.logger.Error("listing pending report jobs", zap.Error(err))
		return true
	}

	for _, j := range pending {
		if ctx.Err() != nil {
			return true
		}
		w.process(ctx, j)
	}
	return true
}

func (w *Worker) process(ctx context.Context, j Job) {
	log := w.logger.With(zap.String("job_id", j.ID))

	claimed, err := w.store.Claim(ctx, j.ID)
	if err != nil {
		log.Error("claiming report job", zap.Error(err))
		return
	}
	if !claimed {
		log.Info("report job already claimed")
		return
	}

	w.metrics.jobStarted()
	log.Info("report job started")

	status, err := w.run(ctx, j, log)
	if err != nil {
		status = StatusFailed
		log.Error("report job failed", zap.Error(err))
		// The job row must still be written when ctx was cancelled.
		if ferr := w.store.Fail(context.WithoutCancel(ctx), j.ID, err.Error()); ferr != nil {
			log.Error("recording job failure", zap.Error(ferr))
		}
	}
	w.metrics.jobFinished(status)
	w.notify(context.WithoutCancel(ctx), j.ID, log)
}

func (w *Worker) notify(ctx context.Context, id string, log *zap.Logger) {
	if w.notifier == nil {
		return
	}
	final, err := w.store.GetByID(ctx, id)
	if err != nil {
		log.Warn("loading finished job for notification", zap.Error(err))
		return
	}
	w.notifier.JobFinished(ctx, final)
}

func (w *Worker) run(ctx context.Context, j Job, log *zap.Logger) (Status, error) {
	filter, err := j.Filters.ListFilter()
	if err != nil {
		return "", fmt.Errorf("resolving filters: %w", err)
	}
	audits, err := w.source.EnumerateAudits(ctx, filter)
	if err != nil {
		return "", fmt.Errorf("enumerating audits: %w", err)
	}

	total := max(len(audits), 1)
	results := make([]Result, 0, len(audits))
	for i, a := range audits {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("cancelled after %d of %d audits: %w", i, len(audits), err)
		}

		results = append(results, w.renderAudit(ctx, a.ID, log))

		progress := int(math.Round(float64(i+1) / float64(total) * 100))
		if err := w.store.UpdateProgress(ctx, j.ID, progress, results); err != nil {
			log.Warn("updating job progress", zap.Int("progress", progress), zap.Error(err))
		}
	}

	// Every audit is stored by now; a shutdown must not turn that into a failure.
	if err := w.store.Complete(context.WithoutCancel(ctx), j.ID, results); err != nil {
		return "", fmt.Errorf("completing job: %w", err)
	}
	log.Info("report job completed", zap.Int("audits", len(audits)))
	return StatusCompleted, nil
}

// renderAudit produces one audit's report. Any failure is captured in the
// returned Result rather than aborting the job.
func (w *Worker) renderAudit(ctx context.Context, auditID string, log *zap.Logger) Result {
	start := time.Now()
	url, err := w.renderAndStore(ctx, auditID)
	w.metrics.auditProcessed(err == nil, time.Since(start))
	if err != nil {
		log.Warn("audit report failed", zap.String("audit_id", auditID), zap.Error(err))
		return Result{AuditID: auditID, Error: err.Error()}
	}
	return Result{AuditID: auditID, URL: url}
}

func (w *Worker) renderAndStore(ctx context.Context, auditID string) (string, error) {
	agg, err := w.source.FetchAggregate(ctx, auditID)
	if err != nil {
		return "", err
	}
	pdf, err := w.render(report.VariantFull, agg)
	if err != nil {
		return "", err
	}
	key := ReportKey(auditID)
	if err := w.files.Put(ctx, key, bytes.NewReader(pdf)); err != nil {
		return "", err
	}
	return DownloadURL(w.baseURL, key), nil
}
