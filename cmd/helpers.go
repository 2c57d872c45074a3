package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/assessment"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/audit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/cobit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/config"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/db"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/finding"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/jobs"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/logging"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/notifications"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/report"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/storage"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/users"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `cobit5 init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// app holds the dependencies shared by the commands.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *db.DB
	users     *users.Store
	catalogue *cobit.Store
	audits    *audit.Store
	assess    *assessment.Store
	findings  *finding.Store
	jobStore  *jobs.Store
	queue     *jobs.Queue
	reports   *report.Service
	files     storage.Storage
}

// newApp loads the config, opens the database and builds the stores,
// the report service and the storage backend.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Verbose(cfg.Log.Level, verbose), cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	files, err := storage.New(ctx, cfg.StorageOptions(), logger)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("opening report storage: %w", err)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		db:        database,
		users:     users.NewStore(database),
		catalogue: cobit.NewStore(database),
		audits:    audit.NewStore(database),
		assess:    assessment.NewStore(database),
		findings:  finding.NewStore(database),
		jobStore:  jobs.NewStore(database),
		files:     files,
	}
	a.queue = jobs.NewQueue(a.jobStore)
	a.reports = report.NewService(a.source(), report.NewRenderer(), logger)
	return a, nil
}

func (a *app) source() *report.StoreSource {
	return &report.StoreSource{
		Audits:      a.audits,
		Assessments: a.assess,
		Findings:    a.findings,
	}
}

// worker builds the batch worker. reg may be nil when metrics are not served.
func (a *app) worker(reg prometheus.Registerer) *jobs.Worker {
	opts := []jobs.WorkerOption{
		jobs.WithPollInterval(a.cfg.Reports.PollInterval),
		jobs.WithBaseURL(a.cfg.Server.BaseURL),
		jobs.WithLogger(a.logger),
	}
	if reg != nil {
		opts = append(opts, jobs.WithMetrics(jobs.NewMetrics(reg)))
	}
	if len(a.cfg.Reports.Webhooks) > 0 {
		opts = append(opts, jobs.WithNotifier(notifications.NewDispatcher(a.cfg.Reports.Webhooks, a.logger)))
	}
	return jobs.NewWorker(a.jobStore, a.source(), a.reports.Renderer(), a.files, opts...)
}

func (a *app) Close() {
	a.logger.Sync()
	a.db.Close()
}
