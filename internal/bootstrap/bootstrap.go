// Package bootstrap wires configuration into a ready-to-run pipeline for
// the server and the CLI.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"eposupdate/internal/config"
	"eposupdate/internal/handler"
	"eposupdate/internal/logging"
	"eposupdate/internal/notify"
	"eposupdate/internal/port"
	"eposupdate/internal/remote"
	"eposupdate/internal/repository/postgres"
	"eposupdate/internal/service"
	s3storage "eposupdate/internal/storage/s3"
	"eposupdate/internal/xlsxreport"
)

// App holds the wired components.
type App struct {
	Pipeline service.Pipeline
	// Pinger checks the record store; nil for the HTTP backend.
	Pinger handler.Pinger

	closers []func() error
}

// Close releases resources opened by New.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// New builds the pipeline and its collaborators from cfg.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	logger = logging.OrNop(logger)
	app := &App{}

	validator, updater, err := app.records(ctx, cfg, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	reportStorage, err := newReportStorage(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	notifier, err := newNotifier(ctx, cfg, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Pipeline = service.NewPipeline(service.PipelineDeps{
		Reconciler: service.NewReconciler(validator, logger),
		Submitter:  service.NewSubmitter(updater, logger),
		Reports: service.NewReportService(
			xlsxreport.NewWriter(cfg.Report.FileName, cfg.Report.SheetName),
			reportStorage,
			logger,
		),
		Notifier: notifier,
	}, service.SettingsFromConfig(cfg), logger)

	return app, nil
}

func (a *App) records(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.RecordValidator, port.RecordUpdater, error) {
	switch cfg.Backend.Provider {
	case config.BackendPostgres:
		db, err := postgres.NewDB(ctx, &cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		repo := postgres.NewRecordRepo(db)
		a.Pinger = repo
		logger.Info("using postgres record store", zap.String("host", cfg.DB.Host), zap.String("db", cfg.DB.Name))
		return repo, repo, nil
	case config.BackendHTTP:
		client := remote.NewClient(&cfg.Remote)
		logger.Info("using remote record service", zap.String("base_url", cfg.Remote.BaseURL))
		return client, client, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend provider %q", cfg.Backend.Provider)
	}
}

func newReportStorage(ctx context.Context, cfg *config.Config) (*service.ReportStorage, error) {
	if cfg.Report.Storage != config.ReportStorageS3 {
		return nil, nil
	}
	client, err := s3storage.NewClient(ctx, &cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	return &service.ReportStorage{
		Storage:   client,
		S3:        &cfg.S3,
		KeyPrefix: cfg.Report.KeyPrefix,
	}, nil
}

func newNotifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.Notifier, error) {
	logNotifier := notify.NewLogNotifier(logger)
	if cfg.Notify.Provider != config.NotifySES {
		return logNotifier, nil
	}
	sesNotifier, err := notify.NewSESNotifier(ctx, &cfg.Notify)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SES notifier: %w", err)
	}
	return notify.NewMulti(logNotifier, sesNotifier), nil
}
