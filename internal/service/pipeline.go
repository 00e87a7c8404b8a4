package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eposupdate/internal/config"
	"eposupdate/internal/csvingest"
	"eposupdate/internal/domain"
	"eposupdate/internal/logging"
	"eposupdate/internal/port"
)

// DefaultResetDelay is how long clients wait after a submit before
// starting a fresh session.
const DefaultResetDelay = 2 * time.Second

// RunRequest is one mass update request.
type RunRequest struct {
	Upload  domain.RawUpload
	Options domain.UpdateOptions
	// Observer, when set, receives every snapshot as the run advances.
	Observer func(domain.RunSnapshot)
}

// Pipeline runs the ingest, reconcile, report and submit stages for one upload.
type Pipeline interface {
	Run(ctx context.Context, req RunRequest) *domain.RunResult
	// Reject records a run that failed before its upload could be read,
	// such as a request body cut off by the transport size limit.
	Reject(ctx context.Context, req RunRequest, err error) *domain.RunResult
	ParseOptions(names []string) (domain.UpdateOptions, error)
	AllowedOptions() []string
}

// PipelineDeps are the collaborators of a Pipeline. Notifier may be nil.
type PipelineDeps struct {
	Reconciler Reconciler
	Submitter  Submitter
	Reports    ReportService
	Notifier   port.Notifier
}

// PipelineSettings tunes a Pipeline.
type PipelineSettings struct {
	Limits         csvingest.Limits
	ResetDelay     time.Duration
	AllowedOptions []string
}

// SettingsFromConfig collects the pipeline settings from cfg.
func SettingsFromConfig(cfg *config.Config) PipelineSettings {
	return PipelineSettings{
		Limits: csvingest.Limits{
			MaxFileSize: cfg.Upload.MaxFileSize,
			MaxRows:     cfg.Upload.MaxRows,
		},
		ResetDelay:     cfg.Pipeline.ResetDelay,
		AllowedOptions: cfg.Update.AllowedOptions,
	}
}

type pipeline struct {
	deps     PipelineDeps
	settings PipelineSettings
	logger   *zap.Logger
}

// NewPipeline creates a new Pipeline implementation.
func NewPipeline(deps PipelineDeps, settings PipelineSettings, logger *zap.Logger) Pipeline {
	if settings.Limits.MaxFileSize <= 0 {
		settings.Limits.MaxFileSize = csvingest.DefaultMaxFileSize
	}
	if settings.Limits.MaxRows <= 0 {
		settings.Limits.MaxRows = csvingest.DefaultMaxRows
	}
	if settings.ResetDelay <= 0 {
		settings.ResetDelay = DefaultResetDelay
	}
	settings.AllowedOptions = domain.NewUpdateOptions(settings.AllowedOptions...).Names()
	return &pipeline{
		deps:     deps,
		settings: settings,
		logger:   logging.OrNop(logger),
	}
}

func (p *pipeline) ParseOptions(names []string) (domain.UpdateOptions, error) {
	return ParseOptions(names, p.settings.AllowedOptions)
}

func (p *pipeline) AllowedOptions() []string {
	out := make([]string, len(p.settings.AllowedOptions))
	copy(out, p.settings.AllowedOptions)
	return out
}

// Run drives one upload to a terminal state. Caller cancellation is not
// propagated: once started, a run always finishes.
func (p *pipeline) Run(ctx context.Context, req RunRequest) *domain.RunResult {
	r := p.start(ctx, req)
	r.execute()
	return r.finish()
}

func (p *pipeline) Reject(ctx context.Context, req RunRequest, err error) *domain.RunResult {
	r := p.start(ctx, req)
	r.fail(err)
	return r.finish()
}

func (p *pipeline) start(ctx context.Context, req RunRequest) *run {
	r := &run{
		p:      p,
		ctx:    context.WithoutCancel(ctx),
		req:    req,
		result: &domain.RunResult{Notifications: []domain.Notification{}},
		snap: domain.RunSnapshot{
			RunID:    uuid.New(),
			State:    domain.RunStateIdle,
			FileName: req.Upload.FileName,
			Options:  req.Options.Names(),
		},
	}
	r.logger = p.logger.With(
		zap.String("run_id", r.snap.RunID.String()),
		zap.String("file", req.Upload.FileName),
	)
	r.emit()
	return r
}

func (r *run) finish() *domain.RunResult {
	r.result.Final = r.snap
	r.logger.Info("mass update run finished",
		zap.String("state", string(r.snap.State)),
		zap.String("failure_code", r.snap.FailureCode),
		zap.Int("valid", r.snap.ValidCount),
		zap.Int("invalid", r.snap.InvalidCount),
	)
	return r.result
}

// run holds the mutable state of a single Run call.
type run struct {
	p      *pipeline
	ctx    context.Context
	req    RunRequest
	snap   domain.RunSnapshot
	result *domain.RunResult
	logger *zap.Logger
}

func (r *run) execute() {
	limits := r.p.settings.Limits

	if err := csvingest.CheckUpload(r.req.Upload.FileName, r.req.Upload.Size, limits); err != nil {
		r.fail(err)
		return
	}
	raw, err := csvingest.ReadUpload(r.req.Upload, limits)
	if err != nil {
		r.fail(err)
		return
	}
	rows := csvingest.SplitRows(raw)
	if err := csvingest.CheckRows(rows, limits.MaxRows); err != nil {
		r.fail(err)
		return
	}

	r.transition(domain.RunStateIngesting)
	ids := csvingest.ExtractIDs(rows)
	r.snap.Candidates = len(ids)

	r.transition(domain.RunStateReconciling)
	rec, err := r.p.deps.Reconciler.Reconcile(r.ctx, ids)
	if err != nil {
		r.fail(err)
		return
	}
	r.snap.ValidCount = len(rec.ValidIDs)
	r.snap.InvalidCount = len(rec.InvalidIDs)

	if len(rec.InvalidIDs) > 0 {
		r.transition(domain.RunStateReportingInvalid)
		r.report(rec.InvalidIDs)
	}

	if len(rec.ValidIDs) == 0 {
		r.transition(domain.RunStateDone)
		return
	}

	r.transition(domain.RunStateSubmitting)
	outcome, err := r.p.deps.Submitter.Submit(r.ctx, rec.ValidIDs, r.req.Options)
	r.result.ResetAfter = r.p.settings.ResetDelay
	if err != nil {
		r.fail(err)
		return
	}
	r.result.Outcome = outcome
	r.notify(SuccessNotification())
	r.transition(domain.RunStateDone)
}

// report publishes the invalid id report. A failure here is reported to the
// user but does not stop the run.
func (r *run) report(invalid []string) {
	artifact, err := r.p.deps.Reports.Publish(r.ctx, r.snap.RunID, invalid)
	if err != nil {
		if !errors.Is(err, domain.ErrReportRenderFailed) {
			err = errors.Join(domain.ErrReportRenderFailed, err)
		}
		r.logger.Warn("invalid id report failed", zap.Error(err))
		if n, ok := FailureNotification(err, r.p.settings.Limits.MaxRows); ok {
			r.notify(n)
		}
		return
	}
	r.result.Report = artifact
	r.notify(InvalidIDsNotification())
}

func (r *run) fail(err error) {
	r.result.Err = err
	r.snap.FailureCode = domain.FailureCode(err)
	r.logger.Warn("mass update run failed", zap.String("failure_code", r.snap.FailureCode), zap.Error(err))
	if n, ok := FailureNotification(err, r.p.settings.Limits.MaxRows); ok {
		r.notify(n)
	}
	r.transition(domain.RunStateFailed)
}

func (r *run) transition(state domain.RunState) {
	r.snap.State = state
	r.emit()
}

// emit records a fresh copy of the current snapshot.
func (r *run) emit() {
	s := r.snap
	s.Options = r.req.Options.Names()
	s.At = time.Now().UTC()
	r.snap.At = s.At
	r.result.History = append(r.result.History, s)
	if r.req.Observer != nil {
		r.req.Observer(s)
	}
}

func (r *run) notify(n domain.Notification) {
	r.result.Notifications = append(r.result.Notifications, n)
	if r.p.deps.Notifier == nil {
		return
	}
	if err := r.p.deps.Notifier.Notify(r.ctx, r.snap.RunID.String(), n); err != nil {
		r.logger.Warn("notification delivery failed", zap.String("message", n.Message), zap.Error(err))
	}
}
