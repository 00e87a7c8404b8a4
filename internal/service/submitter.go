package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"eposupdate/internal/domain"
	"eposupdate/internal/logging"
	"eposupdate/internal/port"
)

// Submitter sends the valid ids to the record update capability.
type Submitter interface {
	Submit(ctx context.Context, validIDs []string, opts domain.UpdateOptions) (*domain.UpdateOutcome, error)
}

type submitter struct {
	updater port.RecordUpdater
	logger  *zap.Logger
}

// NewSubmitter creates a new Submitter implementation.
func NewSubmitter(updater port.RecordUpdater, logger *zap.Logger) Submitter {
	return &submitter{
		updater: updater,
		logger:  logging.OrNop(logger),
	}
}

// Submit issues exactly one bulk update call. It does not retry.
func (s *submitter) Submit(ctx context.Context, validIDs []string, opts domain.UpdateOptions) (*domain.UpdateOutcome, error) {
	if len(validIDs) == 0 {
		return nil, domain.ErrNoValidIDs
	}

	s.logger.Info("submitting bulk update",
		zap.Int("ids", len(validIDs)),
		zap.Strings("options", opts.Names()),
	)

	out, err := s.updater.UpdateRecords(ctx, port.UpdateInput{
		CSVData: strings.Join(validIDs, "\n"),
		Options: opts.Names(),
	})
	if err != nil {
		s.logger.Error("bulk update failed", zap.Int("ids", len(validIDs)), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrUpdateSubmissionFailed, err)
	}

	outcome := &domain.UpdateOutcome{}
	if out != nil {
		outcome.Result = out.Result
	}
	return outcome, nil
}
