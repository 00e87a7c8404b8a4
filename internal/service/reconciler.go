package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"eposupdate/internal/domain"
	"eposupdate/internal/logging"
	"eposupdate/internal/port"
)

// Reconciler splits candidate ids into valid and invalid sets using the
// record validation capability.
type Reconciler interface {
	Reconcile(ctx context.Context, ids []string) (*domain.ReconciliationResult, error)
}

type reconciler struct {
	validator port.RecordValidator
	logger    *zap.Logger
}

// NewReconciler creates a new Reconciler implementation.
func NewReconciler(validator port.RecordValidator, logger *zap.Logger) Reconciler {
	return &reconciler{
		validator: validator,
		logger:    logging.OrNop(logger),
	}
}

// Reconcile issues one validation call for the whole list. The returned
// result follows the input order and keeps duplicates.
func (r *reconciler) Reconcile(ctx context.Context, ids []string) (*domain.ReconciliationResult, error) {
	if len(ids) == 0 {
		return &domain.ReconciliationResult{ValidIDs: []string{}, InvalidIDs: []string{}}, nil
	}

	out, err := r.validator.ValidateRecords(ctx, port.ValidateInput{IDs: ids})
	if err != nil {
		r.logger.Warn("record validation failed", zap.Int("ids", len(ids)), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrValidationUnavailable, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: empty validation response", domain.ErrValidationUnavailable)
	}

	result, err := partition(ids, out)
	if err != nil {
		r.logger.Warn("validation response rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrValidationUnavailable, err)
	}

	r.logger.Debug("ids reconciled",
		zap.Int("valid", len(result.ValidIDs)),
		zap.Int("invalid", len(result.InvalidIDs)),
	)
	return result, nil
}

// partition checks that out covers exactly the requested ids, with no id
// in both lists, and rebuilds the split in request order.
func partition(ids []string, out *port.ValidateOutput) (*domain.ReconciliationResult, error) {
	requested := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		requested[id] = struct{}{}
	}

	verdict := make(map[string]bool, len(requested))
	mark := func(list []string, valid bool) error {
		for _, id := range list {
			if _, ok := requested[id]; !ok {
				return fmt.Errorf("response contains id %q that was never sent", id)
			}
			if prev, seen := verdict[id]; seen && prev != valid {
				return fmt.Errorf("id %q reported both valid and invalid", id)
			}
			verdict[id] = valid
		}
		return nil
	}
	if err := mark(out.ValidIDs, true); err != nil {
		return nil, err
	}
	if err := mark(out.InvalidIDs, false); err != nil {
		return nil, err
	}

	result := &domain.ReconciliationResult{
		ValidIDs:   make([]string, 0, len(out.ValidIDs)),
		InvalidIDs: make([]string, 0, len(out.InvalidIDs)),
	}
	for _, id := range ids {
		valid, ok := verdict[id]
		if !ok {
			return nil, fmt.Errorf("response omits id %q", id)
		}
		if valid {
			result.ValidIDs = append(result.ValidIDs, id)
		} else {
			result.InvalidIDs = append(result.InvalidIDs, id)
		}
	}
	return result, nil
}
