package port

import (
	"context"

	"eposupdate/internal/domain"
)

// Notifier delivers user-facing notifications produced by a pipeline run.
type Notifier interface {
	Notify(ctx context.Context, runID string, n domain.Notification) error
}
