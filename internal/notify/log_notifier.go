// Package notify delivers pipeline notifications to operators and users.
package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"eposupdate/internal/domain"
	"eposupdate/internal/logging"
	"eposupdate/internal/port"
)

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a Notifier that writes notifications to the log.
func NewLogNotifier(logger *zap.Logger) port.Notifier {
	return &logNotifier{logger: logging.OrNop(logger).Named("notify")}
}

func (n *logNotifier) Notify(_ context.Context, runID string, note domain.Notification) error {
	fields := []zap.Field{
		zap.String("run_id", runID),
		zap.String("title", note.Title),
		zap.String("message", note.Message),
		zap.String("mode", string(note.Mode)),
	}
	if note.Severity == domain.SeverityError {
		n.logger.Warn("notification", fields...)
	} else {
		n.logger.Info("notification", fields...)
	}
	return nil
}

type multiNotifier struct {
	notifiers []port.Notifier
}

// NewMulti fans each notification out to every non-nil notifier. All
// notifiers are tried; their errors are joined.
func NewMulti(notifiers ...port.Notifier) port.Notifier {
	m := &multiNotifier{}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

func (m *multiNotifier) Notify(ctx context.Context, runID string, note domain.Notification) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, runID, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
