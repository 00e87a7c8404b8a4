package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"eposupdate/internal/domain"
)

// MockReconciler is a mock implementation of service.Reconciler.
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Reconcile(ctx context.Context, ids []string) (*domain.ReconciliationResult, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationResult), args.Error(1)
}

// MockSubmitter is a mock implementation of service.Submitter.
type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, validIDs []string, opts domain.UpdateOptions) (*domain.UpdateOutcome, error) {
	args := m.Called(ctx, validIDs, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UpdateOutcome), args.Error(1)
}

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Publish(ctx context.Context, runID uuid.UUID, ids []string) (*domain.ReportArtifact, error) {
	args := m.Called(ctx, runID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportArtifact), args.Error(1)
}
