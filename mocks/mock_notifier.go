package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"eposupdate/internal/domain"
)

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, runID string, n domain.Notification) error {
	args := m.Called(ctx, runID, n)
	return args.Error(0)
}
