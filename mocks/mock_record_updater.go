package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"eposupdate/internal/port"
)

// MockRecordUpdater is a mock implementation of port.RecordUpdater.
type MockRecordUpdater struct {
	mock.Mock
}

func (m *MockRecordUpdater) UpdateRecords(ctx context.Context, input port.UpdateInput) (*port.UpdateOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.UpdateOutput), args.Error(1)
}
