package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"eposupdate/internal/port"
)

// MockRecordValidator is a mock implementation of port.RecordValidator.
type MockRecordValidator struct {
	mock.Mock
}

func (m *MockRecordValidator) ValidateRecords(ctx context.Context, input port.ValidateInput) (*port.ValidateOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ValidateOutput), args.Error(1)
}
