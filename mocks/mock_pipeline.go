package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"eposupdate/internal/domain"
	"eposupdate/internal/service"
)

// MockPipeline is a mock implementation of service.Pipeline.
type MockPipeline struct {
	mock.Mock
}

func (m *MockPipeline) Run(ctx context.Context, req service.RunRequest) *domain.RunResult {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.RunResult)
}

func (m *MockPipeline) Reject(ctx context.Context, req service.RunRequest, err error) *domain.RunResult {
	args := m.Called(ctx, req, err)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.RunResult)
}

func (m *MockPipeline) ParseOptions(names []string) (domain.UpdateOptions, error) {
	args := m.Called(names)
	return args.Get(0).(domain.UpdateOptions), args.Error(1)
}

func (m *MockPipeline) AllowedOptions() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}
