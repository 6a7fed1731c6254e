package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"thermo-guard/internal/features/power/domain"
)

// MockConnector is a mock implementation of domain.Connector
type MockConnector struct {
	mock.Mock
}

// Connect mocks the Connect method
func (m *MockConnector) Connect(ctx context.Context, endpoint domain.HostEndpoint) (domain.Session, error) {
	args := m.Called(ctx, endpoint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Session), args.Error(1)
}

// MockSession is a mock implementation of domain.Session
type MockSession struct {
	mock.Mock
}

// PowerState mocks the PowerState method
func (m *MockSession) PowerState(ctx context.Context) (domain.PowerState, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.PowerState), args.Error(1)
}

// PowerOn mocks the PowerOn method
func (m *MockSession) PowerOn(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks the Close method
func (m *MockSession) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
