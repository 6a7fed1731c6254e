package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"thermo-guard/internal/features/fabric/domain"
)

// MockConnector is a mock implementation of domain.Connector
type MockConnector struct {
	mock.Mock
}

// Connect mocks the Connect method
func (m *MockConnector) Connect(ctx context.Context) (domain.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Session), args.Error(1)
}

// MockSession is a mock implementation of domain.Session
type MockSession struct {
	mock.Mock
}

// VirtualMachines mocks the VirtualMachines method
func (m *MockSession) VirtualMachines(ctx context.Context) ([]domain.VirtualMachine, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VirtualMachine), args.Error(1)
}

// Hosts mocks the Hosts method
func (m *MockSession) Hosts(ctx context.Context) ([]domain.Host, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Host), args.Error(1)
}

// Close mocks the Close method
func (m *MockSession) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockVirtualMachine is a mock implementation of domain.VirtualMachine
type MockVirtualMachine struct {
	mock.Mock
}

// Name mocks the Name method
func (m *MockVirtualMachine) Name() string {
	args := m.Called()
	return args.String(0)
}

// PowerState mocks the PowerState method
func (m *MockVirtualMachine) PowerState(ctx context.Context) (domain.PowerState, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.PowerState), args.Error(1)
}

// GuestToolsRunning mocks the GuestToolsRunning method
func (m *MockVirtualMachine) GuestToolsRunning(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// ShutdownGuest mocks the ShutdownGuest method
func (m *MockVirtualMachine) ShutdownGuest(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// PowerOff mocks the PowerOff method
func (m *MockVirtualMachine) PowerOff(ctx context.Context) (domain.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Task), args.Error(1)
}

// MockHost is a mock implementation of domain.Host
type MockHost struct {
	mock.Mock
}

// Name mocks the Name method
func (m *MockHost) Name() string {
	args := m.Called()
	return args.String(0)
}

// InMaintenanceMode mocks the InMaintenanceMode method
func (m *MockHost) InMaintenanceMode(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// EnterMaintenanceMode mocks the EnterMaintenanceMode method
func (m *MockHost) EnterMaintenanceMode(ctx context.Context, timeout time.Duration) (domain.Task, error) {
	args := m.Called(ctx, timeout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Task), args.Error(1)
}

// Shutdown mocks the Shutdown method
func (m *MockHost) Shutdown(ctx context.Context) (domain.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Task), args.Error(1)
}

// MockTask is a mock implementation of domain.Task
type MockTask struct {
	mock.Mock
}

// Status mocks the Status method
func (m *MockTask) Status(ctx context.Context) (domain.TaskStatus, string, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.TaskStatus), args.String(1), args.Error(2)
}
