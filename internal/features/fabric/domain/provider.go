package domain

import (
	"context"
	"time"
)

// Provider runs the fabric shutdown procedure.
type Provider interface {
	// ShutdownFabric gracefully shuts down all virtual machines and then
	// all hosts. Per-unit failures are logged, not aggregated: the result
	// is false only when the procedure could not run at all.
	ShutdownFabric(ctx context.Context) bool
}

// Connector opens management-plane sessions.
type Connector interface {
	Connect(ctx context.Context) (Session, error)
}

// Session is an open management-plane connection. Inventory handles returned
// by it are owned by the session and become invalid once it is closed.
type Session interface {
	VirtualMachines(ctx context.Context) ([]VirtualMachine, error)
	Hosts(ctx context.Context) ([]Host, error)
	Close(ctx context.Context) error
}

// VirtualMachine is a live handle into the hypervisor VM inventory, limited
// to the operations the shutdown procedure needs.
type VirtualMachine interface {
	Name() string
	PowerState(ctx context.Context) (PowerState, error)
	GuestToolsRunning(ctx context.Context) (bool, error)
	ShutdownGuest(ctx context.Context) error
	PowerOff(ctx context.Context) (Task, error)
}

// Host is a live handle into the hypervisor host inventory.
type Host interface {
	Name() string
	InMaintenanceMode(ctx context.Context) (bool, error)
	// EnterMaintenanceMode requests maintenance entry with a server-side
	// timeout budget and returns the async task.
	EnterMaintenanceMode(ctx context.Context, timeout time.Duration) (Task, error)
	// Shutdown issues a non-forced host shutdown. The management plane
	// rejects it unless the host is already in maintenance mode.
	Shutdown(ctx context.Context) (Task, error)
}

// Task is an asynchronous management-plane task polled for completion.
type Task interface {
	// Status returns the current resolution state and, for TaskError, the
	// failure reason. The error return is for transport failures only.
	Status(ctx context.Context) (TaskStatus, string, error)
}
