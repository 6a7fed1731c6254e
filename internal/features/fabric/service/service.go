package service

import (
	"context"
	"log"
	"time"

	"thermo-guard/internal/common"
	"thermo-guard/internal/features/fabric/domain"
)

// Config holds the timing policy for the fabric shutdown procedure
type Config struct {
	// GracefulShutdownAttempts is how many times the VM power state is
	// polled after a guest shutdown request
	GracefulShutdownAttempts int

	// GracefulPollInterval is the spacing between those polls
	GracefulPollInterval time.Duration

	// ForceOffTimeout bounds the wait for a forced power-off task
	ForceOffTimeout time.Duration

	// ForceOffPollInterval is the spacing between forced power-off polls
	ForceOffPollInterval time.Duration

	// MaintenanceTimeout is the server-side budget handed to the
	// enter-maintenance-mode request and also bounds the client-side wait
	MaintenanceTimeout time.Duration

	// HostTaskPollInterval is the spacing between host task polls
	HostTaskPollInterval time.Duration
}

// DefaultConfig returns the default fabric shutdown timing policy
func DefaultConfig() Config {
	return Config{
		GracefulShutdownAttempts: 30,
		GracefulPollInterval:     10 * time.Second,
		ForceOffTimeout:          5 * time.Minute,
		ForceOffPollInterval:     1 * time.Second,
		MaintenanceTimeout:       10 * time.Minute,
		HostTaskPollInterval:     5 * time.Second,
	}
}

// Service implements domain.Provider. It sequences the graceful-then-forced
// shutdown of all virtual machines followed by maintenance entry and shutdown
// of all hosts, best effort per unit.
type Service struct {
	config    Config
	connector domain.Connector
}

// NewService creates a new fabric shutdown service
func NewService(config Config, connector domain.Connector) *Service {
	if connector == nil {
		log.Fatal("fabric connector cannot be nil")
	}

	return &Service{
		config:    config,
		connector: connector,
	}
}

// ShutdownFabric runs the full cluster shutdown procedure. The result is
// lenient: individual VM or host failures are logged and skipped, and only a
// failure to open the session or enumerate the inventory makes the whole
// procedure report false. The session is always closed before returning.
func (s *Service) ShutdownFabric(ctx context.Context) bool {
	log.Println("Starting cluster shutdown procedure")

	session, err := s.connector.Connect(ctx)
	if err != nil {
		log.Printf("Failed to connect to the management plane, aborting shutdown: %v", err)
		return false
	}
	defer func() {
		if err := session.Close(ctx); err != nil {
			log.Printf("Error closing management-plane session: %v", err)
		}
	}()

	vms, err := session.VirtualMachines(ctx)
	if err != nil {
		log.Printf("Failed to enumerate virtual machines: %v", err)
		return false
	}
	log.Printf("Found %d virtual machines", len(vms))

	log.Println("Shutting down all virtual machines")
	for _, vm := range vms {
		if err := s.shutdownVM(ctx, vm); err != nil {
			if common.IsContextCanceled(err) {
				log.Printf("Shutdown procedure canceled: %v", err)
				return false
			}
			log.Printf("Error shutting down VM '%s': %v", vm.Name(), err)
		}
	}

	hosts, err := session.Hosts(ctx)
	if err != nil {
		log.Printf("Failed to enumerate hosts: %v", err)
		return false
	}
	log.Printf("Found %d hosts", len(hosts))

	log.Println("Putting all hosts into maintenance mode and shutting them down")
	for _, host := range hosts {
		if err := s.shutdownHost(ctx, host); err != nil {
			if common.IsContextCanceled(err) {
				log.Printf("Shutdown procedure canceled: %v", err)
				return false
			}
			log.Printf("Error shutting down host '%s': %v", host.Name(), err)
		}
	}

	log.Println("Cluster shutdown procedure completed")
	return true
}

// shutdownVM powers down one virtual machine: a no-op when it is already off,
// a guest-cooperative shutdown when the guest agent runs, and a bounded
// forced power-off otherwise or when the graceful attempt times out.
func (s *Service) shutdownVM(ctx context.Context, vm domain.VirtualMachine) error {
	state, err := vm.PowerState(ctx)
	if err != nil {
		return common.WrapError(err, "failed to read power state")
	}
	if state != domain.PoweredOn {
		log.Printf("VM '%s' is already powered off", vm.Name())
		return nil
	}

	log.Printf("Shutting down VM '%s'", vm.Name())

	toolsRunning, err := vm.GuestToolsRunning(ctx)
	if err != nil {
		log.Printf("Failed to read guest agent state for VM '%s', assuming not running: %v", vm.Name(), err)
		toolsRunning = false
	}

	if toolsRunning {
		log.Printf("Using the guest agent to shut down VM '%s'", vm.Name())
		if err := vm.ShutdownGuest(ctx); err != nil {
			log.Printf("Guest shutdown request for VM '%s' failed: %v", vm.Name(), err)
		} else {
			err := common.PollUntil(ctx, s.config.GracefulPollInterval, s.config.GracefulShutdownAttempts,
				func(ctx context.Context) (bool, error) {
					st, err := vm.PowerState(ctx)
					if err != nil {
						return false, err
					}
					return st != domain.PoweredOn, nil
				})
			if err == nil {
				log.Printf("VM '%s' has been shut down gracefully", vm.Name())
				return nil
			}
			if !common.IsTimeout(err) {
				return err
			}
			log.Printf("Graceful shutdown of VM '%s' timed out, forcing power off", vm.Name())
		}
	} else {
		log.Printf("Guest agent not running on VM '%s', forcing power off", vm.Name())
	}

	task, err := vm.PowerOff(ctx)
	if err != nil {
		return common.WrapError(err, "forced power-off request failed")
	}

	forceAttempts := attemptsFor(s.config.ForceOffTimeout, s.config.ForceOffPollInterval)
	if err := s.waitForTask(ctx, vm.Name(), "PowerOff", task, s.config.ForceOffPollInterval, forceAttempts); err != nil {
		return err
	}

	log.Printf("VM '%s' has been powered off", vm.Name())
	return nil
}

// shutdownHost puts one host into maintenance mode and, only when that
// succeeded, shuts it down. A host that did not reach maintenance mode is
// never sent a shutdown request.
func (s *Service) shutdownHost(ctx context.Context, host domain.Host) error {
	inMaintenance, err := host.InMaintenanceMode(ctx)
	if err != nil {
		return common.WrapError(err, "failed to read maintenance mode")
	}

	if inMaintenance {
		log.Printf("Host '%s' is already in maintenance mode", host.Name())
	} else {
		log.Printf("Putting host '%s' into maintenance mode", host.Name())
		task, err := host.EnterMaintenanceMode(ctx, s.config.MaintenanceTimeout)
		if err != nil {
			return common.WrapError(err, "enter maintenance mode request failed")
		}

		attempts := attemptsFor(s.config.MaintenanceTimeout, s.config.HostTaskPollInterval)
		if err := s.waitForTask(ctx, host.Name(), "EnterMaintenanceMode", task, s.config.HostTaskPollInterval, attempts); err != nil {
			return err
		}
		log.Printf("Host '%s' is now in maintenance mode", host.Name())
	}

	log.Printf("Shutting down host '%s'", host.Name())
	task, err := host.Shutdown(ctx)
	if err != nil {
		return common.WrapError(err, "host shutdown request failed")
	}

	attempts := attemptsFor(s.config.MaintenanceTimeout, s.config.HostTaskPollInterval)
	if err := s.waitForTask(ctx, host.Name(), "Shutdown", task, s.config.HostTaskPollInterval, attempts); err != nil {
		return err
	}

	log.Printf("Host '%s' is shutting down", host.Name())
	return nil
}

// waitForTask polls a management-plane task at a fixed interval until it
// resolves or the attempt budget runs out.
func (s *Service) waitForTask(ctx context.Context, entity, name string, task domain.Task, interval time.Duration, maxAttempts int) error {
	return common.PollUntil(ctx, interval, maxAttempts, func(ctx context.Context) (bool, error) {
		status, reason, err := task.Status(ctx)
		if err != nil {
			return false, common.WrapError(err, "failed to read task status")
		}
		switch status {
		case domain.TaskSuccess:
			return true, nil
		case domain.TaskError:
			return false, common.NewTaskFailedError(entity, name, reason)
		default:
			return false, nil
		}
	})
}

// attemptsFor converts a timeout budget into a poll attempt count, always
// allowing at least one attempt.
func attemptsFor(timeout, interval time.Duration) int {
	if interval <= 0 {
		return 1
	}
	attempts := int(timeout / interval)
	if attempts < 1 {
		attempts = 1
	}
	return attempts
}
