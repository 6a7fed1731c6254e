package service

import (
	"context"
	"log"

	"thermo-guard/internal/common"
	"thermo-guard/internal/features/power/domain"
)

// Service implements domain.Provider. It powers on each configured host
// through its out-of-band interface, one at a time.
type Service struct {
	connector domain.Connector
}

// NewService creates a new power-on service
func NewService(connector domain.Connector) *Service {
	if connector == nil {
		log.Fatal("power connector cannot be nil")
	}

	return &Service{connector: connector}
}

// PowerOnFabric powers on every host in the given order. Each host is handled
// independently: a session or reset failure marks that host failed and the
// next host is still attempted. Unlike the fabric shutdown, the aggregate is
// strict: one failed host fails the whole procedure.
func (s *Service) PowerOnFabric(ctx context.Context, hosts []domain.HostEndpoint) bool {
	log.Println("Starting cluster power-on procedure")

	success := true
	for _, endpoint := range hosts {
		if err := s.powerOnHost(ctx, endpoint); err != nil {
			log.Printf("Error powering on host at %s: %v", endpoint.Address, err)
			success = false
		}
	}

	if success {
		log.Println("Cluster power-on procedure completed successfully")
	} else {
		log.Println("Cluster power-on procedure completed with errors")
	}
	return success
}

// AllPoweredOff reads the power state of every configured host and reports
// whether all of them are off. Used to seed the coordinator's initial state
// at startup; any unreadable host makes the probe fail rather than guess.
func (s *Service) AllPoweredOff(ctx context.Context, hosts []domain.HostEndpoint) (bool, error) {
	if len(hosts) == 0 {
		return false, common.InvalidInputError("no out-of-band hosts configured")
	}

	for _, endpoint := range hosts {
		state, err := s.readPowerState(ctx, endpoint)
		if err != nil {
			return false, common.WrapError(err, "failed to probe host power state")
		}
		if state == domain.PowerOn {
			return false, nil
		}
	}
	return true, nil
}

// readPowerState opens a session to one host, reads its power state, and
// closes the session.
func (s *Service) readPowerState(ctx context.Context, endpoint domain.HostEndpoint) (domain.PowerState, error) {
	session, err := s.connector.Connect(ctx, endpoint)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := session.Close(ctx); err != nil {
			log.Printf("Error closing out-of-band session for %s: %v", endpoint.Address, err)
		}
	}()

	return session.PowerState(ctx)
}

// powerOnHost opens a session to one out-of-band interface, powers the host
// on unless it already is, and closes the session regardless of outcome.
func (s *Service) powerOnHost(ctx context.Context, endpoint domain.HostEndpoint) error {
	session, err := s.connector.Connect(ctx, endpoint)
	if err != nil {
		return common.WrapError(err, "failed to open out-of-band session")
	}
	defer func() {
		if err := session.Close(ctx); err != nil {
			log.Printf("Error closing out-of-band session for %s: %v", endpoint.Address, err)
		}
	}()

	state, err := session.PowerState(ctx)
	if err != nil {
		return common.WrapError(err, "failed to read power state")
	}

	if state == domain.PowerOn {
		log.Printf("Server at %s is already powered on", endpoint.Address)
		return nil
	}

	log.Printf("Powering on server at %s", endpoint.Address)
	if err := session.PowerOn(ctx); err != nil {
		return common.NewPowerOnFailedError(endpoint.Address, err.Error())
	}

	log.Printf("Server at %s is powering on", endpoint.Address)
	return nil
}
