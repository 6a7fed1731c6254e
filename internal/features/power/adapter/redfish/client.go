package redfish

import (
	"context"
	"fmt"

	"github.com/stmcginnis/gofish"
	"github.com/stmcginnis/gofish/redfish"

	"thermo-guard/internal/common"
	"thermo-guard/internal/features/power/domain"
)

// ConnectorConfig holds shared settings for out-of-band connections
type ConnectorConfig struct {
	Insecure bool
}

// Connector opens Redfish sessions against out-of-band management
// interfaces. It implements domain.Connector.
type Connector struct {
	config ConnectorConfig
}

// NewConnector creates a new Redfish connector
func NewConnector(config ConnectorConfig) *Connector {
	return &Connector{config: config}
}

// Connect logs into the Redfish service of one host.
func (c *Connector) Connect(ctx context.Context, endpoint domain.HostEndpoint) (domain.Session, error) {
	client, err := gofish.ConnectContext(ctx, gofish.ClientConfig{
		Endpoint: fmt.Sprintf("https://%s", endpoint.Address),
		Username: endpoint.Username,
		Password: endpoint.Password,
		Insecure: c.config.Insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to out-of-band interface at %s: %w", endpoint.Address, err)
	}

	return &session{client: client, address: endpoint.Address}, nil
}

// session wraps an authenticated Redfish client for one host.
type session struct {
	client  *gofish.APIClient
	address string
	closed  bool
}

// system returns the first computer system of the service, which is the
// managed server on single-system management controllers.
func (s *session) system() (*redfish.ComputerSystem, error) {
	if s.closed {
		return nil, common.NotConnectedError("out-of-band session to %s is closed", s.address)
	}

	systems, err := s.client.Service.Systems()
	if err != nil {
		return nil, fmt.Errorf("failed to list systems on %s: %w", s.address, err)
	}
	if len(systems) == 0 {
		return nil, fmt.Errorf("no computer systems reported by %s", s.address)
	}
	return systems[0], nil
}

// PowerState reads the current power state of the managed system.
func (s *session) PowerState(ctx context.Context) (domain.PowerState, error) {
	system, err := s.system()
	if err != nil {
		return "", err
	}

	if system.PowerState == redfish.OnPowerState {
		return domain.PowerOn, nil
	}
	return domain.PowerOff, nil
}

// PowerOn issues the standard power-on reset action.
func (s *session) PowerOn(ctx context.Context) error {
	system, err := s.system()
	if err != nil {
		return err
	}

	if err := system.Reset(redfish.OnResetType); err != nil {
		return fmt.Errorf("reset action rejected by %s: %w", s.address, err)
	}
	return nil
}

// Close logs out of the Redfish service. Closing twice is a no-op.
func (s *session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.client.Logout()
	return nil
}
