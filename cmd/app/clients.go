package app

import (
	"fmt"

	alarmhttp "thermo-guard/internal/features/alarm/adapter/http"
	alarmdomain "thermo-guard/internal/features/alarm/domain"
	vsphereadapter "thermo-guard/internal/features/fabric/adapter/vsphere"
	fabricdomain "thermo-guard/internal/features/fabric/domain"
	redfishadapter "thermo-guard/internal/features/power/adapter/redfish"
	powerdomain "thermo-guard/internal/features/power/domain"
)

// Clients holds the external system adapters.
type Clients struct {
	// AlarmFeed reads the sensor alert feed
	AlarmFeed alarmdomain.Feed

	// FabricConnector opens hypervisor management sessions
	FabricConnector fabricdomain.Connector

	// PowerConnector opens out-of-band management sessions
	PowerConnector powerdomain.Connector
}

// NewClients builds the external system adapters from configuration.
func NewClients(cfg *Config) (*Clients, error) {
	feedConfig := alarmhttp.DefaultClientConfig()
	feedConfig.BaseURL = cfg.Sensor.BaseURL
	feedConfig.NetworkID = cfg.Sensor.NetworkID
	feedConfig.APIKey = cfg.Sensor.APIKey
	feedConfig.Timeout = cfg.Sensor.Timeout

	feed, err := alarmhttp.NewClient(feedConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert feed client: %w", err)
	}

	fabricConnector := vsphereadapter.NewConnector(vsphereadapter.ConnectorConfig{
		Host:     cfg.VCenter.Host,
		User:     cfg.VCenter.User,
		Password: cfg.VCenter.Password,
		Insecure: cfg.VCenter.Insecure,
	})

	powerConnector := redfishadapter.NewConnector(redfishadapter.ConnectorConfig{
		Insecure: cfg.OutOfBand.Insecure,
	})

	return &Clients{
		AlarmFeed:       feed,
		FabricConnector: fabricConnector,
		PowerConnector:  powerConnector,
	}, nil
}
