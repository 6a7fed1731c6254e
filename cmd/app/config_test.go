package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("THERMOGUARD_SENSOR_API_KEY", "test-key")
	t.Setenv("THERMOGUARD_SENSOR_NETWORK_ID", "N_123")
	t.Setenv("THERMOGUARD_VCENTER_HOST", "vcenter.example.com")
	t.Setenv("THERMOGUARD_VCENTER_USER", "administrator@vsphere.local")
	t.Setenv("THERMOGUARD_VCENTER_PASSWORD", "vc-secret")
	t.Setenv("THERMOGUARD_OUTOFBAND_HOSTS_JSON",
		`[{"host":"10.0.0.1","username":"admin","password":"ilo-secret"},`+
			`{"host":"10.0.0.2","username":"admin","password":"ilo-secret"}]`)
}

func TestLoadFromEnvironmentOnly(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Sensor.APIKey)
	assert.Equal(t, "N_123", cfg.Sensor.NetworkID)
	assert.Equal(t, "vcenter.example.com", cfg.VCenter.Host)
	assert.Equal(t, "administrator@vsphere.local", cfg.VCenter.User)
	assert.Equal(t, "vc-secret", cfg.VCenter.Password)

	require.Len(t, cfg.OutOfBand.Hosts, 2)
	assert.Equal(t, "10.0.0.1", cfg.OutOfBand.Hosts[0].Address)
	assert.Equal(t, "admin", cfg.OutOfBand.Hosts[0].Username)
	assert.Equal(t, "ilo-secret", cfg.OutOfBand.Hosts[0].Password)
	assert.Equal(t, "10.0.0.2", cfg.OutOfBand.Hosts[1].Address)

	// Defaults still apply alongside the environment
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "https://api.meraki.com/api/v1", cfg.Sensor.BaseURL)
	assert.Equal(t, 3, cfg.Sensor.MaxAttempts)
	assert.Equal(t, 60*time.Second, cfg.Controller.PollInterval)
}

func TestLoadEnvironmentOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("THERMOGUARD_CONTROLLER_POLL_INTERVAL", "30s")
	t.Setenv("THERMOGUARD_FABRIC_FORCE_OFF_TIMEOUT", "2m")
	t.Setenv("THERMOGUARD_SENSOR_BASE_URL", "https://feed.internal/api/v1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Controller.PollInterval)
	assert.Equal(t, 2*time.Minute, cfg.Fabric.ForceOffTimeout)
	assert.Equal(t, "https://feed.internal/api/v1", cfg.Sensor.BaseURL)
}

func TestLoadFailsClosedWithoutRequiredKeys(t *testing.T) {
	// Only part of the required set is present.
	t.Setenv("THERMOGUARD_SENSOR_API_KEY", "test-key")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sensor.network_id")
}

func TestLoadRejectsMalformedHostsJSON(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("THERMOGUARD_OUTOFBAND_HOSTS_JSON", `[{"host":`)

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "hosts_json")
}

func TestLoadRejectsIncompleteHostEntry(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("THERMOGUARD_OUTOFBAND_HOSTS_JSON", `[{"host":"10.0.0.1","username":"admin"}]`)

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}
