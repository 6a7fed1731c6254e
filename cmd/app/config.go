package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	powerdomain "thermo-guard/internal/features/power/domain"
)

// Config holds the complete application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Sensor configuration for the alert feed
	Sensor SensorConfig `mapstructure:"sensor"`

	// VCenter configuration for the hypervisor management plane
	VCenter VCenterConfig `mapstructure:"vcenter"`

	// OutOfBand configuration for the host management interfaces
	OutOfBand OutOfBandConfig `mapstructure:"outofband"`

	// Controller configuration for the control loop
	Controller ControllerConfig `mapstructure:"controller"`

	// Fabric configuration for the shutdown procedure timing
	Fabric FabricConfig `mapstructure:"fabric"`

	// App configuration
	App AppConfig `mapstructure:"app"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `mapstructure:"port"`

	// ShutdownTimeout is the timeout for server shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SensorConfig holds alert feed configuration
type SensorConfig struct {
	// APIKey is the bearer credential for the alert feed
	APIKey string `mapstructure:"api_key"`

	// BaseURL is the base URL of the alert feed API
	BaseURL string `mapstructure:"base_url"`

	// NetworkID is the network queried for sensor alerts
	NetworkID string `mapstructure:"network_id"`

	// Timeout is the per-request timeout
	Timeout time.Duration `mapstructure:"timeout"`

	// MaxAttempts is the total number of read attempts per poll
	MaxAttempts int `mapstructure:"max_attempts"`

	// InitialBackoff is the delay before the first retry
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
}

// VCenterConfig holds hypervisor management plane configuration
type VCenterConfig struct {
	// Host is the vCenter endpoint
	Host string `mapstructure:"host"`

	// User is the vCenter login user
	User string `mapstructure:"user"`

	// Password is the vCenter login password
	Password string `mapstructure:"password"`

	// Insecure skips TLS certificate validation
	Insecure bool `mapstructure:"insecure"`
}

// OutOfBandConfig holds the out-of-band host inventory
type OutOfBandConfig struct {
	// Hosts is the ordered list of management interfaces to power on
	Hosts []powerdomain.HostEndpoint `mapstructure:"hosts"`

	// HostsJSON is an alternative JSON-encoded host list, for environments
	// where the inventory is injected through a single variable
	HostsJSON string `mapstructure:"hosts_json"`

	// Insecure skips TLS certificate validation
	Insecure bool `mapstructure:"insecure"`
}

// ControllerConfig holds control loop configuration
type ControllerConfig struct {
	// PollInterval is the time between control loop ticks
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// ErrorDelay is the delay after an unexpected tick failure
	ErrorDelay time.Duration `mapstructure:"error_delay"`

	// ProbeInitialState probes real host power state at startup instead
	// of assuming the cluster is running
	ProbeInitialState bool `mapstructure:"probe_initial_state"`
}

// FabricConfig holds fabric shutdown timing configuration
type FabricConfig struct {
	// GracefulShutdownAttempts is the number of power state polls after a
	// guest shutdown request
	GracefulShutdownAttempts int `mapstructure:"graceful_shutdown_attempts"`

	// GracefulPollInterval is the spacing between those polls
	GracefulPollInterval time.Duration `mapstructure:"graceful_poll_interval"`

	// ForceOffTimeout bounds the wait for a forced power-off task
	ForceOffTimeout time.Duration `mapstructure:"force_off_timeout"`

	// ForceOffPollInterval is the spacing between forced power-off polls
	ForceOffPollInterval time.Duration `mapstructure:"force_off_poll_interval"`

	// MaintenanceTimeout is the budget for entering maintenance mode
	MaintenanceTimeout time.Duration `mapstructure:"maintenance_timeout"`

	// HostTaskPollInterval is the spacing between host task polls
	HostTaskPollInterval time.Duration `mapstructure:"host_task_poll_interval"`
}

// AppConfig holds application configuration
type AppConfig struct {
	// Component is the name of the component
	Component string `mapstructure:"component"`

	// LogLevel is the log level
	LogLevel string `mapstructure:"log_level"`
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure paths and file types
	configureViper(v)

	// Read configs file
	if err := readConfigs(v); err != nil {
		return nil, err
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configs: %w", err)
	}

	// Resolve the JSON-encoded out-of-band host list if used
	if err := resolveOutOfBandHosts(&config); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// configureViper sets up Viper configuration paths and types
func configureViper(v *viper.Viper) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/thermo-guard/")

	// Enable environment variables, mapping nested keys like
	// sensor.api_key to THERMOGUARD_SENSOR_API_KEY
	v.SetEnvPrefix("THERMOGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets and endpoints carry no default, so they are invisible to
	// AutomaticEnv until bound explicitly
	for _, key := range []string{
		"sensor.api_key",
		"sensor.network_id",
		"vcenter.host",
		"vcenter.user",
		"vcenter.password",
		"outofband.hosts_json",
	} {
		v.MustBindEnv(key)
	}
}

// readConfigs attempts to read the configuration file
func readConfigs(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		// Only return error if it's not a "configs file not found" error
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read configs file: %w", err)
		}
		// Otherwise, continue with defaults and environment variables
	}
	return nil
}

// resolveOutOfBandHosts decodes the JSON host list when the structured list
// is empty
func resolveOutOfBandHosts(cfg *Config) error {
	if len(cfg.OutOfBand.Hosts) > 0 || cfg.OutOfBand.HostsJSON == "" {
		return nil
	}

	var hosts []powerdomain.HostEndpoint
	if err := json.Unmarshal([]byte(cfg.OutOfBand.HostsJSON), &hosts); err != nil {
		return fmt.Errorf("outofband.hosts_json is not valid JSON: %w", err)
	}
	cfg.OutOfBand.Hosts = hosts
	return nil
}

// validateConfig validates the configuration and fails closed
func validateConfig(cfg *Config) error {
	// Validate server configuration
	if cfg.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	// Validate sensor configuration
	if cfg.Sensor.APIKey == "" {
		return fmt.Errorf("sensor.api_key is required")
	}
	if cfg.Sensor.NetworkID == "" {
		return fmt.Errorf("sensor.network_id is required")
	}
	if cfg.Sensor.BaseURL == "" {
		return fmt.Errorf("sensor.base_url is required")
	}
	if cfg.Sensor.MaxAttempts <= 0 {
		return fmt.Errorf("sensor.max_attempts must be positive")
	}

	// Validate vCenter configuration
	if cfg.VCenter.Host == "" {
		return fmt.Errorf("vcenter.host is required")
	}
	if cfg.VCenter.User == "" {
		return fmt.Errorf("vcenter.user is required")
	}
	if cfg.VCenter.Password == "" {
		return fmt.Errorf("vcenter.password is required")
	}

	// Validate out-of-band configuration
	if len(cfg.OutOfBand.Hosts) == 0 {
		return fmt.Errorf("outofband.hosts is required and must not be empty")
	}
	for i, host := range cfg.OutOfBand.Hosts {
		if host.Address == "" {
			return fmt.Errorf("outofband.hosts[%d].host is required", i)
		}
		if host.Username == "" {
			return fmt.Errorf("outofband.hosts[%d].username is required", i)
		}
		if host.Password == "" {
			return fmt.Errorf("outofband.hosts[%d].password is required", i)
		}
	}

	// Validate controller configuration
	if cfg.Controller.PollInterval <= 0 {
		return fmt.Errorf("controller.poll_interval must be positive")
	}
	if cfg.Controller.ErrorDelay <= 0 {
		return fmt.Errorf("controller.error_delay must be positive")
	}

	// Validate fabric configuration
	if cfg.Fabric.GracefulShutdownAttempts <= 0 {
		return fmt.Errorf("fabric.graceful_shutdown_attempts must be positive")
	}
	if cfg.Fabric.ForceOffTimeout <= 0 {
		return fmt.Errorf("fabric.force_off_timeout must be positive")
	}

	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// Sensor defaults
	v.SetDefault("sensor.base_url", "https://api.meraki.com/api/v1")
	v.SetDefault("sensor.timeout", 10*time.Second)
	v.SetDefault("sensor.max_attempts", 3)
	v.SetDefault("sensor.initial_backoff", 1*time.Second)

	// vCenter defaults
	v.SetDefault("vcenter.insecure", true)

	// Out-of-band defaults
	v.SetDefault("outofband.insecure", true)

	// Controller defaults
	v.SetDefault("controller.poll_interval", 60*time.Second)
	v.SetDefault("controller.error_delay", 10*time.Second)
	v.SetDefault("controller.probe_initial_state", false)

	// Fabric defaults
	v.SetDefault("fabric.graceful_shutdown_attempts", 30)
	v.SetDefault("fabric.graceful_poll_interval", 10*time.Second)
	v.SetDefault("fabric.force_off_timeout", 5*time.Minute)
	v.SetDefault("fabric.force_off_poll_interval", 1*time.Second)
	v.SetDefault("fabric.maintenance_timeout", 10*time.Minute)
	v.SetDefault("fabric.host_task_poll_interval", 5*time.Second)

	// App defaults
	v.SetDefault("app.component", "thermo-guard")
	v.SetDefault("app.log_level", "info")
}
