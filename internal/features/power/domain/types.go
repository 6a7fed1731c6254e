package domain

// HostEndpoint identifies one out-of-band management interface. The
// configured list of endpoints is the authoritative host inventory for
// power-on, independent of what the hypervisor reports.
type HostEndpoint struct {
	Address  string `json:"host" mapstructure:"host"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
}

// PowerState is the power state reported by the managed system
type PowerState string

// Power states
const (
	PowerOn  PowerState = "On"
	PowerOff PowerState = "Off"
)
