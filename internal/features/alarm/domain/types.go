package domain

// Signal is the tri-state temperature alarm signal. Unknown means the feed
// could not answer the question this tick and must never be treated as
// either Active or Inactive.
type Signal string

// Alarm signals
const (
	SignalActive   Signal = "Active"
	SignalInactive Signal = "Inactive"
	SignalUnknown  Signal = "Unknown"
)

// TemperatureMetric is the metric name this controller watches.
const TemperatureMetric = "temperature"

// Reading is one snapshot of the sensor alert feed, discarded after it has
// been reduced to a Signal.
type Reading struct {
	// SupportedMetrics lists the metric names the network can report on
	SupportedMetrics []string `json:"supportedMetrics"`

	// Counts maps metric name to the number of currently firing alerts
	Counts map[string]int `json:"counts"`
}

// SupportsMetric reports whether the feed can answer for the given metric.
func (r *Reading) SupportsMetric(name string) bool {
	for _, m := range r.SupportedMetrics {
		if m == name {
			return true
		}
	}
	return false
}
