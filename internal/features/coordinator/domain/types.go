package domain

import (
	"time"

	alarmdomain "thermo-guard/internal/features/alarm/domain"
)

// ClusterState is the coordinator's view of the fabric. It is the only piece
// of state that survives between ticks, and it lives in memory for the life
// of the process.
type ClusterState string

// Cluster states
const (
	ClusterRunning  ClusterState = "Running"
	ClusterShutdown ClusterState = "Shutdown"
)

// Status is a point-in-time snapshot of the coordinator for the status API.
type Status struct {
	State              ClusterState       `json:"state"`
	LastSignal         alarmdomain.Signal `json:"lastSignal"`
	LastTransitionTime time.Time          `json:"lastTransitionTime"`
	LastEvaluationTime time.Time          `json:"lastEvaluationTime"`
	Ticks              uint64             `json:"ticks"`
	ShutdownFailures   uint64             `json:"shutdownFailures"`
	PowerOnFailures    uint64             `json:"powerOnFailures"`
}
