package domain

import (
	"context"

	alarmdomain "thermo-guard/internal/features/alarm/domain"
	powerdomain "thermo-guard/internal/features/power/domain"
)

// Coordinator owns the shutdown/power-on decision state machine. Evaluate is
// called once per tick and runs any resulting procedure to completion before
// returning, so at most one fabric-level procedure is ever in flight.
type Coordinator interface {
	Evaluate(ctx context.Context, signal alarmdomain.Signal)
	State() ClusterState
	Status() Status
}

// Prober reads the real power state of the fabric so the coordinator can
// seed its initial state instead of assuming the cluster is running.
type Prober interface {
	AllPoweredOff(ctx context.Context, hosts []powerdomain.HostEndpoint) (bool, error)
}
