package domain

import "context"

// Provider runs the fabric power-on procedure.
type Provider interface {
	// PowerOnFabric powers on every configured host via its out-of-band
	// interface. The result is the strict AND of the per-host outcomes.
	PowerOnFabric(ctx context.Context, hosts []HostEndpoint) bool
}

// Connector opens out-of-band management sessions.
type Connector interface {
	Connect(ctx context.Context, endpoint HostEndpoint) (Session, error)
}

// Session is an open out-of-band management connection to one host.
type Session interface {
	// PowerState reads the current power state of the managed system.
	PowerState(ctx context.Context) (PowerState, error)
	// PowerOn issues the power-on reset action. It returns an error when
	// the request is not accepted.
	PowerOn(ctx context.Context) error
	Close(ctx context.Context) error
}
