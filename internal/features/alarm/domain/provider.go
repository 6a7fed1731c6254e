package domain

import "context"

// Provider polls the sensor alert feed and reduces the result to a Signal.
type Provider interface {
	// Poll issues one polling cycle against the feed, retrying transient
	// failures internally, and degrades to SignalUnknown rather than
	// returning an error.
	Poll(ctx context.Context) Signal
}

// Feed issues a single read against the raw alert feed.
type Feed interface {
	FetchAlertOverview(ctx context.Context) (*Reading, error)
}
