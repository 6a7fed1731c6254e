package service

import (
	"context"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"

	"thermo-guard/internal/common"
	"thermo-guard/internal/features/alarm/domain"
)

// Config holds the retry policy for polling the alert feed
type Config struct {
	// MaxAttempts is the total number of read attempts per poll
	MaxAttempts int

	// InitialBackoff is the delay before the first retry; it doubles on
	// each subsequent retry
	InitialBackoff time.Duration
}

// DefaultConfig returns the default polling retry policy
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Second,
	}
}

// Service implements domain.Provider on top of a raw alert feed.
type Service struct {
	config Config
	feed   domain.Feed
}

// NewService creates a new alarm service
func NewService(config Config, feed domain.Feed) *Service {
	if feed == nil {
		log.Fatal("alert feed cannot be nil")
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = DefaultConfig().InitialBackoff
	}

	return &Service{
		config: config,
		feed:   feed,
	}
}

// Poll reads the alert feed once, retrying transient failures with bounded
// exponential backoff, and reduces the response to a Signal. All failures
// degrade to SignalUnknown; Poll never returns an error.
func (s *Service) Poll(ctx context.Context) domain.Signal {
	var reading *domain.Reading

	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}

		r, err := s.feed.FetchAlertOverview(ctx)
		if err != nil {
			if common.IsContextCanceled(err) {
				return backoff.Permanent(err)
			}
			return err
		}

		reading = r
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = s.config.InitialBackoff
	expBackoff.Multiplier = 2
	expBackoff.RandomizationFactor = 0
	expBackoff.MaxElapsedTime = 0

	// MaxAttempts total attempts means MaxAttempts-1 retries
	policy := backoff.WithContext(
		backoff.WithMaxRetries(expBackoff, uint64(s.config.MaxAttempts-1)), ctx)

	err := backoff.RetryNotify(operation, policy, func(err error, duration time.Duration) {
		log.Printf("Alert feed read failed: %v, retrying in %.1f seconds", err, duration.Seconds())
	})
	if err != nil {
		log.Printf("Alert feed unreachable after %d attempts: %v", s.config.MaxAttempts, err)
		return domain.SignalUnknown
	}

	return Reduce(reading)
}

// Reduce turns one alert feed reading into the tri-state signal. It is a pure
// function so the reduction can be tested against canned responses.
func Reduce(reading *domain.Reading) domain.Signal {
	if reading == nil {
		log.Printf("Invalid alert feed reading")
		return domain.SignalUnknown
	}

	if !reading.SupportsMetric(domain.TemperatureMetric) {
		log.Printf("Temperature metric not supported by this network")
		return domain.SignalUnknown
	}

	count, ok := reading.Counts[domain.TemperatureMetric]
	if !ok {
		log.Printf("Temperature count not found in alert feed response")
		return domain.SignalUnknown
	}

	log.Printf("Temperature alert count: %d", count)
	if count > 0 {
		return domain.SignalActive
	}
	return domain.SignalInactive
}
