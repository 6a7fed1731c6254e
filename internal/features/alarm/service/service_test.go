package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermo-guard/internal/features/alarm/domain"
)

// fakeFeed implements domain.Feed with a scripted response sequence
type fakeFeed struct {
	attempts  int
	responses []func() (*domain.Reading, error)
}

func (f *fakeFeed) FetchAlertOverview(ctx context.Context) (*domain.Reading, error) {
	idx := f.attempts
	f.attempts++
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx]()
}

func failedRead(err error) func() (*domain.Reading, error) {
	return func() (*domain.Reading, error) { return nil, err }
}

func successfulRead(reading *domain.Reading) func() (*domain.Reading, error) {
	return func() (*domain.Reading, error) { return reading, nil }
}

func testConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
	}
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name     string
		reading  *domain.Reading
		expected domain.Signal
	}{
		{
			name:     "nil reading yields unknown",
			reading:  nil,
			expected: domain.SignalUnknown,
		},
		{
			name: "temperature not supported yields unknown regardless of counts",
			reading: &domain.Reading{
				SupportedMetrics: []string{"humidity", "door"},
				Counts:           map[string]int{"temperature": 5},
			},
			expected: domain.SignalUnknown,
		},
		{
			name: "absent supportedMetrics yields unknown",
			reading: &domain.Reading{
				Counts: map[string]int{"temperature": 5},
			},
			expected: domain.SignalUnknown,
		},
		{
			name: "count above zero yields active",
			reading: &domain.Reading{
				SupportedMetrics: []string{"temperature", "humidity"},
				Counts:           map[string]int{"temperature": 2},
			},
			expected: domain.SignalActive,
		},
		{
			name: "count of zero yields inactive",
			reading: &domain.Reading{
				SupportedMetrics: []string{"temperature"},
				Counts:           map[string]int{"temperature": 0},
			},
			expected: domain.SignalInactive,
		},
		{
			name: "absent count yields unknown",
			reading: &domain.Reading{
				SupportedMetrics: []string{"temperature"},
				Counts:           map[string]int{"humidity": 1},
			},
			expected: domain.SignalUnknown,
		},
		{
			name: "nil counts map yields unknown",
			reading: &domain.Reading{
				SupportedMetrics: []string{"temperature"},
			},
			expected: domain.SignalUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Reduce(tt.reading))
		})
	}
}

func TestPollReturnsActiveOnFirstAttempt(t *testing.T) {
	feed := &fakeFeed{
		responses: []func() (*domain.Reading, error){
			successfulRead(&domain.Reading{
				SupportedMetrics: []string{"temperature"},
				Counts:           map[string]int{"temperature": 2},
			}),
		},
	}

	service := NewService(testConfig(), feed)
	signal := service.Poll(context.Background())

	assert.Equal(t, domain.SignalActive, signal)
	assert.Equal(t, 1, feed.attempts, "A successful read should not be retried")
}

func TestPollDegradesToUnknownAfterThreeAttempts(t *testing.T) {
	feed := &fakeFeed{
		responses: []func() (*domain.Reading, error){
			failedRead(fmt.Errorf("connection refused")),
		},
	}

	service := NewService(testConfig(), feed)
	signal := service.Poll(context.Background())

	assert.Equal(t, domain.SignalUnknown, signal)
	assert.Equal(t, 3, feed.attempts, "Poll should make exactly 3 attempts before giving up")
}

func TestPollRetriesTransientFailureThenSucceeds(t *testing.T) {
	feed := &fakeFeed{
		responses: []func() (*domain.Reading, error){
			failedRead(fmt.Errorf("gateway timeout")),
			failedRead(fmt.Errorf("gateway timeout")),
			successfulRead(&domain.Reading{
				SupportedMetrics: []string{"temperature"},
				Counts:           map[string]int{"temperature": 0},
			}),
		},
	}

	service := NewService(testConfig(), feed)
	signal := service.Poll(context.Background())

	assert.Equal(t, domain.SignalInactive, signal)
	assert.Equal(t, 3, feed.attempts)
}

func TestPollBackoffDelaysBetweenAttempts(t *testing.T) {
	feed := &fakeFeed{
		responses: []func() (*domain.Reading, error){
			failedRead(fmt.Errorf("unreachable")),
		},
	}

	config := Config{
		MaxAttempts:    3,
		InitialBackoff: 20 * time.Millisecond,
	}

	start := time.Now()
	service := NewService(config, feed)
	signal := service.Poll(context.Background())
	elapsed := time.Since(start)

	require.Equal(t, domain.SignalUnknown, signal)
	// Delays of 20ms and 40ms between the three attempts, none after the
	// last one.
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
	assert.Less(t, elapsed, 200*time.Millisecond)
}

func TestPollStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	feed := &fakeFeed{
		responses: []func() (*domain.Reading, error){
			failedRead(fmt.Errorf("unreachable")),
		},
	}

	service := NewService(testConfig(), feed)
	signal := service.Poll(ctx)

	assert.Equal(t, domain.SignalUnknown, signal)
	assert.LessOrEqual(t, feed.attempts, 1, "A canceled context should not be retried")
}
