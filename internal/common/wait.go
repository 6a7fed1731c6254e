package common

import (
	"context"
	"time"
)

// ConditionFunc reports whether polling is complete. Returning an error stops
// polling immediately; the error is returned to the caller as-is.
type ConditionFunc func(ctx context.Context) (done bool, err error)

// PollUntil evaluates cond at a fixed interval until it reports done, fails,
// the attempt budget is spent, or the context is canceled. The first attempt
// runs immediately; the interval is only slept between attempts, never after
// the last one. When the budget runs out a wrapped ErrTimeout is returned.
func PollUntil(ctx context.Context, interval time.Duration, maxAttempts int, cond ConditionFunc) error {
	if maxAttempts <= 0 {
		return InvalidInputError("maxAttempts must be positive, got %d", maxAttempts)
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := cond(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		if err := Sleep(ctx, interval); err != nil {
			return err
		}
	}

	return TimeoutError("condition not met after %d attempts", maxAttempts)
}

// Sleep blocks for the given duration or until the context is canceled,
// whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
