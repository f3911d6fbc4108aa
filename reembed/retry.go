package reembed

import (
	"context"
	"time"
)

// RetryWithBackoff executes fn up to maxAttempts times, doubling the delay
// between attempts. The delay timer respects context cancellation, so a
// cancelled context aborts the wait rather than sleeping it out.
func RetryWithBackoff(ctx context.Context, maxAttempts int, initialDelay time.Duration, fn func() error) error {
	if maxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	delay := initialDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	return lastErr
}
