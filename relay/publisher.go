package relay

import (
	"context"
	"fmt"
	"time"
)

// RetryPublisher wraps a Publisher with a bounded retry policy: one
// initial attempt plus retries, the delay doubling between attempts
// (1s, 2s, ...). The sleep function is injectable so the policy can be
// tested without timers.
type RetryPublisher struct {
	inner     Publisher
	attempts  int
	baseDelay time.Duration
	sleep     func(time.Duration)
}

func NewRetryPublisher(inner Publisher) *RetryPublisher {
	return &RetryPublisher{
		inner:     inner,
		attempts:  3,
		baseDelay: time.Second,
		sleep:     time.Sleep,
	}
}

func (p *RetryPublisher) Publish(ctx context.Context, ev *Event) error {
	delay := p.baseDelay

	var lastErr error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		if attempt > 1 {
			p.sleep(delay)
			delay *= 2
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("relay publish cancelled: %w", err)
		}

		lastErr = p.inner.Publish(ctx, ev)
		if lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("relay publish failed after %d attempts: %w", p.attempts, lastErr)
}
