// Package retry runs a fallible operation a bounded number of times with a
// fixed backoff between attempts.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	DefaultMaxAttempts = 3
	DefaultBackoff     = 500 * time.Millisecond
)

// Policy bounds a retried operation. Zero values fall back to the defaults.
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration
	Clock       clockwork.Clock
	Logger      *slog.Logger
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Backoff <= 0 {
		p.Backoff = DefaultBackoff
	}
	if p.Clock == nil {
		p.Clock = clockwork.NewRealClock()
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	return p
}

// Do calls op until it succeeds or the attempt budget is spent.
//
// op is a factory: it is invoked again on every attempt so each retry issues a
// fresh call instead of re-awaiting one that already settled. Every failure is
// treated as retryable. A budget of 1 makes the first failure terminal.
func Do[T any](ctx context.Context, p Policy, label string, op func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	var zero T
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		left := p.MaxAttempts - attempt
		if left == 0 {
			break
		}

		p.Logger.WarnContext(ctx, "call failed, retrying",
			"op", label,
			"attempts_left", left,
			"backoff_ms", p.Backoff.Milliseconds(),
			"error", err,
		)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-p.Clock.After(p.Backoff):
		}
	}

	return zero, fmt.Errorf("%s: failed after %d attempts: %w", label, p.MaxAttempts, lastErr)
}
