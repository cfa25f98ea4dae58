package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type result struct {
	v   string
	err error
}

// drive runs Do in a goroutine and advances the fake clock every time Do
// parks on a backoff. It returns the result and how much time was skipped.
func drive(t *testing.T, fc *clockwork.FakeClock, p Policy, op func(context.Context) (string, error)) (result, time.Duration) {
	t.Helper()

	p.Clock = fc
	step := p.withDefaults().Backoff
	start := fc.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		v, err := Do(ctx, p, "test.op", op)
		done <- result{v: v, err: err}
	}()

	for {
		select {
		case r := <-done:
			return r, fc.Since(start)
		default:
		}

		waitCtx, waitCancel := context.WithTimeout(ctx, 20*time.Millisecond)
		err := fc.BlockUntilContext(waitCtx, 1)
		waitCancel()
		if err == nil {
			fc.Advance(step)
		}
	}
}

func TestDo_SucceedsOnLastAttempt(t *testing.T) {
	const budget = 4
	fc := clockwork.NewFakeClock()
	calls := 0

	r, slept := drive(t, fc, Policy{MaxAttempts: budget, Backoff: 500 * time.Millisecond, Logger: quietLogger()},
		func(context.Context) (string, error) {
			calls++
			if calls < budget {
				return "", errFlaky
			}
			return "ok", nil
		})

	require.NoError(t, r.err)
	assert.Equal(t, "ok", r.v)
	assert.Equal(t, budget, calls)
	assert.Equal(t, (budget-1)*500*time.Millisecond, slept)
}

func TestDo_ExhaustsBudget(t *testing.T) {
	const budget = 3
	fc := clockwork.NewFakeClock()
	calls := 0

	r, slept := drive(t, fc, Policy{MaxAttempts: budget, Logger: quietLogger()},
		func(context.Context) (string, error) {
			calls++
			return "", errFlaky
		})

	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, errFlaky)
	assert.Contains(t, r.err.Error(), "test.op")
	assert.Equal(t, budget, calls)
	assert.Equal(t, (budget-1)*DefaultBackoff, slept)
}

func TestDo_BudgetOfOneDoesNotRetry(t *testing.T) {
	fc := clockwork.NewFakeClock()
	calls := 0

	_, err := Do(context.Background(), Policy{MaxAttempts: 1, Clock: fc, Logger: quietLogger()}, "once",
		func(context.Context) (int, error) {
			calls++
			return 0, errFlaky
		})

	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, calls)
}

func TestDo_DefaultBudget(t *testing.T) {
	fc := clockwork.NewFakeClock()
	calls := 0

	r, _ := drive(t, fc, Policy{Logger: quietLogger()}, func(context.Context) (string, error) {
		calls++
		return "", errFlaky
	})

	require.Error(t, r.err)
	assert.Equal(t, DefaultMaxAttempts, calls)
}

func TestDo_StopsWhenContextCancelled(t *testing.T) {
	fc := clockwork.NewFakeClock()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, Policy{MaxAttempts: 5, Clock: fc, Logger: quietLogger()}, "cancel",
			func(context.Context) (int, error) {
				calls++
				return 0, errFlaky
			})
		done <- err
	}()

	require.NoError(t, fc.BlockUntilContext(context.Background(), 1))
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
