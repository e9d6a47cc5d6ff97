package executor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github/chapool/go-sweeper/internal/util"
)

// retry calls fn up to opts.MaxAttempts times with doubling backoff between attempts.
func retry[T any](ctx context.Context, opts Options, what string, fn func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)

	backoff := opts.RetryBackoff

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}

		lastErr = err

		if ctx.Err() != nil || attempt == opts.MaxAttempts {
			break
		}

		util.LogFromContext(ctx).Debug().
			Err(err).
			Str("query", what).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("SweepExecutor: query failed, retrying")

		if sleep(ctx, backoff) != nil {
			break
		}

		backoff = nextBackoff(backoff)
	}

	return zero, errors.Wrapf(lastErr, "failed to query %s", what)
}

func nextBackoff(d time.Duration) time.Duration {
	return min(d*2, maxRetryBackoff) //nolint:mnd // doubling
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
