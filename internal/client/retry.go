package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meridian-io/cms/internal/constants"
	"github.com/meridian-io/cms/pkg/cms"
)

// retryPoll repeatedly invokes task until it succeeds or fails with
// anything other than cms.ErrPollingNotCompleted.
//
// attempts == nil retries indefinitely; attempts <= 1 surfaces the first
// ErrPollingNotCompleted. Only ErrPollingNotCompleted is retryable: any
// other error stops the loop immediately regardless of remaining budget.
// delay == 0 retries back to back. A task error carrying
// context.DeadlineExceeded stops the loop and surfaces wrapped in
// ErrPollingNotCompleted, matching expiry during the inter-attempt
// wait.
func retryPoll[T any](ctx context.Context, attempts *int, delay time.Duration, task func(context.Context) (T, error)) (T, error) {
	var zero T

	remaining := 0
	bounded := attempts != nil

	if bounded {
		remaining = *attempts
	}

	for {
		value, err := task(ctx)
		if err == nil {
			return value, nil
		}

		if !errors.Is(err, cms.ErrPollingNotCompleted) {
			if errors.Is(err, context.DeadlineExceeded) {
				return zero, fmt.Errorf("%w: %w", cms.ErrPollingNotCompleted, err)
			}

			return zero, err
		}

		if bounded {
			remaining--
			if remaining < 1 {
				return zero, err
			}
		}

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()

				return zero, pollContextError(ctx)
			case <-timer.C:
			}
		} else if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, pollContextError(ctx)
		}
	}
}

// pollContextError maps context expiry onto the polling taxonomy:
// a deadline that passes mid-poll means the poll did not complete.
func pollContextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", cms.ErrPollingNotCompleted, ctx.Err())
	}

	return ctx.Err() //nolint:wrapcheck // Cancellation passes through unwrapped.
}

// pollSettings resolves PollOptions defaults for the parsed-poll path.
func pollSettings(opts *cms.PollOptions) (attempts *int, interval time.Duration, timeout time.Duration) {
	interval = constants.DefaultPollInterval

	if opts == nil {
		return nil, interval, 0
	}

	if opts.Interval > 0 {
		interval = opts.Interval
	}

	return opts.Attempts, interval, opts.Timeout
}
