// Package retry wraps a fetch operation with capped exponential backoff:
// 500ms, 1s, 2s, ... capped so the wait before any attempt never exceeds
// 32s (seven attempts including the first). Grounded on the doubling-sleep
// loop in the original syncer's retry() but expressed with
// cenkalti/backoff/v4 rather than a hand-rolled loop.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const maxAttempts = 7

// Do calls fn, retrying on error with the capped-exponential schedule. It
// returns the last error once the schedule is exhausted, or the value fn
// produced as soon as it succeeds. fn is assumed idempotent; retry never
// inspects the error's content beyond "it is not nil".
func Do(ctx context.Context, fn func() (any, error)) (any, error) {
	var result any

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = 32 * time.Second
	b.MaxElapsedTime = 0 // bounded by WithMaxRetries below, not elapsed wall time

	bo := backoff.WithContext(backoff.WithMaxRetries(b, maxAttempts-1), ctx)

	operation := func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		result = v
		return nil
	}

	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}
	return result, nil
}
