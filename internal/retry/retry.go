// Package retry provides a reusable retry-with-backoff utility so that every
// call site applies the same policy instead of hand-rolling its own loop.
package retry

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Policy parameterizes Do. Retryable decides whether an error is worth another
// attempt; a nil Retryable retries everything.
type Policy struct {
	MaxRetries int           // additional attempts after the first
	BaseDelay  time.Duration // delay before the first retry
	Multiplier float64       // backoff growth factor per retry
	Jitter     float64       // +/- fraction applied to each delay, in [0,1]
	Retryable  func(error) bool
}

// Do runs fn up to MaxRetries+1 times, sleeping an exponentially growing,
// jittered delay between attempts. The wait is context-aware: cancelling ctx
// abandons the in-flight backoff immediately. The last error is returned when
// all attempts fail or the error is not retryable.
func Do[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	delay := p.BaseDelay

	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		if attempt >= p.MaxRetries {
			return zero, err
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return zero, err
		}

		wait := jittered(delay, p.Jitter)
		slog.Warn("attempt failed, retrying",
			"attempt", attempt+1,
			"max_retries", p.MaxRetries,
			"delay", wait,
			"err", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}

		if p.Multiplier > 0 {
			delay = time.Duration(float64(delay) * p.Multiplier)
		}
	}
}

func jittered(d time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return d
	}
	// Uniform in [d*(1-jitter), d*(1+jitter)].
	factor := 1 + jitter*(2*rand.Float64()-1)
	return time.Duration(float64(d) * factor)
}
