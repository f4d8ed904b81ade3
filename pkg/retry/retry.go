// Package retry provides bounded exponential backoff for fallible operations.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Options controls backoff behavior for Do.
type Options struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultOptions returns the standard backoff profile used by connection-oriented
// subsystems: 5 attempts starting at 500ms, doubling up to 10s.
func DefaultOptions() Options {
	return Options{
		MaxAttempts:  5,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// Do invokes operation until it succeeds, the attempt budget is exhausted,
// or ctx is cancelled. The delay between attempts grows by Multiplier and
// is capped at MaxDelay.
func Do(ctx context.Context, operation func() error, opts Options) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 500 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 10 * time.Second
	}
	if opts.Multiplier <= 1 {
		opts.Multiplier = 2.0
	}

	var lastErr error
	delay := opts.InitialDelay

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = operation(); lastErr == nil {
			return nil
		}

		if attempt == opts.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * opts.Multiplier)
		if delay > opts.MaxDelay {
			delay = opts.MaxDelay
		}
	}

	return fmt.Errorf("exhausted %d attempts: %w", opts.MaxAttempts, lastErr)
}
