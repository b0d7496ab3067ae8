// Package poll repeatedly invokes a probe until its result satisfies a stop
// condition, a time budget runs out, or the caller cancels.
//
// A poll settles exactly once. Attempts run strictly one after another; no
// probe is started after the poll has settled.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultInterval is the pause between attempts when Options.Interval is unset.
const DefaultInterval = 1500 * time.Millisecond

var (
	// ErrAborted is returned when the caller's context is done before the
	// stop condition is met.
	ErrAborted = errors.New("poll aborted")
	// ErrTimeout is returned when MaxWait elapses before the stop condition is met.
	ErrTimeout = errors.New("poll timeout")
	// ErrInvalidOptions is returned when Probe or ShouldStop is missing.
	ErrInvalidOptions = errors.New("poll: probe and stop condition are required")
)

// Options configures a poll.
type Options[T any] struct {
	// Probe is invoked once per attempt. A probe error ends the poll with
	// that error; retrying transient failures is the probe's own business.
	Probe func(ctx context.Context) (T, error)
	// ShouldStop reports whether a probe result is final.
	ShouldStop func(T) bool
	// Interval between the end of one attempt and the start of the next.
	Interval time.Duration
	// MaxWait bounds the total wall-clock time. Zero means unbounded.
	MaxWait time.Duration
	// OnAttempt, if set, observes every successful probe result.
	OnAttempt func(attempt int, v T)
}

// Poll runs the probe immediately and then every Interval until ShouldStop
// accepts a result. Cancellation of ctx wins over any result delivered after
// it: once ctx is done, Poll never resolves successfully.
func Poll[T any](ctx context.Context, opts Options[T]) (T, error) {
	var zero T
	if opts.Probe == nil || opts.ShouldStop == nil {
		return zero, ErrInvalidOptions
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	start := time.Now()
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, aborted(err)
		}

		v, err := opts.Probe(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, aborted(ctxErr)
		}
		if err != nil {
			return zero, err
		}
		if opts.OnAttempt != nil {
			opts.OnAttempt(attempt, v)
		}
		if opts.ShouldStop(v) {
			return v, nil
		}

		elapsed := time.Since(start)
		if opts.MaxWait > 0 && elapsed >= opts.MaxWait {
			return zero, fmt.Errorf("%w after %s (%d attempts)", ErrTimeout, elapsed.Round(time.Millisecond), attempt)
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, aborted(ctx.Err())
		case <-timer.C:
		}
	}
}

func aborted(cause error) error {
	return fmt.Errorf("%w: %w", ErrAborted, cause)
}
