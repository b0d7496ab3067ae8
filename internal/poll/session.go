package poll

import (
	"context"
	"sync"
)

// Session is a poll running in its own goroutine with its own cancellation.
type Session[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}

	once   sync.Once
	result T
	err    error
}

// Start launches Poll in the background. The session is cancelled when
// parent is done or Cancel is called, whichever comes first.
func Start[T any](parent context.Context, opts Options[T]) *Session[T] {
	ctx, cancel := context.WithCancel(parent)
	s := &Session[T]{cancel: cancel, done: make(chan struct{})}
	go func() {
		v, err := Poll(ctx, opts)
		s.settle(v, err)
		cancel()
	}()
	return s
}

func (s *Session[T]) settle(v T, err error) {
	s.once.Do(func() {
		s.result, s.err = v, err
		close(s.done)
	})
}

// Cancel stops the session. It is a no-op once the session has settled.
func (s *Session[T]) Cancel() {
	s.cancel()
}

// Done is closed when the session has settled.
func (s *Session[T]) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session settles or ctx is done. Giving up on the
// wait does not cancel the session.
func (s *Session[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-s.done:
		return s.result, s.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
