package imageload

import (
	"context"
	"sync"
)

// Outcome is the terminal result of a Task
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeCompleted
	OutcomeFailed
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Task runs a function on its own goroutine and settles exactly once.
// Completion and cancellation race; whichever settles first wins and the
// other is discarded.
type Task[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	outcome Outcome
	value   T
	err     error
}

// Go starts fn with a context derived from parent
func Go[T any](parent context.Context, fn func(ctx context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(parent)
	t := &Task[T]{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		value, err := fn(ctx)
		if err != nil {
			var zero T
			t.settle(OutcomeFailed, zero, err)
			return
		}
		t.settle(OutcomeCompleted, value, nil)
	}()

	return t
}

// settle records the outcome if the task is still pending
func (t *Task[T]) settle(outcome Outcome, value T, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.outcome != OutcomePending {
		return false
	}
	t.outcome = outcome
	t.value = value
	t.err = err
	t.cancel()
	close(t.done)
	return true
}

// Cancel aborts the task. It returns true if this call settled the task,
// false if it had already completed, failed or been cancelled.
func (t *Task[T]) Cancel() bool {
	var zero T
	return t.settle(OutcomeCancelled, zero, context.Canceled)
}

// Done is closed once the task has settled
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Outcome returns the current outcome (OutcomePending until settled)
func (t *Task[T]) Outcome() Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outcome
}

// Result returns the settled value, outcome and error
func (t *Task[T]) Result() (T, Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.outcome, t.err
}
