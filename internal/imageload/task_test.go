package imageload

import (
	"context"
	"errors"
	"testing"
	"time"
)

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for settlement")
	}
}

func TestTask_Completes(t *testing.T) {
	task := Go(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	})
	waitDone(t, task.Done())

	v, outcome, err := task.Result()
	if outcome != OutcomeCompleted || v != 42 || err != nil {
		t.Fatalf("Result() = %d, %v, %v; want 42, completed, nil", v, outcome, err)
	}
	if task.Cancel() {
		t.Error("Cancel() after completion should report false")
	}
	if task.Outcome() != OutcomeCompleted {
		t.Errorf("Outcome() = %v; want completed", task.Outcome())
	}
}

func TestTask_Fails(t *testing.T) {
	boom := errors.New("boom")
	task := Go(context.Background(), func(ctx context.Context) (string, error) {
		return "", boom
	})
	waitDone(t, task.Done())

	_, outcome, err := task.Result()
	if outcome != OutcomeFailed {
		t.Errorf("outcome = %v; want failed", outcome)
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v; want boom", err)
	}
}

func TestTask_CancelWinsOverLateCompletion(t *testing.T) {
	release := make(chan struct{})
	returned := make(chan struct{})
	sawCancel := make(chan struct{})

	task := Go(context.Background(), func(ctx context.Context) (int, error) {
		defer close(returned)
		<-ctx.Done()
		close(sawCancel)
		<-release
		return 7, nil
	})

	if !task.Cancel() {
		t.Fatal("first Cancel() should settle the task")
	}
	if task.Cancel() {
		t.Error("second Cancel() should report false")
	}
	waitDone(t, sawCancel)

	close(release)
	waitDone(t, returned)
	time.Sleep(10 * time.Millisecond)

	v, outcome, err := task.Result()
	if outcome != OutcomeCancelled {
		t.Errorf("outcome = %v; want cancelled", outcome)
	}
	if v != 0 {
		t.Errorf("value = %d; want discarded zero value", v)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v; want context.Canceled", err)
	}
}

func TestTask_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := Go(ctx, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	cancel()
	waitDone(t, task.Done())

	if task.Outcome() != OutcomeFailed {
		t.Errorf("Outcome() = %v; want failed (fn observed parent cancellation)", task.Outcome())
	}
}
