package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fakeAfter(t *testing.T, fire bool) *[]time.Duration {
	t.Helper()

	var waited []time.Duration
	original := after
	after = func(d time.Duration) <-chan time.Time {
		waited = append(waited, d)
		ch := make(chan time.Time, 1)
		if fire {
			ch <- time.Now()
		}
		return ch
	}
	t.Cleanup(func() { after = original })

	return &waited
}

func TestWaitFor(t *testing.T) {
	waited := fakeAfter(t, true)

	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*waited) != 0 {
		t.Fatalf("expected no pause for zero duration, got %v", *waited)
	}

	if err := WaitFor(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*waited) != 1 || (*waited)[0] != 2*time.Second {
		t.Fatalf("unexpected pauses: %v", *waited)
	}
}

func TestWaitForCancelledBeforeStart(t *testing.T) {
	waited := fakeAfter(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(*waited) != 0 {
		t.Fatalf("expected no pause after cancel, got %v", *waited)
	}
}

func TestWaitForCancelledDuringPause(t *testing.T) {
	fakeAfter(t, false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := WaitFor(ctx, time.Hour); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}
