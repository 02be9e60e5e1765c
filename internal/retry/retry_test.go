package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), Policy{MaxRetries: 3, BaseDelay: time.Millisecond}, func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 || calls != 1 {
		t.Errorf("got=%d calls=%d, want 42/1", got, calls)
	}
}

func TestDo_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	p := Policy{MaxRetries: 2, BaseDelay: time.Millisecond, Multiplier: 2}

	got, err := Do(context.Background(), p, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errBoom
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Errorf("got=%q calls=%d, want ok/3", got, calls)
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	calls := 0
	p := Policy{MaxRetries: 2, BaseDelay: time.Millisecond}

	_, err := Do(context.Background(), p, func(ctx context.Context) (int, error) {
		calls++
		return 0, errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestDo_NonRetryableFailsFast(t *testing.T) {
	calls := 0
	p := Policy{
		MaxRetries: 5,
		BaseDelay:  time.Millisecond,
		Retryable:  func(err error) bool { return false },
	}

	_, err := Do(context.Background(), p, func(ctx context.Context) (int, error) {
		calls++
		return 0, errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("expected original error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestDo_CancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	p := Policy{MaxRetries: 3, BaseDelay: time.Hour}

	done := make(chan struct{})
	var err error
	go func() {
		_, err = Do(ctx, p, func(ctx context.Context) (int, error) {
			calls++
			return 0, errBoom
		})
		close(done)
	}()

	// Let the first attempt fail and the backoff start, then cancel.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancellation; backoff is blocking")
	}

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 attempt before cancellation, got %d", calls)
	}
}

func TestJittered_Bounds(t *testing.T) {
	base := 1000 * time.Millisecond
	for range 100 {
		d := jittered(base, 0.5)
		if d < 500*time.Millisecond || d > 1500*time.Millisecond {
			t.Fatalf("jittered delay %v outside [500ms, 1500ms]", d)
		}
	}

	if d := jittered(base, 0); d != base {
		t.Errorf("zero jitter should return the base delay, got %v", d)
	}
}
