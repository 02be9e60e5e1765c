package captions

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"storyreel/internal/retry"
)

type fakeTranscriber struct {
	calls      int
	failures   int
	failWith   error
	transcript *Transcript
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (*Transcript, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.failWith
	}
	return f.transcript, nil
}

func testPolicy(retryable func(error) bool) retry.Policy {
	return retry.Policy{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		Multiplier: 2,
		Retryable:  retryable,
	}
}

func isConnReset(err error) bool {
	return errors.Is(err, syscall.ECONNRESET)
}

func TestCoordinator_TranscriptAfterRetries(t *testing.T) {
	ft := &fakeTranscriber{
		failures: 2,
		failWith: syscall.ECONNRESET,
		transcript: &Transcript{
			Segments: []TranscriptSegment{{Start: 0, End: 1.5, Text: "hello"}},
		},
	}

	c := NewCoordinator(ft, testPolicy(isConnReset), nil)
	result := c.Produce(context.Background(), "hello", []byte{1, 2, 3})

	if ft.calls != 3 {
		t.Errorf("expected 3 provider calls (2 retries), got %d", ft.calls)
	}
	if result.Source != SourceTranscript {
		t.Errorf("source = %q, want %q", result.Source, SourceTranscript)
	}
	if len(result.Segments) != 1 || result.Segments[0].Text != "hello" {
		t.Errorf("unexpected segments: %+v", result.Segments)
	}
}

func TestCoordinator_FallsBackAfterExhaustedRetries(t *testing.T) {
	ft := &fakeTranscriber{
		failures: 10,
		failWith: syscall.ECONNRESET,
	}

	c := NewCoordinator(ft, testPolicy(isConnReset), nil)
	result := c.Produce(context.Background(), "One sentence. Another sentence.", []byte{1})

	if ft.calls != 3 {
		t.Errorf("expected 3 attempts before fallback, got %d", ft.calls)
	}
	if result.Source != SourceEstimated {
		t.Errorf("source = %q, want %q", result.Source, SourceEstimated)
	}
	if len(result.Segments) != 2 {
		t.Errorf("expected estimated segments from text, got %d", len(result.Segments))
	}
}

func TestCoordinator_NonRetryableFailsFast(t *testing.T) {
	ft := &fakeTranscriber{
		failures: 10,
		failWith: errors.New("invalid api key"),
	}

	c := NewCoordinator(ft, testPolicy(isConnReset), nil)
	result := c.Produce(context.Background(), "Some text.", []byte{1})

	if ft.calls != 1 {
		t.Errorf("non-retryable error should not be retried, got %d calls", ft.calls)
	}
	if result.Source != SourceEstimated {
		t.Errorf("source = %q, want %q", result.Source, SourceEstimated)
	}
}

func TestCoordinator_NoAudioSkipsProvider(t *testing.T) {
	ft := &fakeTranscriber{}
	c := NewCoordinator(ft, testPolicy(nil), nil)

	result := c.Produce(context.Background(), "Text only.", nil)
	if ft.calls != 0 {
		t.Errorf("provider must not be called without audio, got %d calls", ft.calls)
	}
	if result.Source != SourceEstimated {
		t.Errorf("source = %q, want %q", result.Source, SourceEstimated)
	}
}

func TestCoordinator_TotalFailureYieldsEmptyEstimate(t *testing.T) {
	c := NewCoordinator(nil, testPolicy(nil), nil)

	result := c.Produce(context.Background(), "", nil)
	if result.Source != SourceEstimated {
		t.Errorf("source = %q, want %q", result.Source, SourceEstimated)
	}
	if len(result.Segments) != 0 {
		t.Errorf("expected empty segments, got %d", len(result.Segments))
	}
}

func TestCoordinator_ProbeAnchorsFallbackDuration(t *testing.T) {
	ft := &fakeTranscriber{failures: 10, failWith: syscall.ECONNRESET}
	probe := func(ctx context.Context, audio []byte) (float64, error) {
		return 8.0, nil
	}

	c := NewCoordinator(ft, testPolicy(isConnReset), probe)
	result := c.Produce(context.Background(), "Short one. A much longer second sentence here.", []byte{1})

	if result.Source != SourceEstimated {
		t.Fatalf("source = %q, want %q", result.Source, SourceEstimated)
	}
	if len(result.Segments) == 0 {
		t.Fatal("expected estimated segments")
	}
	last := result.Segments[len(result.Segments)-1]
	if last.EndTime < 7.99 || last.EndTime > 8.01 {
		t.Errorf("segments should span the probed duration, last end = %v", last.EndTime)
	}
}

func TestCoordinator_ProbeFailureDegradesToWordCount(t *testing.T) {
	ft := &fakeTranscriber{failures: 10, failWith: syscall.ECONNRESET}
	probe := func(ctx context.Context, audio []byte) (float64, error) {
		return 0, errors.New("ffprobe not found")
	}

	c := NewCoordinator(ft, testPolicy(isConnReset), probe)
	result := c.Produce(context.Background(), "One two three four five six.", []byte{1})

	if len(result.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(result.Segments))
	}
	// 6 words at 3 words per second.
	if got := result.Segments[0].EndTime; got < 1.99 || got > 2.01 {
		t.Errorf("end = %v, want ~2.0 from word count", got)
	}
}
