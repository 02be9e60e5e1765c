package captions

import "testing"

func testSegments() []Segment {
	return []Segment{
		{Text: "first", StartTime: 0, EndTime: 2},
		{Text: "second", StartTime: 2.5, EndTime: 4},
		{Text: "third", StartTime: 4, EndTime: 6},
	}
}

func playing(t float64) PlaybackClock {
	return PlaybackClock{IsPlaying: true, CurrentTime: t, Duration: 10}
}

func TestSynchronizer_ActiveCaption(t *testing.T) {
	var s Synchronizer
	segments := testSegments()

	text, changed := s.Tick(playing(1.0), segments)
	if text != "first" || !changed {
		t.Errorf("Tick(1.0) = (%q, %v), want (first, true)", text, changed)
	}
}

func TestSynchronizer_DedupesNotifications(t *testing.T) {
	var s Synchronizer
	segments := testSegments()

	if _, changed := s.Tick(playing(1.0), segments); !changed {
		t.Fatal("first tick should report a change")
	}
	// Same caption on the next tick must not re-notify.
	if _, changed := s.Tick(playing(1.5), segments); changed {
		t.Error("duplicate caption reported as change")
	}
	if _, changed := s.Tick(playing(1.9), segments); changed {
		t.Error("duplicate caption reported as change")
	}
}

func TestSynchronizer_InclusiveBounds(t *testing.T) {
	var s Synchronizer
	segments := testSegments()

	if text, _ := s.Tick(playing(0), segments); text != "first" {
		t.Errorf("start bound should be inclusive, got %q", text)
	}
	if text, _ := s.Tick(playing(2.0), segments); text != "first" {
		t.Errorf("end bound should be inclusive, got %q", text)
	}
}

func TestSynchronizer_Lookahead(t *testing.T) {
	var s Synchronizer
	segments := testSegments()

	// 2.45 falls in the gap but is within 0.1s of "second"'s start.
	if text, _ := s.Tick(playing(2.45), segments); text != "second" {
		t.Errorf("lookahead should surface the upcoming caption, got %q", text)
	}

	// 2.2 is in the gap and outside the lookahead window.
	s = Synchronizer{}
	if text, _ := s.Tick(playing(2.2), segments); text != "" {
		t.Errorf("expected no caption in the gap, got %q", text)
	}
}

func TestSynchronizer_NoLookaheadOnEndBound(t *testing.T) {
	// The window applies to the start boundary only; a time just past a
	// segment's end does not resurrect it.
	var s Synchronizer
	segments := []Segment{{Text: "only", StartTime: 0, EndTime: 1}}

	if text, _ := s.Tick(playing(1.05), segments); text != "" {
		t.Errorf("end boundary must be exact, got %q", text)
	}
}

func TestSynchronizer_OverlapFirstMatchWins(t *testing.T) {
	var s Synchronizer
	segments := []Segment{
		{Text: "earlier", StartTime: 0, EndTime: 5},
		{Text: "later", StartTime: 2, EndTime: 6},
	}

	if text, _ := s.Tick(playing(3), segments); text != "earlier" {
		t.Errorf("overlap should resolve to first match in sort order, got %q", text)
	}
}

func TestSynchronizer_ClearsOnceWhenStopped(t *testing.T) {
	var s Synchronizer
	segments := testSegments()

	s.Tick(playing(1.0), segments)

	paused := PlaybackClock{IsPlaying: false, CurrentTime: 1.0, Duration: 10}
	text, changed := s.Tick(paused, segments)
	if text != "" || !changed {
		t.Errorf("pause should clear the caption once, got (%q, %v)", text, changed)
	}

	// Subsequent paused ticks do nothing.
	if _, changed := s.Tick(paused, segments); changed {
		t.Error("repeated pause ticks must not re-notify")
	}
}

func TestSynchronizer_EmptySegments(t *testing.T) {
	var s Synchronizer
	if _, changed := s.Tick(playing(1.0), nil); changed {
		t.Error("no segments and no prior caption should emit nothing")
	}
}
