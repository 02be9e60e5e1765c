package captions

import (
	"context"
	"time"
)

// lookaheadSec widens the start boundary on the fallback search to mask
// sub-frame gaps between consecutive segments. It applies to the start side
// only; the end boundary is exact.
const lookaheadSec = 0.1

// Synchronizer resolves the active caption against a live playback clock and
// suppresses duplicate notifications. Call Tick once per clock update; the
// scheduler driving the updates is the caller's business.
type Synchronizer struct {
	active string
}

// Active returns the last emitted caption text.
func (s *Synchronizer) Active() string {
	return s.active
}

// Tick resolves the caption for one clock reading. The returned bool reports
// whether the caption changed since the previous emission; callers should only
// propagate changes. Overlapping segments resolve to the first match in sort
// order.
func (s *Synchronizer) Tick(clock PlaybackClock, segments []Segment) (string, bool) {
	if !clock.IsPlaying || len(segments) == 0 {
		return s.emit("")
	}

	t := clock.CurrentTime
	for _, seg := range segments {
		if t >= seg.StartTime && t <= seg.EndTime {
			return s.emit(seg.Text)
		}
	}

	// Retry with the lookahead window on the start boundary.
	for _, seg := range segments {
		if t >= seg.StartTime-lookaheadSec && t <= seg.EndTime {
			return s.emit(seg.Text)
		}
	}

	return s.emit("")
}

func (s *Synchronizer) emit(text string) (string, bool) {
	if text == s.active {
		return text, false
	}
	s.active = text
	return text, true
}

// Watch drives Tick on a fixed interval until ctx is cancelled, calling
// onChange with each distinct caption (including the final clear). clockFn is
// read once per tick.
func (s *Synchronizer) Watch(ctx context.Context, interval time.Duration, clockFn func() PlaybackClock, segments []Segment, onChange func(string)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if text, changed := s.Tick(clockFn(), segments); changed {
				onChange(text)
			}
		}
	}
}
