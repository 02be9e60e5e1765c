package captions

import (
	"log/slog"
	"strings"
)

// MapTranscript projects a transcription provider's segment list into caption
// segments. The provider's timestamps are authoritative and pass through
// unmodified; only the text is trimmed. Empty input yields nil and a
// diagnostic, never an error.
func MapTranscript(segments []TranscriptSegment) []Segment {
	if len(segments) == 0 {
		slog.Warn("no segments in transcript to map to captions")
		return nil
	}

	mapped := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		mapped = append(mapped, Segment{
			Text:      strings.TrimSpace(seg.Text),
			StartTime: seg.Start,
			EndTime:   seg.End,
		})
	}
	return mapped
}
