package captions

// WordTiming carries optional word-level sub-timings for a segment.
type WordTiming struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is a single timed subtitle unit. Within a list, segments are kept
// sorted ascending by StartTime; overlaps are legal and resolved first-match
// by the synchronizer.
type Segment struct {
	Text      string       `json:"text"`
	StartTime float64      `json:"startTime"`
	EndTime   float64      `json:"endTime"`
	Words     []WordTiming `json:"words,omitempty"`
}

// Settings describes how burned-in captions are styled. Mutated only by the
// caller; read-only to the pipeline.
type Settings struct {
	Text            string   `json:"text,omitempty"`
	FontColor       string   `json:"fontColor,omitempty"`
	BackgroundColor string   `json:"backgroundColor,omitempty"`
	Opacity         float64  `json:"opacity,omitempty"`
	FontSize        int      `json:"fontSize,omitempty"`
	Position        Position `json:"position,omitempty"`
	Style           string   `json:"style,omitempty"`
}

// Position is a frame-relative caption anchor in percent.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlaybackClock is the externally driven playback state read once per tick.
type PlaybackClock struct {
	IsPlaying   bool
	CurrentTime float64
	Duration    float64
}

// TranscriptSegment is one timed unit of a speech-recognition transcript.
// Provider-specific fields beyond text/start/end are ignored.
type TranscriptSegment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the timed output of a transcription provider.
type Transcript struct {
	Text     string              `json:"text"`
	Segments []TranscriptSegment `json:"segments"`
	Language string              `json:"language"`
}
