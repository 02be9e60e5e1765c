// Package subtitle serializes caption segments into the SRT document format
// and compiles caption styling into the FFmpeg subtitles filter string.
package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"storyreel/internal/captions"
)

// FormatTimestamp converts float seconds to the SRT HH:MM:SS,mmm form.
// Components are produced by floor division: fractional seconds below one
// millisecond are truncated, not rounded.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := int(seconds / 3600)
	minutes := int(math.Mod(seconds, 3600) / 60)
	secs := int(math.Mod(seconds, 60))
	millis := int(math.Mod(seconds, 1) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

func validTime(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Render serializes segments into an SRT document: 1-indexed blocks of index
// line, timing line, text, blank separator. Segments with non-numeric
// timestamps are skipped silently; a malformed entry must not abort the
// whole document.
func Render(segments []captions.Segment) string {
	var sb strings.Builder
	index := 0

	for _, seg := range segments {
		if !validTime(seg.StartTime) || !validTime(seg.EndTime) {
			continue
		}
		index++
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n",
			index,
			FormatTimestamp(seg.StartTime),
			FormatTimestamp(seg.EndTime),
			seg.Text)
	}

	return sb.String()
}

// Parse reads an SRT document produced by Render back into caption segments.
// It exists so the document format stays round-trip stable; it is not a
// general-purpose SRT parser.
func Parse(doc string) ([]captions.Segment, error) {
	var segments []captions.Segment

	blocks := strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n\n")
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			return nil, fmt.Errorf("malformed block: %q", block)
		}

		start, end, err := parseTimingLine(lines[1])
		if err != nil {
			return nil, err
		}

		segments = append(segments, captions.Segment{
			Text:      strings.Join(lines[2:], "\n"),
			StartTime: start,
			EndTime:   end,
		})
	}

	return segments, nil
}

func parseTimingLine(line string) (float64, float64, error) {
	parts := strings.Split(line, " --> ")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed timing line: %q", line)
	}

	start, err := parseTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := parseTimestamp(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parseTimestamp(ts string) (float64, error) {
	ts = strings.TrimSpace(ts)

	var clock, millis string
	if i := strings.IndexByte(ts, ','); i >= 0 {
		clock, millis = ts[:i], ts[i+1:]
	} else {
		return 0, fmt.Errorf("malformed timestamp: %q", ts)
	}

	fields := strings.Split(clock, ":")
	if len(fields) != 3 {
		return 0, fmt.Errorf("malformed timestamp: %q", ts)
	}

	h, err1 := strconv.Atoi(fields[0])
	m, err2 := strconv.Atoi(fields[1])
	s, err3 := strconv.Atoi(fields[2])
	ms, err4 := strconv.Atoi(millis)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return 0, fmt.Errorf("malformed timestamp: %q", ts)
	}

	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000, nil
}
