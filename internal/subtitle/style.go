package subtitle

import (
	"fmt"
	"math"
	"strings"

	"storyreel/internal/captions"
)

// Style defaults applied when a settings field is absent.
const (
	defaultFontSize  = 24
	defaultFontColor = "white"
	defaultBackColor = "#000000"
	defaultOpacity   = 0.7
)

// CompileOverlayFilter builds the FFmpeg subtitles filter argument that burns
// srtPath into the video with the given caption styling. It is a pure
// function of its inputs.
//
// The subtitle path must have separators normalized to forward slashes and
// colons backslash-escaped; the filter mini-language otherwise misparses
// drive-letter-style paths and the encoder fails with an opaque error.
func CompileOverlayFilter(settings captions.Settings, srtPath string) string {
	fontSize := settings.FontSize
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	fontColor := settings.FontColor
	if fontColor == "" {
		fontColor = defaultFontColor
	}
	backColor := settings.BackgroundColor
	if backColor == "" {
		backColor = defaultBackColor
	}
	opacity := settings.Opacity
	if opacity <= 0 {
		opacity = defaultOpacity
	}

	// 0-1 opacity becomes an 8-bit alpha channel, round-half-up, appended to
	// the background hex digits.
	alpha := int(math.Round(opacity * 255))
	backWithAlpha := fmt.Sprintf("%s%02x", strings.TrimPrefix(backColor, "#"), alpha)

	return fmt.Sprintf(
		"subtitles='%s':force_style='FontSize=%d,PrimaryColour=&H%s,OutlineColour=&H000000,BorderStyle=3,Outline=1,Shadow=0,BackColour=&H%s'",
		escapeFilterPath(srtPath),
		fontSize,
		strings.TrimPrefix(fontColor, "#"),
		backWithAlpha,
	)
}

// escapeFilterPath normalizes separators to forward slashes and escapes colon
// characters for the filter expression.
func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.ReplaceAll(path, ":", "\\:")
}
