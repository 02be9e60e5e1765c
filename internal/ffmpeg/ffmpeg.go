// Package ffmpeg wraps the external encoder process. Only the argument/file
// contract and exit codes are owned here; encoding behavior belongs to the
// binary itself.
package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
)

// Available returns true if ffmpeg is on the PATH.
func Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// probeOutput mirrors ffprobe JSON structure.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration uses ffprobe to read a media file's duration in seconds.
func ProbeDuration(ctx context.Context, path string) (float64, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return 0, fmt.Errorf("ffprobe not found: %w", err)
	}

	cmd := exec.CommandContext(ctx,
		"ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return 0, fmt.Errorf("ffprobe JSON parse error: %w", err)
	}

	dur, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration parse error: %w", err)
	}
	return dur, nil
}

// ProbeBytesDuration measures the duration of in-memory audio by staging it
// in a temp file for ffprobe. The file is removed before returning on every
// path.
func ProbeBytesDuration(ctx context.Context, audio []byte) (float64, error) {
	f, err := os.CreateTemp("", "probe-*.wav")
	if err != nil {
		return 0, fmt.Errorf("create probe file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return 0, fmt.Errorf("write probe file: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close probe file: %w", err)
	}

	return ProbeDuration(ctx, path)
}

// MuxParams is the encoder invocation contract for final assembly: background
// video plus narration audio, subtitles burned in by the overlay filter,
// duration clamped to the shorter input.
type MuxParams struct {
	VideoPath     string
	AudioPath     string
	OverlayFilter string
	OutputPath    string
}

// Mux runs the encoder once, non-interactively. Its stderr is advisory
// logging only; a non-zero exit code is the single failure signal and is
// included in the returned error.
func Mux(ctx context.Context, p MuxParams) error {
	args := []string{
		"-i", p.VideoPath,
		"-i", p.AudioPath,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-vf", p.OverlayFilter,
		"-pix_fmt", "yuv420p",
		"-y",
		p.OutputPath,
	}

	slog.Debug("running encoder", "args", args)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			slog.Error("encoder failed", "exit_code", exitErr.ExitCode(), "stderr", stderr.String())
			return fmt.Errorf("encoder exited with code %d", exitErr.ExitCode())
		}
		return fmt.Errorf("encoder spawn error: %w", err)
	}
	return nil
}

// ExtractFirstFrame writes the first frame of videoPath as a JPEG to outPath.
func ExtractFirstFrame(ctx context.Context, videoPath, outPath string) error {
	cmd := exec.CommandContext(ctx,
		"ffmpeg",
		"-i", videoPath,
		"-vframes", "1",
		"-q:v", "2",
		"-y",
		outPath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg frame extraction failed: %w\n%s", err, string(out))
	}
	return nil
}
