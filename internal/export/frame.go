package export

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"storyreel/internal/ffmpeg"
)

// ErrVideoNotFound means the requested source video does not exist.
var ErrVideoNotFound = errors.New("video file not found")

// ExtractFirstFrame grabs the first frame of videoPath and returns it as
// base64 JPEG. The scratch workspace is removed before returning, success or
// not.
func (a *Assembler) ExtractFirstFrame(ctx context.Context, videoPath string) (string, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrVideoNotFound, videoPath)
	}
	if !ffmpeg.Available() {
		return "", ErrEncoderUnavailable
	}

	ws, err := NewWorkspace(a.workspaceRoot, FramePrefix)
	if err != nil {
		return "", err
	}
	defer ws.Remove()

	framePath := ws.Path("frame.jpg")
	if err := ffmpeg.ExtractFirstFrame(ctx, videoPath, framePath); err != nil {
		return "", err
	}

	frame, err := os.ReadFile(framePath)
	if err != nil {
		return "", fmt.Errorf("read extracted frame: %w", err)
	}
	return base64.StdEncoding.EncodeToString(frame), nil
}
