package export

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"storyreel/internal/captions"
	"storyreel/internal/config"
	"storyreel/internal/ffmpeg"
	"storyreel/internal/subtitle"
)

// Workspace file names.
const (
	audioFile      = "audio.wav"
	backgroundFile = "background.mp4"
	subtitleFile   = "captions.srt"
	OutputFile     = "output.mp4"
)

// Terminal pipeline errors, classified for HTTP mapping.
var (
	// ErrMissingAudio is a user error: the request carried no audio data.
	ErrMissingAudio = errors.New("missing audio data")

	// ErrEncoderUnavailable means ffmpeg is not installed on the server.
	ErrEncoderUnavailable = errors.New("ffmpeg is not installed on the server")

	// ErrBackgroundUnavailable means the background video asset could not be
	// staged; there is no output without it.
	ErrBackgroundUnavailable = errors.New("failed to load background video")
)

// Request is one export invocation. It owns its backing temp files for the
// duration of the call; on failure they are deleted before returning.
type Request struct {
	AudioData       string             `json:"audioData"`
	BackgroundSrc   string             `json:"backgroundSrc"`
	Captions        []captions.Segment `json:"captions"`
	CaptionSettings captions.Settings  `json:"captionSettings"`
	AspectRatio     string             `json:"aspectRatio"`
}

// Assembler runs the media assembly pipeline: workspace creation, asset
// materialization, subtitle rendering, overlay compilation, and the encoder
// invocation.
type Assembler struct {
	backgroundVideo string
	workspaceRoot   string
}

// NewAssembler builds an assembler from resolved configuration.
func NewAssembler(cfg *config.Config) *Assembler {
	return &Assembler{
		backgroundVideo: cfg.BackgroundVideo,
		workspaceRoot:   cfg.WorkspaceRoot,
	}
}

// Assemble produces the final video and returns the export id used to
// retrieve it. Captions are optional: an empty segment list still yields a
// playable output. Any terminal failure removes the workspace before
// returning.
func (a *Assembler) Assemble(ctx context.Context, req Request) (string, error) {
	if req.AudioData == "" {
		return "", ErrMissingAudio
	}
	if !ffmpeg.Available() {
		return "", ErrEncoderUnavailable
	}

	aspect := req.AspectRatio
	if aspect == "" {
		aspect = "9:16"
	}

	ws, err := NewWorkspace(a.workspaceRoot, ExportPrefix)
	if err != nil {
		return "", err
	}
	slog.Info("export started", "id", ws.ID, "aspect_ratio", aspect, "captions", len(req.Captions))

	if err := a.stageAssets(ctx, ws, req, aspect); err != nil {
		ws.Remove()
		return "", err
	}

	srtPath := ws.Path(subtitleFile)
	if err := os.WriteFile(srtPath, []byte(subtitle.Render(req.Captions)), 0o644); err != nil {
		ws.Remove()
		return "", fmt.Errorf("write subtitle file: %w", err)
	}

	overlay := subtitle.CompileOverlayFilter(req.CaptionSettings, srtPath)

	err = ffmpeg.Mux(ctx, ffmpeg.MuxParams{
		VideoPath:     ws.Path(backgroundFile),
		AudioPath:     ws.Path(audioFile),
		OverlayFilter: overlay,
		OutputPath:    ws.Path(OutputFile),
	})
	if err != nil {
		ws.Remove()
		return "", err
	}

	slog.Info("export complete", "id", ws.ID)
	return ws.ID, nil
}

// stageAssets materializes the narration audio, the background video, and the
// optional background image override. The first two are fatal on failure; the
// image override is advisory because the video background takes precedence.
func (a *Assembler) stageAssets(ctx context.Context, ws *Workspace, req Request, aspect string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		audio, err := base64.StdEncoding.DecodeString(req.AudioData)
		if err != nil {
			return fmt.Errorf("decode audio data: %w", err)
		}
		if err := os.WriteFile(ws.Path(audioFile), audio, 0o644); err != nil {
			return fmt.Errorf("write audio file: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := copyFile(a.backgroundVideo, ws.Path(backgroundFile)); err != nil {
			return fmt.Errorf("%w: %v", ErrBackgroundUnavailable, err)
		}
		return nil
	})

	if req.BackgroundSrc != "" {
		g.Go(func() error {
			if err := stageBackgroundImage(gctx, ws, req.BackgroundSrc, aspect); err != nil {
				// Non-fatal: the video background is what ends up on screen.
				slog.Warn("background image staging failed", "id", ws.ID, "err", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
