package captions

import (
	"context"
	"log/slog"

	"storyreel/internal/retry"
)

// Caption sources reported by the coordinator.
const (
	SourceTranscript = "transcript"
	SourceEstimated  = "estimated"
)

// Transcriber is the external speech-recognition provider, requested at
// segment granularity.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (*Transcript, error)
}

// Result is the coordinator output: the segments plus which path produced them.
type Result struct {
	Segments []Segment `json:"captions"`
	Source   string    `json:"source"`
}

// DurationProbe measures the playback duration of in-memory audio. Probes are
// advisory: a failure only degrades the estimation fallback to its word-count
// heuristic.
type DurationProbe func(ctx context.Context, audio []byte) (float64, error)

// Coordinator produces captions for synthesized audio: transcription with
// retries first, estimation from the source text as the fallback. It never
// returns an error; total failure of both paths yields an empty segment list
// so the caller owns the "no captions" experience.
type Coordinator struct {
	transcriber Transcriber
	policy      retry.Policy
	probe       DurationProbe
}

// NewCoordinator wires a transcription provider, a retry policy, and an
// optional duration probe (nil is fine). The policy's Retryable predicate
// decides which provider failures are transient.
func NewCoordinator(t Transcriber, policy retry.Policy, probe DurationProbe) *Coordinator {
	return &Coordinator{transcriber: t, policy: policy, probe: probe}
}

// Produce derives captions for text narrated by audio.
//
// Entry policy for estimation: the fallback always uses the proportional
// estimator, since by the time we are here a TTS call has succeeded and real
// speech exists. The measured audio duration anchors it when the probe works;
// otherwise the duration is derived from word count. The per-word estimator is
// reserved for text-only requests with no audio at all.
func (c *Coordinator) Produce(ctx context.Context, text string, audio []byte) Result {
	if c.transcriber != nil && len(audio) > 0 {
		transcript, err := retry.Do(ctx, c.policy, func(ctx context.Context) (*Transcript, error) {
			return c.transcriber.Transcribe(ctx, audio, "narration.wav")
		})
		if err == nil {
			slog.Info("transcription succeeded", "segments", len(transcript.Segments))
			return Result{
				Segments: MapTranscript(transcript.Segments),
				Source:   SourceTranscript,
			}
		}
		slog.Warn("transcription failed, falling back to estimated captions", "err", err)
	}

	duration := 0.0
	if c.probe != nil && len(audio) > 0 {
		d, err := c.probe(ctx, audio)
		if err != nil {
			slog.Debug("audio duration probe failed", "err", err)
		} else {
			duration = d
		}
	}

	segments := EstimateProportional(text, duration)
	return Result{Segments: segments, Source: SourceEstimated}
}
