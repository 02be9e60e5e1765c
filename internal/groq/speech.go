package groq

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type speechRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize turns text into WAV audio with the configured TTS model. Policy
// failures come back as ErrTermsNotAccepted or ErrRateLimited so the caller
// can render a targeted remediation.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty text")
	}
	if voice == "" {
		voice = "Fritz-PlayAI"
	}

	payload := speechRequest{
		Model:          c.speechModel,
		Voice:          voice,
		Input:          text,
		ResponseFormat: "wav",
	}

	audio, err := c.postJSON(ctx, c.baseURL+"/audio/speech", payload)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis: %w", err)
	}

	slog.Info("speech synthesized", "voice", voice, "bytes", len(audio))
	return audio, nil
}
