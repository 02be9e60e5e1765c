// Package groq is the client for the Groq API: story generation (chat
// completions), speech synthesis, and speech recognition.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"storyreel/internal/config"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	requestTimeout = 5 * time.Minute
)

// Client talks to the Groq API. The credential is injected at construction
// and never mutated afterwards; outgoing requests are paced by a client-side
// rate limiter.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter

	storyModel      string
	speechModel     string
	transcribeModel string
}

// NewClient builds a client from resolved configuration.
func NewClient(cfg *config.Config) *Client {
	rpm := cfg.APIRateLimitPerMin
	if rpm <= 0 {
		rpm = 30
	}
	return &Client{
		apiKey:          cfg.GroqAPIKey,
		baseURL:         defaultBaseURL,
		httpc:           &http.Client{Timeout: requestTimeout},
		limiter:         rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		storyModel:      cfg.StoryModel,
		speechModel:     cfg.SpeechModel,
		transcribeModel: cfg.TranscribeModel,
	}
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// do sends an authenticated request after waiting for a limiter token, and
// maps non-2xx statuses onto the error taxonomy.
func (c *Client) do(ctx context.Context, method, url, contentType string, body io.Reader) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(resp.StatusCode, data)
	}
	return data, nil
}

func classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, strings.TrimSpace(string(body)))
	case status == http.StatusForbidden, strings.Contains(strings.ToLower(string(body)), "terms"):
		return fmt.Errorf("%w: %s", ErrTermsNotAccepted, strings.TrimSpace(string(body)))
	default:
		return &StatusError{StatusCode: status, Body: strings.TrimSpace(string(body))}
	}
}

// postJSON marshals payload and posts it as application/json.
func (c *Client) postJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, "application/json", bytes.NewReader(data))
}
