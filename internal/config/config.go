package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RetrySettings holds the transcription retry policy parameters.
type RetrySettings struct {
	MaxRetries  int `yaml:"max_retries"`
	BaseDelayMs int `yaml:"base_delay_ms"`
}

// Config holds the full application configuration. The provider API key is
// resolved once at startup and threaded into clients by value; nothing mutates
// it afterwards.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	// GroqAPIKey is filled from the environment, never from the config file.
	GroqAPIKey string `yaml:"-"`

	StoryModel      string `yaml:"story_model"`
	SpeechModel     string `yaml:"speech_model"`
	SpeechVoice     string `yaml:"speech_voice"`
	TranscribeModel string `yaml:"transcribe_model"`

	// APIRateLimitPerMin paces outgoing provider requests.
	APIRateLimitPerMin int `yaml:"api_rate_limit_per_min"`

	Retry RetrySettings `yaml:"retry"`

	// BackgroundVideo is the static asset muxed behind every export.
	BackgroundVideo string `yaml:"background_video"`

	// WorkspaceRoot is where per-export temp directories live; empty means
	// the OS temp dir.
	WorkspaceRoot string `yaml:"workspace_root"`

	// WorkspaceTTLMin is how long an undownloaded export survives before the
	// janitor sweeps it.
	WorkspaceTTLMin int `yaml:"workspace_ttl_min"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr:         ":8000",
		StoryModel:         "llama3-70b-8192",
		SpeechModel:        "playai-tts",
		SpeechVoice:        "Fritz-PlayAI",
		TranscribeModel:    "whisper-large-v3",
		APIRateLimitPerMin: 30,
		Retry: RetrySettings{
			MaxRetries:  2,
			BaseDelayMs: 1000,
		},
		BackgroundVideo: "assets/videos/minecraft-v1.mp4",
		WorkspaceTTLMin: 60,
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error; flags and the environment still apply on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ResolveEnv pulls environment-only settings into the config.
func (c *Config) ResolveEnv() {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		c.GroqAPIKey = key
	}
}
