// Package server exposes the HTTP API: story generation, narration with
// captions, caption estimation, video export, and frame extraction.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"storyreel/internal/captions"
	"storyreel/internal/config"
	"storyreel/internal/export"
)

// StoryProvider generates a story for a theme/length pair. Failures are
// absorbed by the provider (canned fallback), so there is no error return.
type StoryProvider interface {
	GenerateStory(ctx context.Context, theme, length string) string
}

// SpeechProvider synthesizes narration audio for text.
type SpeechProvider interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Server wires the providers and the assembly pipeline into HTTP handlers.
type Server struct {
	cfg         *config.Config
	story       StoryProvider
	speech      SpeechProvider
	coordinator *captions.Coordinator
	assembler   *export.Assembler
}

// New builds a Server. Any provider may be nil when unconfigured; handlers
// degrade per the error taxonomy instead of panicking.
func New(cfg *config.Config, story StoryProvider, speech SpeechProvider, coordinator *captions.Coordinator, assembler *export.Assembler) *Server {
	return &Server{
		cfg:         cfg,
		story:       story,
		speech:      speech,
		coordinator: coordinator,
		assembler:   assembler,
	}
}

// Routes returns the API mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate-story", s.handleGenerateStory)
	mux.HandleFunc("POST /api/text-to-speech", s.handleTextToSpeech)
	mux.HandleFunc("POST /api/generate-captions", s.handleGenerateCaptions)
	mux.HandleFunc("POST /api/export", s.handleExport)
	mux.HandleFunc("GET /api/export/download", s.handleDownload)
	mux.HandleFunc("GET /api/extract-frame", s.handleExtractFrame)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return mux
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", s.cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
