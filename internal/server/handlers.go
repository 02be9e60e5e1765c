package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"storyreel/internal/captions"
	"storyreel/internal/export"
	"storyreel/internal/ffmpeg"
	"storyreel/internal/groq"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", "err", err)
	}
}

type storyRequest struct {
	Theme  string `json:"theme"`
	Length string `json:"length"`
}

func (s *Server) handleGenerateStory(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON body"})
		return
	}
	if req.Theme == "" || req.Length == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Theme and length are required"})
		return
	}

	story := s.story.GenerateStory(r.Context(), req.Theme, req.Length)
	writeJSON(w, http.StatusOK, map[string]any{"story": story})
}

type ttsRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

func (s *Server) handleTextToSpeech(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON body"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Text is required"})
		return
	}

	voice := req.Voice
	if voice == "" {
		voice = s.cfg.SpeechVoice
	}

	audio, err := s.speech.Synthesize(r.Context(), req.Text, voice)
	if err != nil {
		writeSpeechError(w, err)
		return
	}

	// Caption production never fails: transcription with retries, then the
	// estimator. An empty segment list defers the "no captions" UX to the
	// caller.
	result := s.coordinator.Produce(r.Context(), req.Text, audio)

	writeJSON(w, http.StatusOK, map[string]any{
		"audio":               base64.StdEncoding.EncodeToString(audio),
		"captions":            segmentsOrEmpty(result.Segments),
		"text":                req.Text,
		"transcriptionSource": result.Source,
	})
}

// writeSpeechError maps provider failures onto distinguishable responses:
// terms acceptance and rate limiting each get a targeted remediation payload.
func writeSpeechError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, groq.ErrTermsNotAccepted):
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error":                   "Terms acceptance required",
			"details":                 "You need to accept the terms for the TTS model on the provider console.",
			"requiresTermsAcceptance": true,
		})
	case errors.Is(err, groq.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":   "Rate limit exceeded",
			"details": err.Error(),
			"status":  http.StatusTooManyRequests,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to process request",
			"details": err.Error(),
		})
	}
}

type captionsRequest struct {
	Text      string `json:"text"`
	AudioData string `json:"audioData"`
}

func (s *Server) handleGenerateCaptions(w http.ResponseWriter, r *http.Request) {
	var req captionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON body"})
		return
	}
	if req.Text == "" && req.AudioData == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Either text or audio data is required"})
		return
	}

	segments := captions.Estimate(req.Text)
	writeJSON(w, http.StatusOK, map[string]any{
		"captions":       segmentsOrEmpty(segments),
		"fullTranscript": req.Text,
		"estimated":      true,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req export.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid JSON body"})
		return
	}

	id, err := s.assembler.Assemble(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, export.ErrMissingAudio) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]any{"success": false, "error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Video generated successfully",
		"videoUrl": "/api/export/download?id=" + id,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Video ID is required"})
		return
	}

	ws, err := export.Lookup(s.cfg.WorkspaceRoot, export.ExportPrefix, id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Video not found"})
		return
	}

	f, err := os.Open(ws.Path(export.OutputFile))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Video not found"})
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Failed to serve video file"})
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="generated-video.mp4"`)
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Length", strconv.FormatInt(stat.Size(), 10))

	if _, err := io.Copy(w, f); err != nil {
		// Partial stream; keep the workspace so the client can retry. The
		// janitor reclaims it eventually.
		slog.Warn("video stream interrupted", "id", id, "err", err)
		return
	}

	// Successful retrieval releases the workspace.
	ws.Remove()
}

func (s *Server) handleExtractFrame(w http.ResponseWriter, r *http.Request) {
	videoPath := r.URL.Query().Get("path")
	if videoPath == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Video path is required"})
		return
	}

	// Leading-slash paths are relative to the working directory (static
	// assets); anything else is taken as-is.
	if strings.HasPrefix(videoPath, "/") {
		if wd, err := os.Getwd(); err == nil {
			videoPath = filepath.Join(wd, videoPath[1:])
		}
	}

	frame, err := s.assembler.ExtractFirstFrame(r.Context(), videoPath)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, export.ErrVideoNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]any{"success": false, "error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"frameData": "data:image/jpeg;base64," + frame,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"ffmpeg":    ffmpeg.Available(),
		"hasApiKey": s.cfg.GroqAPIKey != "",
	})
}

// segmentsOrEmpty keeps JSON responses emitting [] instead of null.
func segmentsOrEmpty(segments []captions.Segment) []captions.Segment {
	if segments == nil {
		return []captions.Segment{}
	}
	return segments
}
