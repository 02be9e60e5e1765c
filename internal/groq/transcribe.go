package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"storyreel/internal/captions"
)

// Transcribe uploads audio for speech recognition and returns the transcript
// with segment-level timestamps.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (*captions.Transcript, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", c.transcribeModel); err != nil {
		return nil, fmt.Errorf("write form field: %w", err)
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return nil, fmt.Errorf("write form field: %w", err)
	}
	if err := mw.WriteField("timestamp_granularities[]", "segment"); err != nil {
		return nil, fmt.Errorf("write form field: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", "audio/wav")
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("write audio part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", mw.FormDataContentType(), &body)
	if err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}

	var transcript captions.Transcript
	if err := json.Unmarshal(data, &transcript); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return &transcript, nil
}
