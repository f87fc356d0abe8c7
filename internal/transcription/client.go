package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clipforge/video-highlights/internal/types"
)

const (
	defaultEndpoint = "https://api.openai.com/v1/audio/transcriptions"
	requestTimeout  = 10 * time.Minute

	// MaxAudioBytes is the provider's hard upload limit. Files over it are
	// rejected before any network traffic; the failure is fatal for the job.
	MaxAudioBytes = 25 * 1024 * 1024
)

// ErrPayloadTooLarge is returned when the extracted audio exceeds the
// provider's upload limit.
var ErrPayloadTooLarge = errors.New("audio payload exceeds provider size limit")

// Client calls an OpenAI-compatible speech-to-text endpoint and returns
// timestamped segments.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a speech-to-text client. An empty endpoint uses the
// OpenAI default; an empty model uses whisper-1.
func NewClient(apiKey, model, endpoint string) *Client {
	if model == "" {
		model = "whisper-1"
	}
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Configured reports whether a credential is present. The orchestrator only
// attempts the speech-to-text fallback when it is.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Transcribe uploads an audio file and returns its transcript segments.
func (c *Client) Transcribe(ctx context.Context, audioPath, language string) ([]types.TranscriptSegment, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("stat audio: %w", err)
	}
	if info.Size() > MaxAudioBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, info.Size())
	}

	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("create multipart file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return nil, err
	}
	if err := writer.WriteField("response_format", "verbose_json"); err != nil {
		return nil, err
	}
	if language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(resp)
	}

	var payload struct {
		Segments []struct {
			Start float64 `json:"start"`
			End   float64 `json:"end"`
			Text  string  `json:"text"`
		} `json:"segments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode transcription response: %w", err)
	}

	segments := make([]types.TranscriptSegment, 0, len(payload.Segments))
	for _, s := range payload.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segments = append(segments, types.TranscriptSegment{
			Text:     text,
			Offset:   s.Start,
			Duration: s.End - s.Start,
		})
	}
	return segments, nil
}

func decodeAPIError(resp *http.Response) error {
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("speech-to-text provider: %s (status %d)", apiErr.Error.Message, resp.StatusCode)
	}
	return fmt.Errorf("speech-to-text provider: status %d", resp.StatusCode)
}
