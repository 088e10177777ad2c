package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	elevenLabsName = "elevenlabs"

	defaultElevenLabsURL     = "https://api.elevenlabs.io"
	defaultElevenLabsModel   = "scribe_v1"
	defaultElevenLabsTimeout = 30 * time.Second
)

// ElevenLabsConfig holds configuration for the ElevenLabs provider.
type ElevenLabsConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	ModelID string        `yaml:"model_id"`
	Timeout time.Duration `yaml:"timeout"`
}

// ElevenLabs implements Provider against the ElevenLabs
// speech-to-text API.
type ElevenLabs struct {
	cfg    ElevenLabsConfig
	client *http.Client
	log    zerolog.Logger
}

// NewElevenLabs creates an ElevenLabs provider. The API key is
// required; everything else has defaults.
func NewElevenLabs(cfg ElevenLabsConfig, log zerolog.Logger) (*ElevenLabs, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ElevenLabs API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultElevenLabsURL
	}
	if cfg.ModelID == "" {
		cfg.ModelID = defaultElevenLabsModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultElevenLabsTimeout
	}
	return &ElevenLabs{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log.With().Str("provider", elevenLabsName).Logger(),
	}, nil
}

// Name returns the provider name.
func (e *ElevenLabs) Name() string { return elevenLabsName }

// IsAvailable probes the API root with the configured credential.
func (e *ElevenLabs) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.cfg.BaseURL+"/v1/models", nil)
	if err != nil {
		return false
	}
	req.Header.Set("xi-api-key", e.cfg.APIKey)
	resp, err := e.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// elevenLabsResponse mirrors the speech-to-text API response body.
type elevenLabsResponse struct {
	LanguageCode        string  `json:"language_code"`
	LanguageProbability float64 `json:"language_probability"`
	Text                string  `json:"text"`
}

type elevenLabsErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// Transcribe uploads the audio payload once and returns the
// recognized text. Audio event tagging and diarization stay off; the
// gateway only needs plain text.
func (e *ElevenLabs) Transcribe(ctx context.Context, req Request) (*Result, error) {
	filename := req.Filename
	if filename == "" {
		filename = "audio.webm"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(req.Audio); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}
	_ = writer.WriteField("model_id", e.cfg.ModelID)
	if req.LanguageCode != "" {
		_ = writer.WriteField("language_code", req.LanguageCode)
	}
	_ = writer.WriteField("tag_audio_events", "false")
	_ = writer.WriteField("diarize", "false")
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/v1/speech-to-text", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", e.cfg.APIKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	started := time.Now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			Provider:   elevenLabsName,
			StatusCode: resp.StatusCode,
			Detail:     readErrorDetail(resp.Body),
		}
	}

	var result elevenLabsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode elevenlabs response: %w", err)
	}

	e.log.Debug().
		Str("language_code", result.LanguageCode).
		Dur("latency", time.Since(started)).
		Int("audio_bytes", len(req.Audio)).
		Msg("transcription completed")

	return &Result{
		Text:         result.Text,
		LanguageCode: result.LanguageCode,
		Confidence:   result.LanguageProbability,
	}, nil
}

// readErrorDetail extracts a best-effort human-readable detail from an
// upstream error body.
func readErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "upstream provider error"
	}
	var parsed elevenLabsErrorBody
	if err := json.Unmarshal(raw, &parsed); err == nil && len(parsed.Detail) > 0 {
		var s string
		if err := json.Unmarshal(parsed.Detail, &s); err == nil {
			return s
		}
		return string(parsed.Detail)
	}
	return string(raw)
}
