package recorder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scriptspeak/scriptspeak/internal/language"
)

// TransportErrorKind classifies how a gateway call failed.
type TransportErrorKind int

const (
	// TransportRequest: the request could not be built or sent at all.
	TransportRequest TransportErrorKind = iota
	// TransportConnect: no response arrived (connectivity, timeout).
	TransportConnect
	// TransportServer: the server answered with an error status.
	TransportServer
)

// TransportError is a failed gateway call, classified for messaging.
type TransportError struct {
	Kind       TransportErrorKind
	StatusCode int
	Detail     string
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case TransportServer:
		return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Detail)
	case TransportConnect:
		return "no response from server: " + e.Detail
	default:
		return "request failed: " + e.Detail
	}
}

// clientTimeout bounds the full transcription round trip.
const clientTimeout = 30 * time.Second

// Client talks to the transcription gateway over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a gateway client for the given base URL.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: clientTimeout},
		log:     log.With().Str("component", "gateway-client").Logger(),
	}
}

// Transcribe posts the recording and language to the gateway. Domain
// outcomes (including "no speech") come back in the result; transport
// failures come back as a *TransportError.
func (c *Client) Transcribe(ctx context.Context, audio []byte, languageCode string) (*TranscribeResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio", "recording.webm")
	if err != nil {
		return nil, &TransportError{Kind: TransportRequest, Detail: err.Error()}
	}
	if _, err := part.Write(audio); err != nil {
		return nil, &TransportError{Kind: TransportRequest, Detail: err.Error()}
	}
	if err := writer.WriteField("language", languageCode); err != nil {
		return nil, &TransportError{Kind: TransportRequest, Detail: err.Error()}
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", &body)
	if err != nil {
		return nil, &TransportError{Kind: TransportRequest, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Kind: TransportConnect, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Kind:       TransportServer,
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body, resp.Status),
		}
	}

	var result TranscribeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &TransportError{
			Kind:       TransportServer,
			StatusCode: resp.StatusCode,
			Detail:     "malformed response body",
		}
	}
	return &result, nil
}

// Languages fetches the language list, falling back to the built-in
// subset when the gateway cannot be reached. The returned error tells
// the caller the list is degraded; the list itself is always usable.
func (c *Client) Languages(ctx context.Context) ([]language.Descriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/languages", nil)
	if err != nil {
		return language.Fallback(), err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("language fetch failed, using fallback list")
		return language.Fallback(), err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return language.Fallback(), fmt.Errorf("languages request: %s", resp.Status)
	}

	var parsed struct {
		Languages []language.Descriptor `json:"languages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return language.Fallback(), fmt.Errorf("decode languages response: %w", err)
	}
	if len(parsed.Languages) == 0 {
		return language.Fallback(), fmt.Errorf("languages response was empty")
	}
	return parsed.Languages, nil
}

// readDetail pulls the {detail} body from an error response, falling
// back to the HTTP status line.
func readDetail(body io.Reader, status string) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return status
	}
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return status
}
