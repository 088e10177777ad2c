package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const voskName = "vosk"

// voskChunkSize keeps websocket frames near 250ms of 16kHz 16-bit
// audio, which Vosk handles comfortably.
const voskChunkSize = 8000

// VoskConfig holds configuration for a self-hosted Vosk server.
type VoskConfig struct {
	ServerURL  string `yaml:"server_url"`
	SampleRate int    `yaml:"sample_rate"`
}

// Vosk implements Provider against a Vosk websocket server. Each
// Transcribe call opens its own connection, streams the payload in
// chunks, signals EOF and collects the final results. The payload
// must be raw PCM at the configured sample rate; the Vosk path is
// meant for clients capturing s16le directly.
type Vosk struct {
	cfg VoskConfig
	log zerolog.Logger
}

// NewVosk creates a Vosk provider pointing at the given server.
func NewVosk(cfg VoskConfig, log zerolog.Logger) (*Vosk, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("Vosk server URL is required")
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	return &Vosk{cfg: cfg, log: log.With().Str("provider", voskName).Logger()}, nil
}

// Name returns the provider name.
func (v *Vosk) Name() string { return voskName }

// IsAvailable dials the server and immediately closes the connection.
func (v *Vosk) IsAvailable(ctx context.Context) bool {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, v.wsURL(), nil)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (v *Vosk) wsURL() string {
	return fmt.Sprintf("%s/ws?sample_rate=%d", strings.TrimRight(v.cfg.ServerURL, "/"), v.cfg.SampleRate)
}

type voskResult struct {
	Text    string `json:"text"`
	Partial string `json:"partial"`
}

// Transcribe streams the payload and joins the final result texts.
func (v *Vosk) Transcribe(ctx context.Context, req Request) (*Result, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, v.wsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("connect to Vosk server: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	}

	for off := 0; off < len(req.Audio); off += voskChunkSize {
		end := off + voskChunkSize
		if end > len(req.Audio) {
			end = len(req.Audio)
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, req.Audio[off:end]); err != nil {
			return nil, fmt.Errorf("send audio to Vosk: %w", err)
		}
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"eof": 1}`)); err != nil {
		return nil, fmt.Errorf("send EOF to Vosk: %w", err)
	}

	var fullText strings.Builder
	started := time.Now()
	// Vosk answers once per chunk plus one final message after EOF.
	expected := (len(req.Audio)+voskChunkSize-1)/voskChunkSize + 1
	for i := 0; i < expected; i++ {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("read Vosk result: %w", err)
		}
		var result voskResult
		if err := json.Unmarshal(message, &result); err != nil {
			v.log.Warn().Err(err).Msg("unparseable Vosk message")
			continue
		}
		if result.Text != "" {
			if fullText.Len() > 0 {
				fullText.WriteString(" ")
			}
			fullText.WriteString(result.Text)
		}
	}

	v.log.Debug().
		Dur("latency", time.Since(started)).
		Int("audio_bytes", len(req.Audio)).
		Msg("transcription completed")

	return &Result{Text: fullText.String(), LanguageCode: req.LanguageCode}, nil
}
