// Package metrics collects per-request transcription measurements for
// the request completion log line.
package metrics

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RequestMetrics tracks one /transcribe request from arrival to
// response.
type RequestMetrics struct {
	mu sync.Mutex

	provider  string
	requestID string
	language  string
	startTime time.Time
	endTime   time.Time

	audioBytes       int
	transcriptLength int
	providerLatency  time.Duration
	outcome          string
}

// NewRequestMetrics starts tracking a request.
func NewRequestMetrics(provider, requestID, language string) *RequestMetrics {
	return &RequestMetrics{
		provider:  provider,
		requestID: requestID,
		language:  language,
		startTime: time.Now(),
	}
}

// SetAudioBytes records the uploaded payload size.
func (m *RequestMetrics) SetAudioBytes(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audioBytes = n
}

// SetProviderLatency records how long the upstream STT call took.
func (m *RequestMetrics) SetProviderLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providerLatency = d
}

// SetTranscript records the recognized text length.
func (m *RequestMetrics) SetTranscript(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transcriptLength = len(text)
}

// Finalize marks the request complete with its outcome ("success",
// "no_speech", "provider_error").
func (m *RequestMetrics) Finalize(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endTime = time.Now()
	m.outcome = outcome
}

// Log emits the request summary on the given event level.
func (m *RequestMetrics) Log(logger zerolog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()

	end := m.endTime
	if end.IsZero() {
		end = time.Now()
	}

	logger.Info().
		Str("request_id", m.requestID).
		Str("provider", m.provider).
		Str("language", m.language).
		Str("outcome", m.outcome).
		Int("audio_bytes", m.audioBytes).
		Int("transcript_chars", m.transcriptLength).
		Dur("provider_latency", m.providerLatency).
		Dur("duration", end.Sub(m.startTime)).
		Msg("transcription request completed")
}
