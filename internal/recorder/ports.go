package recorder

import "context"

// CaptureConfig describes how the microphone should be captured.
// The flags mirror browser getUserMedia constraints; sources that
// cannot honor one simply ignore it.
type CaptureConfig struct {
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool
}

// DefaultCaptureConfig enables every cleanup the source supports.
func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		EchoCancellation: true,
		NoiseSuppression: true,
		AutoGainControl:  true,
	}
}

// CaptureSession is a live microphone capture.
type CaptureSession interface {
	// Chunks delivers audio fragments in arrival order. The channel
	// closes after Stop, once the final fragment has been delivered.
	Chunks() <-chan []byte
	// Stop ends the capture and releases the microphone device.
	// Implementations must tolerate exactly one call per session.
	Stop() error
}

// CaptureSource opens microphone capture sessions.
type CaptureSource interface {
	Start(ctx context.Context, cfg CaptureConfig) (CaptureSession, error)
}

// TranscribeResult is the gateway's domain-level answer. Success false
// with a message is the ordinary "no speech" outcome, not an error.
type TranscribeResult struct {
	Success    bool   `json:"success"`
	NativeText string `json:"native_text,omitempty"`
	Message    string `json:"message,omitempty"`
}

// TranscriptionClient submits a finished recording to the gateway.
type TranscriptionClient interface {
	Transcribe(ctx context.Context, audio []byte, languageCode string) (*TranscribeResult, error)
}
