// Package transcriber defines the speech-to-text provider interface
// and the concrete providers the gateway can forward audio to.
package transcriber

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Provider is the common interface for all transcription providers.
type Provider interface {
	// Name identifies the provider in config and logs.
	Name() string
	// IsAvailable reports whether the upstream service is reachable.
	IsAvailable(ctx context.Context) bool
	// Transcribe sends one audio payload and returns the recognized
	// text. It is called at most once per gateway request; providers
	// must not retry internally.
	Transcribe(ctx context.Context, req Request) (*Result, error)
}

// Request carries one audio payload to a provider.
type Request struct {
	// Audio is the raw recorded payload, container format included.
	Audio []byte
	// Filename is the client's upload name, used as a container hint.
	Filename string
	// LanguageCode is the provider's language identifier ("hin").
	LanguageCode string
}

// Result is a provider's recognition output. Text may be empty when
// the audio contained no recognizable speech; that is not an error.
type Result struct {
	Text         string
	LanguageCode string
	Confidence   float64
}

// ProviderError describes an upstream HTTP failure.
type ProviderError struct {
	Provider   string
	StatusCode int
	Detail     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Detail)
}

// IsAuthError reports an invalid or rejected provider credential.
func IsAuthError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && (pe.StatusCode == 401 || pe.StatusCode == 403)
}

// IsQuotaError reports an exhausted provider quota or rate limit.
func IsQuotaError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.StatusCode == 429
}

// IsTimeout reports that the upstream call exceeded its deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
