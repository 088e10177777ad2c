package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scriptspeak/scriptspeak/internal/language"
	"github.com/scriptspeak/scriptspeak/internal/metrics"
	"github.com/scriptspeak/scriptspeak/internal/transcriber"
	"github.com/scriptspeak/scriptspeak/internal/transliterate"
)

// Version is reported by the health endpoints.
const Version = "1.0.0"

// noSpeechMessage is the domain-level empty-transcription outcome.
const noSpeechMessage = "No speech detected in audio. Please try speaking more clearly."

// maxAudioBytes caps uploads at 10 MiB, plenty for a voice note.
const maxAudioBytes = 10 << 20

type errorResponse struct {
	Detail string `json:"detail"`
}

type transcribeResponse struct {
	Success      bool   `json:"success"`
	OriginalText string `json:"original_text,omitempty"`
	NativeText   string `json:"native_text,omitempty"`
	Language     string `json:"language,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	Message      string `json:"message"`
}

type languagesResponse struct {
	Languages []language.Descriptor `json:"languages"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":             "ScriptSpeak API is running!",
		"status":              "healthy",
		"version":             Version,
		"provider_configured": s.provider != nil,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	c.JSON(http.StatusOK, gin.H{
		"status":              "healthy",
		"provider":            s.provider.Name(),
		"provider_available":  s.provider.IsAvailable(ctx),
		"supported_languages": language.Count(),
		"version":             Version,
	})
}

func (s *Server) handleLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, languagesResponse{Languages: language.All()})
}

// handleTranscribe forwards one audio payload to the STT provider and
// converts the result into the requested native script. The provider
// is called exactly once; there is no retry policy here by design.
func (s *Server) handleTranscribe(c *gin.Context) {
	code := strings.ToLower(strings.TrimSpace(c.PostForm("language")))
	if code == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "language form field is required"})
		return
	}
	desc, ok := language.Lookup(code)
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "unsupported language: " + code})
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "audio file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "could not read audio file"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "could not read audio file"})
		return
	}
	if len(audio) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "audio payload is empty"})
		return
	}
	if len(audio) > maxAudioBytes {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Detail: "audio payload exceeds 10MB limit"})
		return
	}

	m := metrics.NewRequestMetrics(s.provider.Name(), requestID(c), desc.Code)
	m.SetAudioBytes(len(audio))
	defer m.Log(s.log)

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
	defer cancel()

	started := time.Now()
	result, err := s.provider.Transcribe(ctx, transcriber.Request{
		Audio:        audio,
		Filename:     fileHeader.Filename,
		LanguageCode: desc.ProviderCode,
	})
	m.SetProviderLatency(time.Since(started))

	if err != nil {
		m.Finalize("provider_error")
		s.writeProviderError(c, err)
		return
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		m.Finalize("no_speech")
		c.JSON(http.StatusOK, transcribeResponse{
			Success: false,
			Message: noSpeechMessage,
		})
		return
	}
	m.SetTranscript(text)

	native := text
	if desc.Script != language.Latin {
		converted, err := transliterate.ToScript(text, desc.Script)
		if err != nil {
			// Soft failure: serve the provider text unconverted.
			s.log.Warn().Err(err).Str("language", desc.Code).Msg("transliteration unavailable")
		} else {
			native = converted
		}
	}

	m.Finalize("success")
	c.JSON(http.StatusOK, transcribeResponse{
		Success:      true,
		OriginalText: text,
		NativeText:   native,
		Language:     desc.Code,
		LanguageCode: desc.ProviderCode,
		Message:      "Transcription successful",
	})
}

// writeProviderError maps upstream failures onto HTTP statuses with a
// human-readable detail, never swallowing the cause.
func (s *Server) writeProviderError(c *gin.Context, err error) {
	s.log.Error().Err(err).Str("request_id", requestID(c)).Msg("provider call failed")

	switch {
	case transcriber.IsAuthError(err):
		c.JSON(http.StatusUnauthorized, errorResponse{
			Detail: "Speech provider rejected the API credential. Check the configured key.",
		})
	case transcriber.IsQuotaError(err):
		c.JSON(http.StatusTooManyRequests, errorResponse{
			Detail: "Speech provider quota exceeded. Please check your usage limits.",
		})
	case transcriber.IsTimeout(err):
		c.JSON(http.StatusGatewayTimeout, errorResponse{
			Detail: "Speech provider timed out before returning a transcription.",
		})
	default:
		c.JSON(http.StatusBadGateway, errorResponse{
			Detail: "Transcription failed: " + err.Error(),
		})
	}
}
