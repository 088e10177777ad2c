package recorder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestClientTranscribeSuccess(t *testing.T) {
	var gotLanguage string
	var gotAudio []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transcribe" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotLanguage = r.FormValue("language")
		file, header, err := r.FormFile("audio")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "recording.webm" {
			t.Errorf("filename = %q", header.Filename)
		}
		gotAudio, _ = io.ReadAll(file)

		json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"native_text": "নমস্কার",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	result, err := client.Transcribe(context.Background(), []byte("opus bytes"), "bengali")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if !result.Success || result.NativeText != "নমস্কার" {
		t.Errorf("result = %+v", result)
	}
	if gotLanguage != "bengali" {
		t.Errorf("language field = %q", gotLanguage)
	}
	if string(gotAudio) != "opus bytes" {
		t.Errorf("audio = %q", gotAudio)
	}
}

func TestClientTranscribeNoSpeechIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "No speech detected in audio. Please try speaking more clearly.",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	result, err := client.Transcribe(context.Background(), []byte("x"), "hindi")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if result.Success {
		t.Errorf("success = true")
	}
	if result.Message == "" {
		t.Errorf("empty message")
	}
}

func TestClientTranscribeServerErrorCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Transcription failed: upstream exploded"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	_, err := client.Transcribe(context.Background(), []byte("x"), "hindi")

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if te.Kind != TransportServer {
		t.Errorf("kind = %v", te.Kind)
	}
	if te.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d", te.StatusCode)
	}
	if te.Detail != "Transcription failed: upstream exploded" {
		t.Errorf("detail = %q", te.Detail)
	}
}

func TestClientTranscribeUnreachableIsConnectError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewClient(srv.URL, zerolog.Nop())
	_, err := client.Transcribe(context.Background(), []byte("x"), "hindi")

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if te.Kind != TransportConnect {
		t.Errorf("kind = %v, want TransportConnect", te.Kind)
	}
}

func TestClientLanguages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/languages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"languages": []map[string]string{
				{"code": "hindi", "name": "Hindi (हिंदी)", "script": "Devanagari", "provider_code": "hin"},
				{"code": "english", "name": "English", "script": "Latin", "provider_code": "eng"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	languages, err := client.Languages(context.Background())
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	if len(languages) != 2 || languages[0].Code != "hindi" {
		t.Errorf("languages = %+v", languages)
	}
}

func TestClientLanguagesFallsBackWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	languages, err := client.Languages(context.Background())
	if err == nil {
		t.Fatalf("expected degraded-mode error")
	}
	if len(languages) == 0 {
		t.Fatalf("fallback list is empty")
	}
	codes := map[string]bool{}
	for _, l := range languages {
		codes[l.Code] = true
	}
	for _, code := range []string{"hindi", "bengali", "tamil", "english"} {
		if !codes[code] {
			t.Errorf("fallback missing %q", code)
		}
	}
}
