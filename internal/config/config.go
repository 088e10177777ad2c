// Package config loads gateway configuration from a yaml file with
// environment overrides for secrets and deploy-specific values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scriptspeak/scriptspeak/internal/logging"
	"github.com/scriptspeak/scriptspeak/internal/transcriber"
)

// Config is the root gateway configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  logging.Config `yaml:"logging"`
}

// ServerConfig controls the HTTP listener and request policies.
type ServerConfig struct {
	Host               string   `yaml:"host"`
	Port               int      `yaml:"port"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
	RequestTimeoutSec  int      `yaml:"request_timeout_seconds"`
}

// ProviderConfig selects and configures the STT provider.
type ProviderConfig struct {
	// Name is "elevenlabs" or "vosk".
	Name       string                 `yaml:"name"`
	ElevenLabs ElevenLabsYAML         `yaml:"elevenlabs"`
	Vosk       transcriber.VoskConfig `yaml:"vosk"`
}

// ElevenLabsYAML is the file-side shape of the ElevenLabs settings.
// The API key never lives in the file; it comes from the environment.
type ElevenLabsYAML struct {
	BaseURL        string `yaml:"base_url"`
	ModelID        string `yaml:"model_id"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// RedisConfig enables the redis-backed rate limiter when Addr is set.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// RequestTimeout is the transcription request ceiling.
func (s ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSec) * time.Second
}

// ElevenLabsProvider assembles the provider config, pulling the
// credential from ELEVENLABS_API_KEY.
func (p ProviderConfig) ElevenLabsProvider() transcriber.ElevenLabsConfig {
	return transcriber.ElevenLabsConfig{
		APIKey:  strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY")),
		BaseURL: p.ElevenLabs.BaseURL,
		ModelID: p.ElevenLabs.ModelID,
		Timeout: time.Duration(p.ElevenLabs.TimeoutSeconds) * time.Second,
	}
}

// Load reads the yaml file, applies environment overrides and fills
// defaults. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SCRIPTSPEAK_HOST")); v != "" {
		cfg.Server.Host = v
	}
	if v := strings.TrimSpace(os.Getenv("SCRIPTSPEAK_PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_ADDR")); v != "" {
		cfg.Redis.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8000
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.RequestTimeoutSec <= 0 {
		cfg.Server.RequestTimeoutSec = 30
	}
	if cfg.Provider.Name == "" {
		cfg.Provider.Name = "elevenlabs"
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "scriptspeak:"
	}
	if cfg.Provider.Vosk.SampleRate <= 0 {
		cfg.Provider.Vosk.SampleRate = 16000
	}
}
