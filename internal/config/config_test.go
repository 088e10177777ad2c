package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8000 {
		t.Errorf("listener defaults: %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Provider.Name != "elevenlabs" {
		t.Errorf("provider default = %q", cfg.Provider.Name)
	}
	if cfg.Server.RequestTimeout() != 30*time.Second {
		t.Errorf("request timeout = %v", cfg.Server.RequestTimeout())
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadReadsYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9000
  rate_limit_per_minute: 10
  request_timeout_seconds: 15
provider:
  name: vosk
  vosk:
    server_url: ws://localhost:2700
redis:
  addr: localhost:6379
logging:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("listener = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Server.RateLimitPerMinute != 10 {
		t.Errorf("rate limit = %d", cfg.Server.RateLimitPerMinute)
	}
	if cfg.Provider.Name != "vosk" || cfg.Provider.Vosk.ServerURL != "ws://localhost:2700" {
		t.Errorf("provider = %+v", cfg.Provider)
	}
	if cfg.Provider.Vosk.SampleRate != 16000 {
		t.Errorf("vosk sample rate default = %d", cfg.Provider.Vosk.SampleRate)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.KeyPrefix != "scriptspeak:" {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	t.Setenv("SCRIPTSPEAK_PORT", "9100")
	t.Setenv("SCRIPTSPEAK_HOST", "10.0.0.5")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9100 || cfg.Server.Host != "10.0.0.5" {
		t.Errorf("listener = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestElevenLabsProviderPullsKeyFromEnv(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "  sk-test-key \n")
	p := ProviderConfig{ElevenLabs: ElevenLabsYAML{ModelID: "scribe_v1", TimeoutSeconds: 20}}

	got := p.ElevenLabsProvider()
	if got.APIKey != "sk-test-key" {
		t.Errorf("api key = %q", got.APIKey)
	}
	if got.ModelID != "scribe_v1" || got.Timeout != 20*time.Second {
		t.Errorf("config = %+v", got)
	}
}
