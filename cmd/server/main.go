package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/scriptspeak/scriptspeak/internal/config"
	"github.com/scriptspeak/scriptspeak/internal/logging"
	"github.com/scriptspeak/scriptspeak/internal/server"
	"github.com/scriptspeak/scriptspeak/internal/transcriber"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var configFile string
	flag.StringVar(&configFile, "config", "config.yaml", "configuration file path")
	flag.Parse()

	// Secrets such as ELEVENLABS_API_KEY come from the environment;
	// .env is a convenience for local runs.
	_ = godotenv.Load()

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	log := logging.New(cfg.Logging)

	provider, err := buildProvider(cfg, log)
	if err != nil {
		return err
	}

	var limiter server.Limiter
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		limiter = server.NewRedisLimiter(client, cfg.Redis.KeyPrefix, cfg.Server.RateLimitPerMinute)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis rate limiting enabled")
	}

	srv := server.New(cfg.Server, provider, limiter, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}

func buildProvider(cfg *config.Config, log zerolog.Logger) (transcriber.Provider, error) {
	switch cfg.Provider.Name {
	case "elevenlabs":
		return transcriber.NewElevenLabs(cfg.Provider.ElevenLabsProvider(), log)
	case "vosk":
		return transcriber.NewVosk(cfg.Provider.Vosk, log)
	default:
		return nil, fmt.Errorf("unknown provider %q (want elevenlabs or vosk)", cfg.Provider.Name)
	}
}
