// Package server exposes the transcription gateway over HTTP. The
// gateway is a stateless request translator: it validates the upload,
// forwards it to the configured speech-to-text provider and runs the
// transliteration step before answering.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/scriptspeak/scriptspeak/internal/config"
	"github.com/scriptspeak/scriptspeak/internal/transcriber"
)

// Server is the gateway HTTP server.
type Server struct {
	cfg            config.ServerConfig
	provider       transcriber.Provider
	limiter        Limiter
	log            zerolog.Logger
	requestTimeout time.Duration

	engine *gin.Engine
	http   *http.Server
}

// New assembles the gateway around the given provider. A nil limiter
// disables rate limiting.
func New(cfg config.ServerConfig, provider transcriber.Provider, limiter Limiter, log zerolog.Logger) *Server {
	s := &Server{
		cfg:            cfg,
		provider:       provider,
		limiter:        limiter,
		log:            log,
		requestTimeout: cfg.RequestTimeout(),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(RequestID())
	engine.Use(RequestLogger(log))
	engine.Use(gin.Recovery())
	engine.Use(CORS(cfg.AllowedOrigins))

	engine.GET("/", s.handleRoot)
	engine.GET("/health", s.handleHealth)
	engine.GET("/languages", s.handleLanguages)

	transcribe := engine.Group("/")
	if limiter != nil {
		transcribe.Use(RateLimit(limiter, log))
	}
	transcribe.POST("/transcribe", s.handleTranscribe)

	s.engine = engine
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving HTTP until Stop is called or the listener
// fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	s.log.Info().
		Str("addr", addr).
		Str("provider", s.provider.Name()).
		Msg("gateway listening")

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
