package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/eliseohh/leakcheckbot/internal/admin"
	"github.com/eliseohh/leakcheckbot/internal/bot"
	"github.com/eliseohh/leakcheckbot/internal/config"
	"github.com/eliseohh/leakcheckbot/internal/cooldown"
	"github.com/eliseohh/leakcheckbot/internal/observability"
	"github.com/eliseohh/leakcheckbot/internal/ops"
	"github.com/eliseohh/leakcheckbot/internal/upstream"
)

// version is stamped into traces; override with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// 1. Configuration (.env is best-effort)
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// 2. Logging
	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(lvl)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	logger := log.With().Str("service", cfg.OTEL.ServiceName).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Tracing
	shutdownTracing, err := observability.Setup(ctx, cfg.OTEL, version)
	if err != nil {
		logger.Fatal().Err(err).Msg("tracing init failed")
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	// 4. Pipeline dependencies
	gate := cooldown.New(cfg.Cooldown)
	admins := admin.New(cfg.AdminToken, cfg.AdminID)
	client := upstream.New(cfg.RemoteAPIBase, cfg.RemoteAPIKey, cfg.UpstreamTimeout)

	b, err := bot.New(bot.Config{
		Token:          cfg.Token,
		PollTimeout:    cfg.PollTimeout,
		RequireConsent: cfg.RequireConsent,
		RedactOutput:   cfg.RedactOutput,
		EnableRawAdmin: cfg.EnableRawAdmin,
	}, gate, admins, client, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("bot init failed")
	}

	// 5. Ops surface, only when configured
	if cfg.OpsAddr != "" {
		srv := ops.New(cfg.OpsAddr, logger)
		go func() {
			if err := srv.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("ops server failed")
			}
		}()
	}

	// 6. Poll until signalled
	go func() {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		b.Stop()
	}()

	b.Start()
}
