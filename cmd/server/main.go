package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/moonboard/backend/internal/config"
	httpapi "github.com/moonboard/backend/internal/http"
	"github.com/moonboard/backend/internal/ingest"
	"github.com/moonboard/backend/internal/relay"
	"github.com/moonboard/backend/internal/service"
)

// @title Moonboard Backend
// @version 1.0
// @description Spreadsheet ingestion and dashboard metrics API
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "moonboard-backend").Str("dataset", cfg.Dataset).Logger()

	fetcher := ingest.HTTPFetcher{URL: cfg.CSVURL, Timeout: cfg.FetchTimeout}
	dashboard, err := service.NewDashboard(cfg.Dataset, fetcher, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build dashboard")
	}
	if cfg.CSVURL == "" {
		logger.Warn().Msg("CSV_URL is empty, serving fallback data")
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+5*time.Second)
	if _, err := dashboard.Refresh(initCtx); err != nil {
		logger.Error().Err(err).Msg("initial refresh failed")
	}
	initCancel()

	scheduler, err := service.NewScheduler(dashboard, cfg.RefreshInterval, cfg.FetchTimeout+5*time.Second, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build scheduler")
	}
	scheduler.Start()

	webhook := relay.Webhook{URL: cfg.WebhookURL, Timeout: cfg.RelayTimeout}
	if cfg.WebhookURL == "" {
		logger.Info().Msg("WEBHOOK_URL is empty, chat relay disabled")
	}

	router := httpapi.Router(cfg, dashboard, webhook, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Dur("refresh_interval", cfg.RefreshInterval).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)

	select {
	case <-scheduler.Stop().Done():
	case <-ctxShutdown.Done():
		logger.Warn().Msg("refresh still running at shutdown")
	}
	logger.Info().Msg("server stopped")
}
