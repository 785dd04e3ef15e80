package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"affiliate-dashboard/internal/application/digest"
	"affiliate-dashboard/internal/application/reports"
	"affiliate-dashboard/internal/domain/auth"
	"affiliate-dashboard/internal/domain/period"
	"affiliate-dashboard/internal/infra/memory"
	"affiliate-dashboard/internal/infrastructure/cache"
	"affiliate-dashboard/internal/infrastructure/config"
	"affiliate-dashboard/internal/infrastructure/external/backend"
	"affiliate-dashboard/internal/infrastructure/logging"
	"affiliate-dashboard/internal/infrastructure/notify"
	httpapi "affiliate-dashboard/internal/interface/http"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.LoadFromFile("config.yaml")
	logger := logging.New(cfg.Log)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config failed")
	}
	logger.Info().
		Str("env", cfg.App.Env).
		Str("addr", cfg.HTTP.Addr).
		Str("upstream", cfg.UpstreamURL()).
		Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, closeSessions := openSessionStore(ctx, cfg, logger)
	defer closeSessions()

	client := backend.NewClient(cfg.UpstreamURL(), cfg.Upstream.Timeout, logger)
	apiServer := httpapi.NewServer(cfg, client, sessions, logger)

	if worker := newDigestWorker(cfg, client, logger); worker != nil {
		worker.Start(ctx)
		defer worker.Stop()
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", cfg.HTTP.Addr).Msg("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openSessionStore 依設定使用 redis，連線失敗時退回記憶體 session。
func openSessionStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (auth.SessionStore, func()) {
	if cfg.Session.Store != "redis" {
		logger.Info().Msg("using in-memory session store")
		return memory.NewSessionStore(), func() {}
	}
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rdb, err := cache.Connect(connCtx, cfg.Session.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, falling back to in-memory session store")
		return memory.NewSessionStore(), func() {}
	}
	logger.Info().Str("prefix", cfg.Session.KeyPrefix).Msg("using redis session store")
	return cache.NewSessionStore(rdb, cfg.Session.KeyPrefix), func() { _ = rdb.Close() }
}

// newDigestWorker 在 Telegram 設定完整時建立摘要工作者，摘要帳號使用獨立的 session。
func newDigestWorker(cfg config.Config, client *backend.Client, logger zerolog.Logger) *digest.Worker {
	tg := cfg.Notifier.Telegram
	if !tg.Enabled {
		return nil
	}
	notifier := notify.NewTelegramClient(tg.Token, tg.ChatID, "[Dashboard]")
	if !notifier.Configured() || tg.Email == "" || tg.Password == "" {
		logger.Warn().Msg("telegram digest enabled but token, chat id or credentials are missing")
		return nil
	}
	holder := auth.NewSessionHolder()
	report := reports.NewUseCase(client.WithTokens(holder), reports.Options{
		Location:         cfg.Location(),
		SkipClientFilter: cfg.Dashboard.SkipClientFilter,
		TrendPoints:      cfg.Dashboard.TrendPoints,
	})
	return digest.NewWorker(digest.Config{
		Interval: tg.Interval,
		Period:   period.Parse(tg.Period),
		TopN:     tg.TopN,
		Email:    tg.Email,
		Password: tg.Password,
	}, client, holder, report, notifier, logger)
}
