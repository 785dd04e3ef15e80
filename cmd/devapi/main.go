// devapi 啟動參考上游：與 gateway 相同的資料模型，資料存於記憶體或 PostgreSQL。
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"affiliate-dashboard/internal/infra/memory"
	authinfra "affiliate-dashboard/internal/infrastructure/auth"
	"affiliate-dashboard/internal/infrastructure/config"
	"affiliate-dashboard/internal/infrastructure/db"
	"affiliate-dashboard/internal/infrastructure/logging"
	"affiliate-dashboard/internal/infrastructure/persistence/postgres"
	"affiliate-dashboard/internal/interface/devapi"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.LoadFromFile("config.yaml")
	logger := logging.Component(logging.New(cfg.Log), "devapi")
	if err != nil {
		logger.Fatal().Err(err).Msg("load config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, pool := openStore(ctx, cfg, logger)
	if pool != nil {
		defer pool.Close()
	}
	hasher := authinfra.BcryptHasher{Cost: bcrypt.DefaultCost}

	if cfg.DevAPI.Seed {
		if err := devapi.Seed(ctx, store, hasher, time.Now().In(cfg.Location())); err != nil {
			logger.Fatal().Err(err).Msg("seed failed")
		}
		logger.Info().Str("password", devapi.SeedPassword).Msg("demo data ready")
	}

	api := devapi.NewServer(devapi.Config{
		Secret:      cfg.DevAPI.Secret,
		TokenTTL:    cfg.DevAPI.TokenTTL,
		ManagerCode: cfg.DevAPI.ManagerCode,
		AdminCode:   cfg.DevAPI.AdminCode,
		Location:    cfg.Location(),
	}, store, hasher, logger)

	srv := &http.Server{
		Addr:              cfg.DevAPI.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", cfg.DevAPI.Addr).Msg("starting reference upstream")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openStore 有 DB_DSN 且連線成功時使用 PostgreSQL，否則使用記憶體。
func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (devapi.Store, *sql.DB) {
	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := db.Connect(connCtx, cfg.DB)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("database connection failed, falling back to in-memory store")
	case pool == nil:
		logger.Info().Msg("no DB_DSN provided; running with in-memory store")
	default:
		logger.Info().Msg("database connected")
		return postgres.NewStore(pool), pool
	}
	return memory.NewStore(), nil
}
