package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"storefront/internal/config"
	"storefront/internal/delivery/httpapi"
	"storefront/internal/domain/repositories"
	"storefront/internal/infrastructure/db/postgres"
	"storefront/internal/infrastructure/memory"
	"storefront/internal/infrastructure/ratelimit"
	"storefront/internal/infrastructure/session"
	"storefront/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	storage, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("initialize storage")
	}

	sessionStore, err := buildSessionStore(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("initialize session store")
	}

	sessions := session.NewManager(sessionStore, cfg.SessionSecret, cfg.SessionTTL)
	loginLimiter := ratelimit.New(cfg.LoginRateWindow, cfg.LoginRateLimit)
	handler := httpapi.NewHandler(storage, sessions, loginLimiter, logger)
	e := httpapi.NewRouter(handler, logger, cfg.RequestRateLimit, cfg.RequestRateBurst)

	go func() {
		logger.WithField("addr", cfg.Addr).Info("server starting")
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown")
	}
}

func buildStorage(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repositories.Storage, error) {
	if cfg.DatabaseURL != "" {
		store, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := ensureAdmin(ctx, store, cfg); err != nil {
			return nil, err
		}
		logger.Info("using postgresql storage")
		return store, nil
	}

	store := memory.NewStorage()
	if err := store.Seed(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return nil, err
	}
	logger.Info("using in-memory storage with demo catalog")
	return store, nil
}

func buildSessionStore(cfg *config.Config, logger *logrus.Logger) (session.Store, error) {
	if cfg.RedisURL != "" {
		store, err := session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis session store")
		return store, nil
	}
	logger.Info("using in-memory session store")
	return session.NewMemoryStore(), nil
}

// ensureAdmin creates the administrator account on first start against an
// empty database.
func ensureAdmin(ctx context.Context, storage repositories.Storage, cfg *config.Config) error {
	existing, err := storage.GetUserByUsername(ctx, cfg.AdminUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = storage.CreateUser(ctx, cfg.AdminUsername, cfg.AdminPassword)
	return err
}
