// Package main запускает HTTP-сервер сервиса atelier.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/atelier/internal/config"
	"github.com/mmeshcher/atelier/internal/handler"
	"github.com/mmeshcher/atelier/internal/metrics"
	"github.com/mmeshcher/atelier/internal/middleware"
	"github.com/mmeshcher/atelier/internal/model"
	"github.com/mmeshcher/atelier/internal/pricing"
	"github.com/mmeshcher/atelier/internal/repository"
	"github.com/mmeshcher/atelier/internal/service"
	"github.com/mmeshcher/atelier/internal/session"
	"github.com/mmeshcher/atelier/internal/validation"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := newRepository(cfg)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}

	svc := service.NewService(repo)
	defer svc.Close()

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		sugar.Fatalw("session store initialization error", "error", err.Error())
	}
	defer closeStore()

	// Учётные данные не сверяются ни с каким хранилищем: корректная форма считается принятой.
	auth := validation.AuthenticatorFunc(func(_ context.Context, c model.Credentials) error {
		sugar.Infow("login form submitted", "email", c.Email)
		return nil
	})

	h := handler.NewHandler(handler.Deps{
		Users:    svc,
		Pricing:  pricing.NewService(),
		Auth:     auth,
		Sessions: middleware.NewSessionMiddleware(cfg.SessionSecret, store, logger),
		Metrics:  metrics.New(),
	}, logger)

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting atelier server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}

func newRepository(cfg *config.Config) (service.Repository, error) {
	if cfg.DatabaseURI == "" {
		return repository.NewMemoryRepository(), nil
	}
	return repository.NewPostgresRepository(cfg.DatabaseURI)
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.RedisURL == "" {
		return session.NewMemoryStore(), func() {}, nil
	}

	store, err := session.NewRedisStore(ctx, session.RedisConfig{
		URL:          cfg.RedisURL,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
