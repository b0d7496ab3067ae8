// Package main is the entrypoint for the skillora API server, a thin
// backend-for-frontend over the ingest and analytics jobs API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/skillora/internal/api"
	mw "github.com/kiranshivaraju/skillora/internal/api/middleware"
	"github.com/kiranshivaraju/skillora/internal/api/handler"
	"github.com/kiranshivaraju/skillora/internal/cache"
	"github.com/kiranshivaraju/skillora/internal/config"
	"github.com/kiranshivaraju/skillora/internal/dashboard"
	"github.com/kiranshivaraju/skillora/internal/jobsapi"
	"github.com/kiranshivaraju/skillora/internal/store"
	"github.com/kiranshivaraju/skillora/internal/wizard"
)

const (
	shutdownTimeout = 30 * time.Second
	migrationsDir   = "migrations"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "api_base", cfg.API.BaseURL, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ca, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	client := jobsapi.NewHTTPClient(cfg.API.BaseURL, cfg.API.Timeout, jobsapi.WithLogger(slog.Default()))
	wz := newWizard(cfg, client, st, ca)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(newDependencies(cfg, client, wz, st, ca)),
		ReadTimeout:  15 * time.Second,
		// The wait endpoint holds a request open for up to the poll max wait.
		WriteTimeout: cfg.Poll.MaxWait + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := wz.Shutdown(shutdownCtx); err != nil {
		slog.Warn("watches did not settle", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// openStore connects to Postgres when DATABASE_URL is set and falls back to
// an in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.Database.URL == "" {
		slog.Info("no DATABASE_URL, sessions kept in memory")
		return store.NewMemoryStore(), func() {}, nil
	}

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	slog.Info("database connected")

	if err := store.RunMigrations(cfg.Database.URL, migrationsDir); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	return store.NewPostgresStore(pool), pool.Close, nil
}

// openCache connects to Redis when REDIS_URL is set. Without it nothing is
// cached and rate limiting is off.
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, func(), error) {
	if cfg.Redis.URL == "" {
		slog.Info("no REDIS_URL, caching disabled")
		return cache.NoopCache{}, func() {}, nil
	}

	rc, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("create redis cache: %w", err)
	}
	if err := rc.Ping(ctx); err != nil {
		rc.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	return rc, func() { rc.Close() }, nil
}

func newWizard(cfg *config.Config, client jobsapi.Client, st store.Store, ca cache.Cache) *wizard.Service {
	return wizard.NewService(client, st, ca, wizard.Options{
		PollInterval: cfg.Poll.Interval,
		PollMaxWait:  cfg.Poll.MaxWait,
		Logger:       slog.Default(),
	})
}

func newDependencies(cfg *config.Config, client jobsapi.Client, wz *wizard.Service, st store.Store, ca cache.Cache) api.Dependencies {
	return api.Dependencies{
		Auth:      mw.NewAuth(cfg.Auth.KeyHashes),
		RateLimit: mw.NewRateLimit(ca, cfg.Server.RateLimitPerMinute),
		Wizard:    wz,
		Tasks:     wz,
		Analytics: dashboard.NewService(client, ca, cfg.Analytics.CacheTTL, slog.Default()),
		Health: map[string]handler.Check{
			"jobs_api": client.Ready,
			"store":    st.Ping,
			"cache":    ca.Ping,
		},
	}
}
