package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/apihealth/internal/config"
	"github.com/hamed0406/apihealth/internal/httpapi"
	"github.com/hamed0406/apihealth/internal/logging"
	"github.com/hamed0406/apihealth/internal/monitor"
	"github.com/hamed0406/apihealth/internal/probe"
	"github.com/hamed0406/apihealth/internal/repo"
	"github.com/hamed0406/apihealth/internal/repo/memory"
	"github.com/hamed0406/apihealth/internal/repo/postgres"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("api_exit", zap.Error(err))
		log.Fatal(err)
	}
}

func run(cfg config.Config, logger *zap.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		checks    repo.CheckStore
		endpoints repo.EndpointStore
	)
	if cfg.DatabaseURL != "" {
		if cfg.MigrateOnStart {
			if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
				return err
			}
			logger.Info("migrations_applied")
		}
		pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer pg.Close()
		checks, endpoints = pg, pg
	} else {
		mem := memory.New()
		checks, endpoints = mem, mem
		logger.Info("store_memory")
	}

	if cfg.FavoritesFile != "" {
		if err := seedFavorites(ctx, endpoints, cfg.FavoritesFile); err != nil {
			return err
		}
	}

	svc := monitor.NewService(logger, checks, endpoints, probe.NewExecutor())
	svc.DNSDiagnostics = cfg.DNSDiagnostics

	api := httpapi.NewServer(logger, svc)
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.Router(httpapi.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			RateLimitRPM:   cfg.RateLimitRPM,
			RateLimitBurst: cfg.RateLimitBurst,
			TrustProxy:     cfg.TrustProxy,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		// a probe can take up to probe.Timeout before the response is written
		WriteTimeout: probe.Timeout + 10*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("api_shutdown")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return multierr.Combine(srv.Shutdown(shutCtx), <-errCh)
}

func seedFavorites(ctx context.Context, store repo.EndpointStore, path string) error {
	favs, err := config.LoadFavorites(path)
	if err != nil {
		return err
	}
	for i := range favs {
		if err := store.AddEndpoint(ctx, &favs[i]); err != nil {
			return fmt.Errorf("seed favorite %q: %w", favs[i].URL, err)
		}
	}
	return nil
}
