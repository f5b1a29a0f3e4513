// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"eventgate/internal/common/config"
	"eventgate/internal/common/database"
	"eventgate/internal/common/logger"
	"eventgate/internal/common/observability"
	"eventgate/internal/events"
	"eventgate/internal/identity"
	"eventgate/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting eventgate server...")

	jaegerEndpoint := ""
	if cfg.Tracing.Enabled {
		jaegerEndpoint = cfg.Tracing.Endpoint
	}
	obs := observability.New(cfg.App.Name, jaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init identity provider client ---
	provider := identity.NewProviderClient(
		cfg.Identity.URL,
		cfg.Identity.Realm,
		cfg.Identity.ClientID,
		cfg.Identity.ClientSecret,
		config.GetDuration(cfg.Identity.Timeout),
	)
	resolver := identity.NewResolver(provider, rdb.Client, config.GetTTL(cfg.Identity.TierCacheTTL), log)

	// --- Init event store and view service ---
	store := events.NewStore(pg.DB, config.GetDuration(cfg.Events.QueryTimeout), cfg.Events.MaxResults, log)
	cached := events.NewCachedLister(store, rdb.Client, config.GetTTL(cfg.Events.ListCacheTTL), log)
	service := events.NewService(cached, log)

	zapLog.Info("All external service clients initialized")

	srv := server.New(resolver, service, pg, rdb, obs, log)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}

	zapLog.Info("Server stopped")
}
