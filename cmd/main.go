package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tempohq/tempo/internal/adapters/broadcast"
	"github.com/tempohq/tempo/internal/adapters/http/api"
	"github.com/tempohq/tempo/internal/adapters/pending"
	"github.com/tempohq/tempo/internal/adapters/repository"
	"github.com/tempohq/tempo/internal/app"
	"github.com/tempohq/tempo/internal/config"
	"github.com/tempohq/tempo/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		os.Stderr.WriteString("failed to open store: " + err.Error() + "\n")
		return
	}

	pendingRepo := openPendingRepo(ctx, cfg, log)

	engine := app.New(
		app.WithLogger(log),
		app.WithStore(store),
		app.WithBroadcast(broadcast.NewFanout()),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithEventQueryTimeout(time.Duration(cfg.EventQueryTimeoutMS)*time.Millisecond),
	)
	if err := engine.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start engine: " + err.Error() + "\n")
		return
	}
	defer engine.Stop()

	go startServiceMetricsUpdater(ctx, engine)

	mux := http.NewServeMux()
	apiServer := api.NewServer(engine, engine, pendingRepo, pendingTTL(cfg))
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// openStore selects sqlite or the in-memory store based on db_path.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	if cfg.DBPath == "" {
		log.Info(ctx, "no db_path configured, using in-memory store")
		return repository.NewMemoryStore(), nil
	}
	log.Info(ctx, "opening sqlite store", logger.String("path", cfg.DBPath))
	return repository.Open(cfg.DBPath)
}

// openPendingRepo selects redis or the in-memory pending-action store.
func openPendingRepo(ctx context.Context, cfg *config.Config, log logger.Logger) pending.Repository {
	ttl := pendingTTL(cfg)
	if cfg.RedisAddr == "" {
		log.Info(ctx, "no redis_addr configured, using in-memory pending store")
		return pending.NewMemoryRepository(pending.WithTTL(ttl))
	}
	log.Info(ctx, "using redis pending store", logger.String("addr", cfg.RedisAddr))
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return pending.NewRedisRepository(rdb, pending.WithRedisTTL(ttl))
}

// pendingTTL converts the configured pending-action TTL to a duration.
func pendingTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.PendingTTLMinutes) * time.Minute
}

// startServiceMetricsUpdater refreshes engine gauges on a fixed cadence.
func startServiceMetricsUpdater(ctx context.Context, engine *app.Engine) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the queue gauges as a side effect.
			_ = engine.GetStats()
		}
	}
}
