package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tempohq/tempo/internal/seedevents"
	"github.com/tempohq/tempo/pkg/logger"
)

func main() {
	var cfg seedevents.Config

	flag.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	flag.IntVar(&cfg.Users, "users", 5, "number of synthetic users")
	flag.IntVar(&cfg.Days, "days", 30, "days of history per user")
	flag.IntVar(&cfg.EventsPerDay, "per-day", 4, "average events per user per day")
	flag.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "number of concurrent submitters")
	flag.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "HTTP request timeout")
	seed := flag.Uint64("seed", 0, "generator seed, 0 means random")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable verbose logging")
	flag.Parse()
	cfg.Seed = *seed

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := seedevents.Run(ctx, &cfg); err != nil {
		logger.Get().Error(ctx, "seed run failed", logger.Error(err))
		os.Exit(1)
	}
}
