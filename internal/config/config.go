// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment sources on top.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the sqlite database file; empty selects the in-memory
	// store.
	DBPath string `koanf:"db_path"`

	// QueueSize bounds the in-memory recompute job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of recompute workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the event deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// RedisAddr enables the redis pending-action store when set; empty
	// selects the in-memory store.
	RedisAddr string `koanf:"redis_addr"`

	// PendingTTLMinutes is the default pending-action expiry.
	PendingTTLMinutes int `koanf:"pending_ttl_minutes"`

	// EventQueryTimeoutMS bounds event-source queries during score
	// computation.
	EventQueryTimeoutMS int `koanf:"event_query_timeout_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DBPath:              "data/tempo.db",
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          50_000,
		PendingTTLMinutes:   15,
		EventQueryTimeoutMS: 2000,
	}
}
