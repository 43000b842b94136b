package api

import (
	"log/slog"
	"time"
)

// HTTPServerConfig configures the gateway's HTTP and metrics listeners.
type HTTPServerConfig struct {
	ListenAddr string
	// MetricsAddr serves /metrics; empty disables the metrics listener.
	MetricsAddr string
	EnablePprof bool

	Log *slog.Logger

	// DrainDuration is how long Shutdown reports not-ready on /readyz before
	// it stops accepting connections.
	DrainDuration            time.Duration
	GracefulShutdownDuration time.Duration

	ReadTimeout time.Duration
	// WriteTimeout must outlast a contract invocation, or a transaction that
	// lands on chain loses its response. Zero leaves writes unbounded.
	WriteTimeout time.Duration

	// HealthCheckTimeout bounds the secret store ping behind /db-health and
	// the RPC probe behind /network-health.
	HealthCheckTimeout time.Duration
}
