package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ruteri/creator-hub-gateway/interfaces"
)

// Migrator is implemented by stores that manage a schema.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// EnsureSchema prepares store for use, retrying up to attempts times with a
// constant delay. Stores without a schema are pinged instead.
//
// On exhaustion the last error is logged and returned. Callers are expected
// to keep serving; database-backed requests fail until the store recovers.
func EnsureSchema(ctx context.Context, store interfaces.SecretStore, attempts int, delay time.Duration, log *slog.Logger) error {
	if attempts < 1 {
		attempts = 1
	}

	op := store.Ping
	if m, ok := store.(Migrator); ok {
		op = m.Migrate
	}

	attempt := 0
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), uint64(attempts-1)),
		ctx,
	)

	err := backoff.RetryNotify(func() error {
		attempt++
		return op(ctx)
	}, policy, func(err error, next time.Duration) {
		log.Warn("Secret store not ready, retrying",
			slog.String("store", store.Name()),
			slog.Int("attempt", attempt),
			slog.Int("attempts", attempts),
			slog.Duration("retryIn", next),
			"err", err)
	})
	if err != nil {
		log.Error("Secret store schema could not be ensured",
			slog.String("store", store.Name()),
			slog.Int("attempts", attempt),
			"err", err)
		return fmt.Errorf("ensure schema for %s after %d attempts: %w", store.Name(), attempt, err)
	}

	log.Info("Secret store ready",
		slog.String("store", store.Name()),
		slog.Int("attempts", attempt))
	return nil
}
