package refresh

import (
	"context"
	"log/slog"
	"time"
)

const DefaultCleanupInterval = time.Hour

// Cleaner removes refresh tokens that can no longer be used.
type Cleaner interface {
	DeleteExpiredOrRevoked(ctx context.Context) (int64, error)
}

// Janitor periodically purges expired and revoked refresh tokens.
type Janitor struct {
	store    Cleaner
	interval time.Duration
}

func NewJanitor(store Cleaner, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &Janitor{
		store:    store,
		interval: interval,
	}
}

// Run sweeps once per interval until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	slog.Info("Refresh token janitor started.", "interval", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Refresh token janitor stopped.")
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep performs a single cleanup pass and returns the number of removed tokens.
func (j *Janitor) Sweep(ctx context.Context) int64 {
	n, err := j.store.DeleteExpiredOrRevoked(ctx)
	if err != nil {
		slog.Error("failed to delete expired or revoked refresh tokens", "reason", err)
		return n
	}
	if n > 0 {
		slog.Info("Deleted expired or revoked refresh tokens.", "count", n)
	}
	return n
}
