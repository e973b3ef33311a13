// Package workers holds background loops that run alongside the HTTP server.
package workers

import (
	"context"
	"time"

	"participant-service/internal/common/logger"
)

// SessionStore is the slice of the repository the cleanup loop needs.
type SessionStore interface {
	DeleteExpiredCaptchaSessions(ctx context.Context) (int64, error)
	DeleteStaleCaptchaSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupWorker periodically removes expired captcha sessions and purges
// completed ones past the retention window. Participation rows are never
// touched.
type CleanupWorker struct {
	store     SessionStore
	interval  time.Duration
	retention time.Duration
}

func NewCleanupWorker(store SessionStore, interval, retention time.Duration) *CleanupWorker {
	return &CleanupWorker{
		store:     store,
		interval:  interval,
		retention: retention,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval. The first
// sweep happens immediately on start.
func (w *CleanupWorker) Run(ctx context.Context) {
	logger.Info().
		Dur("interval", w.interval).
		Dur("retention", w.retention).
		Msg("captcha cleanup worker started")

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("captcha cleanup worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *CleanupWorker) sweep(ctx context.Context) {
	expired, err := w.store.DeleteExpiredCaptchaSessions(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("expired session sweep failed")
	}

	cutoff := time.Now().UTC().Add(-w.retention)
	stale, err := w.store.DeleteStaleCaptchaSessions(ctx, cutoff)
	if err != nil {
		logger.Warn().Err(err).Msg("stale session sweep failed")
	}

	if expired > 0 || stale > 0 {
		logger.Info().
			Int64("expired", expired).
			Int64("stale", stale).
			Msg("captcha sessions cleaned up")
	}
}
