package source

// refresh.go re-reads the exports on a fixed interval.
//
// It is the fallback for data directories where file events are unreliable,
// such as network shares. The refresher runs immediately on start, then every
// interval, and stops when the context is cancelled. A failed load is logged
// and retried on the next tick; it never stops the refresher.

import (
	"context"
	"log/slog"
	"time"
)

// RunRefresher keeps src warm until ctx is cancelled. A non-positive
// interval returns immediately.
func RunRefresher(ctx context.Context, src *FileSource, interval time.Duration) {
	if interval <= 0 {
		return
	}

	slog.Info("source refresher started", "interval", interval)

	// Run immediately on startup
	refresh(ctx, src)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("source refresher stopped")
			return
		case <-ticker.C:
			refresh(ctx, src)
		}
	}
}

// refresh performs one load. The FileSource only rebuilds when a file's
// signature moved, so an idle tick costs two stat calls.
func refresh(ctx context.Context, src *FileSource) {
	start := time.Now()
	snap, err := src.Snapshot(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("source refresh failed", "error", err)
		}
		return
	}
	slog.Debug("source refresh completed",
		"snapshot_id", snap.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
