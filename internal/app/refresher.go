package app

import (
	"context"
	"log/slog"
	"time"
)

// Fetcher triggers a catalog fetch; *library.Manager implements it.
type Fetcher interface {
	FetchBooks(refresh bool, done func(ok bool)) bool
}

// StartRefresher launches a goroutine that refreshes the catalog every
// interval until ctx is cancelled. Ticks that land while a fetch is in flight
// are coalesced by the manager's fetch guard. A non-positive interval does
// nothing.
func StartRefresher(ctx context.Context, f Fetcher, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 || f == nil {
		return
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("component", "refresher")

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !f.FetchBooks(true, nil) {
					logger.Debug("refresh coalesced with fetch in flight")
				}
			}
		}
	}()
}
