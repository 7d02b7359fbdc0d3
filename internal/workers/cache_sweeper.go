package workers

import (
	"context"
	"time"
)

// StaleSweeper is the slice of the quote service the sweeper needs
type StaleSweeper interface {
	SweepStale(ctx context.Context) (int64, error)
}

// CacheSweeperWorker periodically removes stock rows that fell out of
// every snapshot and are not held by a watchlist.
type CacheSweeperWorker struct {
	*BaseWorker
	sweeper StaleSweeper
}

// NewCacheSweeperWorker creates a cache sweeper worker
func NewCacheSweeperWorker(sweeper StaleSweeper, interval time.Duration, enabled bool) *CacheSweeperWorker {
	return &CacheSweeperWorker{
		BaseWorker: NewBaseWorker("cache_sweeper", interval, enabled),
		sweeper:    sweeper,
	}
}

func (w *CacheSweeperWorker) Run(ctx context.Context) error {
	start := time.Now()

	deleted, err := w.sweeper.SweepStale(ctx)
	if err != nil {
		w.RecordError(err, time.Since(start))
		return err
	}

	if deleted > 0 {
		w.Log().Infow("Sweep removed stale rows", "count", deleted)
	}
	w.RecordRun(time.Since(start))
	return nil
}
