package workers

import (
	"context"
	"time"

	"stockwatch/internal/domain/quote"
)

// MoversFetcher is the slice of the quote service the collector needs
type MoversFetcher interface {
	GetMovers(ctx context.Context, forceRefresh bool) (*quote.MoversSnapshot, error)
}

// MoversCollectorWorker keeps the movers snapshot warm by refreshing it
// ahead of user requests. Registered as disabled when no API key is
// configured, since every refresh would serve static data anyway.
type MoversCollectorWorker struct {
	*BaseWorker
	fetcher MoversFetcher
}

// NewMoversCollectorWorker creates a movers collector worker
func NewMoversCollectorWorker(fetcher MoversFetcher, interval time.Duration, enabled bool) *MoversCollectorWorker {
	return &MoversCollectorWorker{
		BaseWorker: NewBaseWorker("movers_collector", interval, enabled),
		fetcher:    fetcher,
	}
}

func (w *MoversCollectorWorker) Run(ctx context.Context) error {
	start := time.Now()

	snapshot, err := w.fetcher.GetMovers(ctx, true)
	if err != nil {
		w.RecordError(err, time.Since(start))
		return err
	}

	w.Log().Debugw("Movers snapshot refreshed",
		"gainers", len(snapshot.TopGainers),
		"losers", len(snapshot.TopLosers),
		"most_active", len(snapshot.MostActivelyTraded),
	)
	w.RecordRun(time.Since(start))
	return nil
}
