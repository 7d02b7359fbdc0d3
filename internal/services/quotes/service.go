package quotes

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"stockwatch/internal/domain/quote"
	"stockwatch/internal/domain/stock"
	"stockwatch/internal/events"
	"stockwatch/internal/metrics"
	"stockwatch/pkg/errors"
	"stockwatch/pkg/logger"
)

// retention is how long a stock row without a watchlist membership
// survives after its last snapshot appearance.
const retention = 24 * time.Hour

// MoversClient is the upstream market-data surface the service needs
type MoversClient interface {
	GetTopMovers(ctx context.Context) (*quote.MoversSnapshot, error)
	GetCompanyOverview(ctx context.Context, symbol string) (*quote.CompanyOverview, error)
}

// Service is the quote source: it resolves movers snapshots through the
// cache/upstream/store/demo fallback chain, keeps the stocks table
// warm, and serves company overviews and per-symbol live views.
type Service struct {
	client    MoversClient
	stocks    stock.Repository
	cache     SnapshotCache
	bus       *events.Bus
	hasAPIKey bool
	retention time.Duration
	log       *logger.Logger
	now       func() time.Time
}

// NewService creates a quote service
func NewService(client MoversClient, stocks stock.Repository, cache SnapshotCache, bus *events.Bus, hasAPIKey bool) *Service {
	return &Service{
		client:    client,
		stocks:    stocks,
		cache:     cache,
		bus:       bus,
		hasAPIKey: hasAPIKey,
		retention: retention,
		log:       logger.Get().With("service", "quotes"),
		now:       time.Now,
	}
}

// GetMovers returns the current top gainers, losers and most actively
// traded symbols. It never fails: any upstream problem degrades through
// previously stored rows and finally the built-in demo dataset.
func (s *Service) GetMovers(ctx context.Context, forceRefresh bool) (*quote.MoversSnapshot, error) {
	if !s.hasAPIKey {
		s.log.Debug("No API key configured, serving demo dataset")
		metrics.MoversFetches.WithLabelValues("demo").Inc()
		return demoSnapshot(), nil
	}

	if !forceRefresh {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warnw("Snapshot cache read failed", "error", err)
		}
		if ok && !cached.IsEmpty() {
			metrics.MoversFetches.WithLabelValues("cache").Inc()
			return cached, nil
		}
	}

	fetched, err := s.client.GetTopMovers(ctx)
	if err != nil {
		s.log.Warnw("Movers fetch failed, serving fallback", "error", err)
		persistDemo := errors.Is(err, errors.ErrSoftAPIFailure)
		return s.fallbackSnapshot(ctx, persistDemo), nil
	}
	if fetched.IsEmpty() {
		s.log.Warn("Upstream returned an empty movers payload, serving fallback")
		return s.fallbackSnapshot(ctx, true), nil
	}

	filtered := quote.FilterSnapshot(fetched)
	s.recordRejections(fetched, filtered)

	if err := s.persist(ctx, filtered); err != nil {
		s.log.Warnw("Failed to persist movers snapshot", "error", err)
	}
	if err := s.cache.Set(ctx, filtered); err != nil {
		s.log.Warnw("Failed to cache movers snapshot", "error", err)
	}

	metrics.MoversFetches.WithLabelValues("api").Inc()
	return filtered, nil
}

// fallbackSnapshot rebuilds a snapshot from stored rows when possible,
// otherwise serves the demo dataset. When persistDemo is set the demo
// rows are written through so the table is populated on first run.
func (s *Service) fallbackSnapshot(ctx context.Context, persistDemo bool) *quote.MoversSnapshot {
	rows, err := s.stocks.GetAll(ctx)
	if err != nil {
		s.log.Warnw("Failed to read stored stocks for fallback", "error", err)
	}
	if len(rows) > 0 {
		metrics.MoversFetches.WithLabelValues("store").Inc()
		return snapshotFromRows(rows)
	}

	demo := demoSnapshot()
	if persistDemo {
		if err := s.persist(ctx, demo); err != nil {
			s.log.Warnw("Failed to persist demo snapshot", "error", err)
		}
	}
	metrics.MoversFetches.WithLabelValues("demo").Inc()
	return demo
}

// snapshotFromRows reassembles the three categories from stored rows:
// gainers and losers split on the sign of the change, most active
// ordered by last-known volume.
func snapshotFromRows(rows []stock.Stock) *quote.MoversSnapshot {
	snapshot := &quote.MoversSnapshot{LastUpdated: rebuiltLabel}

	for _, row := range rows {
		if row.Price == "" {
			continue // placeholder row from a manual watchlist add
		}
		if row.IsGaining() {
			snapshot.TopGainers = append(snapshot.TopGainers, row.Quote())
		} else {
			snapshot.TopLosers = append(snapshot.TopLosers, row.Quote())
		}
		snapshot.MostActivelyTraded = append(snapshot.MostActivelyTraded, row.Quote())
	}

	sort.SliceStable(snapshot.MostActivelyTraded, func(i, j int) bool {
		return volumeValue(snapshot.MostActivelyTraded[i].Volume) > volumeValue(snapshot.MostActivelyTraded[j].Volume)
	})

	return snapshot
}

func volumeValue(volume string) int64 {
	v, _ := strconv.ParseInt(strings.ReplaceAll(volume, ",", ""), 10, 64)
	return v
}

// persist flattens a snapshot into the stocks table and runs the age
// sweep, then signals live views.
func (s *Service) persist(ctx context.Context, snapshot *quote.MoversSnapshot) error {
	now := s.now()

	seen := make(map[string]struct{})
	var rows []stock.Stock
	for _, q := range snapshot.All() {
		symbol := strings.ToUpper(q.Ticker)
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		rows = append(rows, stock.FromQuote(q, now))
	}

	if err := s.stocks.Upsert(ctx, rows); err != nil {
		return errors.Wrap(err, "upsert snapshot rows")
	}

	if _, err := s.SweepStale(ctx); err != nil {
		s.log.Warnw("Age sweep failed", "error", err)
	}

	s.bus.Publish(events.TopicStocks)
	return nil
}

// SweepStale removes rows older than the retention window that no
// watchlist references. Also invoked periodically by the sweeper worker.
func (s *Service) SweepStale(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention).UnixMilli()

	deleted, err := s.stocks.DeleteStale(ctx, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "delete stale stocks")
	}
	if deleted > 0 {
		metrics.SweptStocks.Add(float64(deleted))
		s.log.Infow("Swept stale stock rows", "count", deleted)
		s.bus.Publish(events.TopicStocks)
	}
	return deleted, nil
}

// GetCompanyOverview resolves fundamentals for a symbol: upstream
// first, then the built-in table for well-known symbols.
func (s *Service) GetCompanyOverview(ctx context.Context, symbol string) (*quote.CompanyOverview, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if s.hasAPIKey {
		overview, err := s.client.GetCompanyOverview(ctx, symbol)
		if err == nil {
			return overview, nil
		}
		s.log.Warnw("Overview fetch failed, consulting built-in table", "symbol", symbol, "error", err)
	}

	if overview, ok := staticOverview(symbol); ok {
		return overview, nil
	}

	return nil, errors.Wrapf(errors.ErrNotFound, "company data not found for %s", symbol)
}

// GetStock returns the stored row for a symbol, errors.ErrNotFound when
// the symbol was never cached.
func (s *Service) GetStock(ctx context.Context, symbol string) (*stock.Stock, error) {
	return s.stocks.GetBySymbol(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
}

// WatchStock returns a live view of one stored row. The current state
// is emitted immediately, then again after every stocks mutation; a nil
// element means the row does not exist. The channel closes when ctx is
// cancelled.
func (s *Service) WatchStock(ctx context.Context, symbol string) <-chan *stock.Stock {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	out := make(chan *stock.Stock, 1)
	signals := s.bus.Subscribe(ctx, events.TopicStocks)

	go func() {
		defer close(out)

		emit := func() bool {
			row, err := s.stocks.GetBySymbol(ctx, symbol)
			if err != nil && !errors.Is(err, errors.ErrNotFound) {
				s.log.Warnw("Live stock read failed", "symbol", symbol, "error", err)
				return true
			}
			select {
			case out <- row:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-signals:
				if !emit() {
					return
				}
			}
		}
	}()

	return out
}

// UpdateWatchlistStatus flips the denormalized in_watchlist flag on a
// stored row and signals live views.
func (s *Service) UpdateWatchlistStatus(ctx context.Context, symbol string, inWatchlist bool) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if err := s.stocks.SetWatchlistFlag(ctx, symbol, inWatchlist); err != nil {
		return errors.Wrapf(err, "update watchlist flag for %s", symbol)
	}

	s.bus.Publish(events.TopicStocks)
	return nil
}

// recordRejections accounts quotes dropped by the validation filter
func (s *Service) recordRejections(raw, filtered *quote.MoversSnapshot) {
	dropped := len(raw.All()) - len(filtered.All())
	if dropped == 0 {
		return
	}

	for _, q := range raw.All() {
		err := quote.Validate(q)
		if err == nil {
			continue
		}

		reason := "symbol"
		var verr *errors.ValidationError
		switch {
		case errors.Is(err, errors.ErrBlacklistedSymbol):
			reason = "blacklist"
		case errors.As(err, &verr):
			reason = verr.Field
		}
		metrics.QuotesFiltered.WithLabelValues(reason).Inc()
	}

	s.log.Infow("Filtered invalid quotes from snapshot", "dropped", dropped)
}
