package watchlists

import (
	"context"
	"strings"
	"time"

	"stockwatch/internal/domain/quote"
	"stockwatch/internal/domain/stock"
	"stockwatch/internal/domain/watchlist"
	"stockwatch/internal/events"
	"stockwatch/internal/metrics"
	"stockwatch/pkg/errors"
	"stockwatch/pkg/logger"
)

// MoversLookup is the slice of the quote source that symbol validation
// needs
type MoversLookup interface {
	GetMovers(ctx context.Context, forceRefresh bool) (*quote.MoversSnapshot, error)
}

// Service handles watchlist business logic: CRUD, membership mutations
// with their stock-side bookkeeping, and the live list views.
type Service struct {
	watchlists      watchlist.Repository
	stocks          stock.Repository
	movers          MoversLookup
	bus             *events.Bus
	log             *logger.Logger
	now             func() time.Time
	validateTimeout time.Duration
}

// NewService creates a watchlist service
func NewService(watchlists watchlist.Repository, stocks stock.Repository, movers MoversLookup, bus *events.Bus) *Service {
	return &Service{
		watchlists:      watchlists,
		stocks:          stocks,
		movers:          movers,
		bus:             bus,
		log:             logger.Get().With("service", "watchlists"),
		now:             time.Now,
		validateTimeout: validationTimeout,
	}
}

// ListWatchlists returns every watchlist with its current stock count
func (s *Service) ListWatchlists(ctx context.Context) ([]watchlist.Watchlist, error) {
	return s.watchlists.GetAll(ctx)
}

// GetWatchlist returns one watchlist, errors.ErrNotFound when absent
func (s *Service) GetWatchlist(ctx context.Context, id int64) (*watchlist.Watchlist, error) {
	return s.watchlists.GetByID(ctx, id)
}

// ListWatchlistsWithStocks returns every watchlist together with the
// full rows of its members
func (s *Service) ListWatchlistsWithStocks(ctx context.Context) ([]watchlist.WithStocks, error) {
	lists, err := s.watchlists.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]watchlist.WithStocks, 0, len(lists))
	for _, wl := range lists {
		stocks, err := s.watchlists.StocksIn(ctx, wl.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "load stocks of watchlist %d", wl.ID)
		}
		result = append(result, watchlist.WithStocks{Watchlist: wl, Stocks: stocks})
	}

	return result, nil
}

// GetStocksInWatchlist returns the stock rows of a watchlist's members
func (s *Service) GetStocksInWatchlist(ctx context.Context, id int64) ([]stock.Stock, error) {
	return s.watchlists.StocksIn(ctx, id)
}

// IsStockInAnyWatchlist reports whether any watchlist contains the symbol
func (s *Service) IsStockInAnyWatchlist(ctx context.Context, symbol string) (bool, error) {
	return s.watchlists.IsInAny(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
}

// GetWatchlistsContainingStock returns the watchlists holding the symbol
func (s *Service) GetWatchlistsContainingStock(ctx context.Context, symbol string) ([]watchlist.Watchlist, error) {
	return s.watchlists.Containing(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
}

// CreateWatchlist creates an empty watchlist and returns its id
func (s *Service) CreateWatchlist(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		metrics.WatchlistMutations.WithLabelValues("create", "error").Inc()
		return 0, errors.NewValidationError("name", "must not be empty", name)
	}

	id, err := s.watchlists.Create(ctx, name)
	if err != nil {
		metrics.WatchlistMutations.WithLabelValues("create", "error").Inc()
		return 0, errors.Wrapf(err, "create watchlist %q", name)
	}

	metrics.WatchlistMutations.WithLabelValues("create", "success").Inc()
	s.log.Infow("Created watchlist", "id", id, "name", name)
	s.bus.Publish(events.TopicWatchlists)
	return id, nil
}

// DeleteWatchlist removes a watchlist. Membership rows cascade; symbols
// left with no memberships get their in_watchlist flag cleared.
func (s *Service) DeleteWatchlist(ctx context.Context, id int64) error {
	if err := s.watchlists.Delete(ctx, id); err != nil {
		metrics.WatchlistMutations.WithLabelValues("delete", "error").Inc()
		return errors.Wrapf(err, "delete watchlist %d", id)
	}

	orphans, err := s.watchlists.OrphanedSymbols(ctx)
	if err != nil {
		s.log.Warnw("Failed to list orphaned symbols after delete", "watchlist_id", id, "error", err)
	}
	for _, symbol := range orphans {
		if err := s.stocks.SetWatchlistFlag(ctx, symbol, false); err != nil {
			s.log.Warnw("Failed to clear watchlist flag", "symbol", symbol, "error", err)
		}
	}

	metrics.WatchlistMutations.WithLabelValues("delete", "success").Inc()
	s.log.Infow("Deleted watchlist", "id", id, "orphaned_symbols", len(orphans))
	s.bus.Publish(events.TopicWatchlists)
	s.bus.Publish(events.TopicStocks)
	return nil
}

// AddStockToWatchlist adds a symbol to a watchlist and reports success.
// The stock row is created as a placeholder when the symbol was never
// cached; adding an existing member succeeds without a second row. The
// stock count is recomputed as the final step.
func (s *Service) AddStockToWatchlist(ctx context.Context, id int64, symbol string) bool {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	ok := func() bool {
		if _, err := s.stocks.GetBySymbol(ctx, symbol); err != nil {
			if !errors.Is(err, errors.ErrNotFound) {
				s.log.Errorw("Failed to look up stock row", "symbol", symbol, "error", err)
				return false
			}
			if err := s.stocks.Upsert(ctx, []stock.Stock{stock.Placeholder(symbol, s.now())}); err != nil {
				s.log.Errorw("Failed to insert placeholder stock", "symbol", symbol, "error", err)
				return false
			}
		}

		if err := s.watchlists.AddMember(ctx, id, symbol); err != nil {
			s.log.Errorw("Failed to add watchlist member", "watchlist_id", id, "symbol", symbol, "error", err)
			return false
		}
		if err := s.stocks.SetWatchlistFlag(ctx, symbol, true); err != nil {
			s.log.Errorw("Failed to set watchlist flag", "symbol", symbol, "error", err)
			return false
		}
		if err := s.watchlists.RefreshStockCount(ctx, id); err != nil {
			s.log.Errorw("Failed to refresh stock count", "watchlist_id", id, "error", err)
			return false
		}
		return true
	}()

	if !ok {
		metrics.WatchlistMutations.WithLabelValues("add_stock", "error").Inc()
		return false
	}

	metrics.WatchlistMutations.WithLabelValues("add_stock", "success").Inc()
	s.log.Infow("Added stock to watchlist", "watchlist_id", id, "symbol", symbol)
	s.bus.Publish(events.TopicWatchlists)
	s.bus.Publish(events.TopicStocks)
	return true
}

// RemoveStockFromWatchlist removes a symbol from a watchlist and
// reports success. Removing a non-member is a successful no-op. The
// in_watchlist flag is cleared only when no other watchlist still holds
// the symbol.
func (s *Service) RemoveStockFromWatchlist(ctx context.Context, id int64, symbol string) bool {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	ok := func() bool {
		if err := s.watchlists.RemoveMember(ctx, id, symbol); err != nil {
			s.log.Errorw("Failed to remove watchlist member", "watchlist_id", id, "symbol", symbol, "error", err)
			return false
		}

		inAny, err := s.watchlists.IsInAny(ctx, symbol)
		if err != nil {
			s.log.Errorw("Failed to check remaining memberships", "symbol", symbol, "error", err)
			return false
		}
		if !inAny {
			if err := s.stocks.SetWatchlistFlag(ctx, symbol, false); err != nil {
				s.log.Errorw("Failed to clear watchlist flag", "symbol", symbol, "error", err)
				return false
			}
		}

		if err := s.watchlists.RefreshStockCount(ctx, id); err != nil {
			s.log.Errorw("Failed to refresh stock count", "watchlist_id", id, "error", err)
			return false
		}
		return true
	}()

	if !ok {
		metrics.WatchlistMutations.WithLabelValues("remove_stock", "error").Inc()
		return false
	}

	metrics.WatchlistMutations.WithLabelValues("remove_stock", "success").Inc()
	s.log.Infow("Removed stock from watchlist", "watchlist_id", id, "symbol", symbol)
	s.bus.Publish(events.TopicWatchlists)
	s.bus.Publish(events.TopicStocks)
	return true
}

// WatchWatchlists returns a live view of all watchlists: the current
// state immediately, then a fresh read after every mutation. The
// channel closes when ctx is cancelled.
func (s *Service) WatchWatchlists(ctx context.Context) <-chan []watchlist.Watchlist {
	out := make(chan []watchlist.Watchlist, 1)
	signals := s.bus.Subscribe(ctx, events.TopicWatchlists)

	go func() {
		defer close(out)

		emit := func() bool {
			lists, err := s.watchlists.GetAll(ctx)
			if err != nil {
				s.log.Warnw("Live watchlist read failed", "error", err)
				return true
			}
			select {
			case out <- lists:
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

// WatchWatchlistsWithStocks is WatchWatchlists with member rows
// included. It also re-emits on stocks mutations so price refreshes of
// member rows reach the view.
func (s *Service) WatchWatchlistsWithStocks(ctx context.Context) <-chan []watchlist.WithStocks {
	out := make(chan []watchlist.WithStocks, 1)
	listSignals := s.bus.Subscribe(ctx, events.TopicWatchlists)
	stockSignals := s.bus.Subscribe(ctx, events.TopicStocks)

	go func() {
		defer close(out)

		emit := func() bool {
			lists, err := s.ListWatchlistsWithStocks(ctx)
			if err != nil {
				s.log.Warnw("Live watchlist read failed", "error", err)
				return true
			}
			select {
			case out <- lists:
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
			case <-listSignals:
			case <-stockSignals:
			}
			if !emit() {
				return
			}
		}
	}()

	return out
}
