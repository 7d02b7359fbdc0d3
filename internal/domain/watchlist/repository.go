package watchlist

import (
	"context"

	"stockwatch/internal/domain/stock"
)

// Repository defines persistence operations for watchlists and their
// membership rows
type Repository interface {
	// Create inserts a watchlist and returns its generated id
	Create(ctx context.Context, name string) (int64, error)

	// GetByID retrieves one watchlist, errors.ErrNotFound when absent
	GetByID(ctx context.Context, id int64) (*Watchlist, error)

	// GetAll retrieves every watchlist ordered by id
	GetAll(ctx context.Context) ([]Watchlist, error)

	// Delete removes a watchlist; membership rows cascade
	Delete(ctx context.Context, id int64) error

	// AddMember inserts a membership row. Adding an existing pair is a
	// no-op: the composite uniqueness constraint absorbs the duplicate.
	AddMember(ctx context.Context, watchlistID int64, symbol string) error

	// RemoveMember deletes a membership row; removing a non-member is a no-op
	RemoveMember(ctx context.Context, watchlistID int64, symbol string) error

	// HasMember reports whether the pair exists
	HasMember(ctx context.Context, watchlistID int64, symbol string) (bool, error)

	// IsInAny reports whether any watchlist contains the symbol
	IsInAny(ctx context.Context, symbol string) (bool, error)

	// Containing returns the watchlists that contain the symbol
	Containing(ctx context.Context, symbol string) ([]Watchlist, error)

	// StocksIn returns the stock rows of a watchlist's members
	StocksIn(ctx context.Context, watchlistID int64) ([]stock.Stock, error)

	// RefreshStockCount recomputes stock_count from a fresh membership
	// count. Must be the last step of every membership mutation.
	RefreshStockCount(ctx context.Context, watchlistID int64) error

	// OrphanedSymbols returns symbols whose stock row claims watchlist
	// membership while no membership row exists
	OrphanedSymbols(ctx context.Context) ([]string, error)
}
