package stock

import (
	"context"
)

// Repository defines persistence operations for stock rows
type Repository interface {
	// Upsert inserts or replaces rows by symbol, preserving the
	// in_watchlist flag of rows that already exist
	Upsert(ctx context.Context, stocks []Stock) error

	// GetBySymbol retrieves one row, errors.ErrNotFound when absent
	GetBySymbol(ctx context.Context, symbol string) (*Stock, error)

	// GetAll retrieves every cached row, most recently updated first
	GetAll(ctx context.Context) ([]Stock, error)

	// SetWatchlistFlag updates the denormalized "in any watchlist" flag
	SetWatchlistFlag(ctx context.Context, symbol string, inWatchlist bool) error

	// DeleteStale removes rows whose last_updated is before cutoff
	// (unix millis) and that no watchlist membership references.
	// Returns the number of rows removed.
	DeleteStale(ctx context.Context, cutoff int64) (int64, error)

	// LastUpdate returns the most recent last_updated across all rows,
	// zero when the table is empty
	LastUpdate(ctx context.Context) (int64, error)
}
