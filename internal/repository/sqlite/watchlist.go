package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"stockwatch/internal/domain/stock"
	"stockwatch/internal/domain/watchlist"
	"stockwatch/pkg/errors"
)

// Compile-time check
var _ watchlist.Repository = (*WatchlistRepository)(nil)

// WatchlistRepository implements watchlist.Repository using sqlx
type WatchlistRepository struct {
	db DBTX
}

// NewWatchlistRepository creates a new watchlist repository
func NewWatchlistRepository(db DBTX) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Create inserts a watchlist and returns its generated id
func (r *WatchlistRepository) Create(ctx context.Context, name string) (int64, error) {
	query := `INSERT INTO watchlists (name, stock_count) VALUES (?, 0)`

	result, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return 0, errors.Wrap(err, "insert watchlist")
	}

	return result.LastInsertId()
}

// GetByID retrieves one watchlist
func (r *WatchlistRepository) GetByID(ctx context.Context, id int64) (*watchlist.Watchlist, error) {
	var row watchlist.Watchlist

	query := `SELECT * FROM watchlists WHERE id = ?`

	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &row, nil
}

// GetAll retrieves every watchlist ordered by id
func (r *WatchlistRepository) GetAll(ctx context.Context) ([]watchlist.Watchlist, error) {
	var rows []watchlist.Watchlist

	query := `SELECT * FROM watchlists ORDER BY id ASC`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	return rows, nil
}

// Delete removes a watchlist; the FK cascade removes its membership rows
func (r *WatchlistRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM watchlists WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.ErrNotFound
	}

	return nil
}

// AddMember inserts a membership row; a duplicate pair is absorbed by
// the uniqueness constraint and treated as success
func (r *WatchlistRepository) AddMember(ctx context.Context, watchlistID int64, symbol string) error {
	query := `INSERT OR IGNORE INTO watchlist_stocks (watchlist_id, stock_symbol) VALUES (?, ?)`

	_, err := r.db.ExecContext(ctx, query, watchlistID, strings.ToUpper(symbol))
	return err
}

// RemoveMember deletes a membership row; removing a non-member is a no-op
func (r *WatchlistRepository) RemoveMember(ctx context.Context, watchlistID int64, symbol string) error {
	query := `DELETE FROM watchlist_stocks WHERE watchlist_id = ? AND stock_symbol = ?`

	_, err := r.db.ExecContext(ctx, query, watchlistID, strings.ToUpper(symbol))
	return err
}

// HasMember reports whether the pair exists
func (r *WatchlistRepository) HasMember(ctx context.Context, watchlistID int64, symbol string) (bool, error) {
	var exists bool

	query := `
		SELECT EXISTS(
			SELECT 1 FROM watchlist_stocks
			WHERE watchlist_id = ? AND stock_symbol = ?
		)`

	err := r.db.GetContext(ctx, &exists, query, watchlistID, strings.ToUpper(symbol))
	return exists, err
}

// IsInAny reports whether any watchlist contains the symbol
func (r *WatchlistRepository) IsInAny(ctx context.Context, symbol string) (bool, error) {
	var exists bool

	query := `
		SELECT EXISTS(
			SELECT 1 FROM watchlist_stocks WHERE stock_symbol = ?
		)`

	err := r.db.GetContext(ctx, &exists, query, strings.ToUpper(symbol))
	return exists, err
}

// Containing returns the watchlists that contain the symbol
func (r *WatchlistRepository) Containing(ctx context.Context, symbol string) ([]watchlist.Watchlist, error) {
	var rows []watchlist.Watchlist

	query := `
		SELECT w.* FROM watchlists w
		JOIN watchlist_stocks ws ON ws.watchlist_id = w.id
		WHERE ws.stock_symbol = ?
		ORDER BY w.id ASC`

	if err := r.db.SelectContext(ctx, &rows, query, strings.ToUpper(symbol)); err != nil {
		return nil, err
	}

	return rows, nil
}

// StocksIn returns the stock rows of a watchlist's members. Members
// whose stock row was never created are skipped by the join.
func (r *WatchlistRepository) StocksIn(ctx context.Context, watchlistID int64) ([]stock.Stock, error) {
	var rows []stock.Stock

	query := `
		SELECT s.* FROM stocks s
		JOIN watchlist_stocks ws ON ws.stock_symbol = s.symbol
		WHERE ws.watchlist_id = ?
		ORDER BY s.symbol ASC`

	if err := r.db.SelectContext(ctx, &rows, query, watchlistID); err != nil {
		return nil, err
	}

	return rows, nil
}

// RefreshStockCount recomputes stock_count from a fresh membership
// count rather than incrementing, so repeated or out-of-order mutations
// cannot drift the counter
func (r *WatchlistRepository) RefreshStockCount(ctx context.Context, watchlistID int64) error {
	query := `
		UPDATE watchlists SET stock_count = (
			SELECT COUNT(*) FROM watchlist_stocks WHERE watchlist_id = ?
		)
		WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, watchlistID, watchlistID)
	return err
}

// OrphanedSymbols returns symbols flagged as watchlisted without a
// backing membership row
func (r *WatchlistRepository) OrphanedSymbols(ctx context.Context) ([]string, error) {
	var symbols []string

	query := `
		SELECT symbol FROM stocks
		WHERE in_watchlist = 1
		  AND symbol NOT IN (SELECT stock_symbol FROM watchlist_stocks)`

	if err := r.db.SelectContext(ctx, &symbols, query); err != nil {
		return nil, err
	}

	return symbols, nil
}
