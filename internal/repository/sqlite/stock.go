package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"stockwatch/internal/domain/stock"
	"stockwatch/pkg/errors"
)

// Compile-time check
var _ stock.Repository = (*StockRepository)(nil)

// StockRepository implements stock.Repository using sqlx
type StockRepository struct {
	db DBTX
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db DBTX) *StockRepository {
	return &StockRepository{db: db}
}

// Upsert inserts or replaces rows by symbol. The in_watchlist flag of
// an existing row survives the update: snapshot writes must not clear
// membership state.
func (r *StockRepository) Upsert(ctx context.Context, stocks []stock.Stock) error {
	query := `
		INSERT INTO stocks (symbol, name, price, change, change_percent, volume, in_watchlist, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol) DO UPDATE SET
			name = excluded.name,
			price = excluded.price,
			change = excluded.change,
			change_percent = excluded.change_percent,
			volume = excluded.volume,
			last_updated = excluded.last_updated`

	for _, s := range stocks {
		_, err := r.db.ExecContext(ctx, query,
			strings.ToUpper(s.Symbol), s.Name, s.Price, s.Change,
			s.ChangePercent, s.Volume, s.InWatchlist, s.LastUpdated,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert stock %s", s.Symbol)
		}
	}

	return nil
}

// GetBySymbol retrieves one stock row
func (r *StockRepository) GetBySymbol(ctx context.Context, symbol string) (*stock.Stock, error) {
	var row stock.Stock

	query := `SELECT * FROM stocks WHERE symbol = ?`

	err := r.db.GetContext(ctx, &row, query, strings.ToUpper(symbol))
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &row, nil
}

// GetAll retrieves every cached stock row, most recently updated first
func (r *StockRepository) GetAll(ctx context.Context) ([]stock.Stock, error) {
	var rows []stock.Stock

	query := `SELECT * FROM stocks ORDER BY last_updated DESC, symbol ASC`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	return rows, nil
}

// SetWatchlistFlag updates the denormalized "in any watchlist" flag
func (r *StockRepository) SetWatchlistFlag(ctx context.Context, symbol string, inWatchlist bool) error {
	query := `UPDATE stocks SET in_watchlist = ? WHERE symbol = ?`

	_, err := r.db.ExecContext(ctx, query, inWatchlist, strings.ToUpper(symbol))
	return err
}

// DeleteStale removes rows last updated before cutoff. Rows referenced
// by a watchlist membership are exempt so a sweep can never orphan a
// member's display data.
func (r *StockRepository) DeleteStale(ctx context.Context, cutoff int64) (int64, error) {
	query := `
		DELETE FROM stocks
		WHERE last_updated < ?
		  AND symbol NOT IN (SELECT stock_symbol FROM watchlist_stocks)`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// LastUpdate returns the most recent last_updated across all rows,
// zero when the table is empty
func (r *StockRepository) LastUpdate(ctx context.Context) (int64, error) {
	var last sql.NullInt64

	query := `SELECT MAX(last_updated) FROM stocks`

	if err := r.db.GetContext(ctx, &last, query); err != nil {
		return 0, err
	}
	if !last.Valid {
		return 0, nil
	}

	return last.Int64, nil
}
