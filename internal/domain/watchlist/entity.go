package watchlist

import (
	"stockwatch/internal/domain/stock"
)

// Watchlist is a user-named collection of symbols. StockCount is
// denormalized for list views and always recomputed from the membership
// table, never incremented in place.
type Watchlist struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	StockCount int    `db:"stock_count"`
}

// Membership is the join row recording that a symbol belongs to a
// watchlist. Its existence is the sole source of truth for membership.
type Membership struct {
	WatchlistID int64  `db:"watchlist_id"`
	StockSymbol string `db:"stock_symbol"`
}

// WithStocks pairs a watchlist with the full rows of its members.
type WithStocks struct {
	Watchlist
	Stocks []stock.Stock
}
