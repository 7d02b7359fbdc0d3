package stock

import (
	"strings"
	"time"

	"stockwatch/internal/domain/quote"
)

// Stock is the persisted last-known state of a symbol. Quotes from
// mover snapshots are flattened into this row; a manual watchlist add
// creates a placeholder row where the name is the symbol itself.
type Stock struct {
	Symbol        string `db:"symbol"`
	Name          string `db:"name"`
	Price         string `db:"price"`
	Change        string `db:"change"`
	ChangePercent string `db:"change_percent"`
	Volume        string `db:"volume"`
	InWatchlist   bool   `db:"in_watchlist"`
	LastUpdated   int64  `db:"last_updated"` // unix millis
}

// FromQuote converts an upstream quote into a storable row.
func FromQuote(q quote.Quote, now time.Time) Stock {
	symbol := strings.ToUpper(q.Ticker)
	return Stock{
		Symbol:        symbol,
		Name:          symbol,
		Price:         q.Price,
		Change:        q.ChangeAmount,
		ChangePercent: q.ChangePercentage,
		Volume:        q.Volume,
		LastUpdated:   now.UnixMilli(),
	}
}

// Placeholder builds the minimal row inserted when a symbol is added to
// a watchlist before it was ever seen in a snapshot.
func Placeholder(symbol string, now time.Time) Stock {
	symbol = strings.ToUpper(symbol)
	return Stock{
		Symbol:      symbol,
		Name:        symbol,
		LastUpdated: now.UnixMilli(),
	}
}

// Quote converts the stored row back into the wire shape, used when a
// snapshot is rebuilt from cached rows.
func (s Stock) Quote() quote.Quote {
	return quote.Quote{
		Ticker:           s.Symbol,
		Price:            s.Price,
		ChangeAmount:     s.Change,
		ChangePercentage: s.ChangePercent,
		Volume:           s.Volume,
	}
}

// IsGaining reports whether the last-known change amount is positive.
func (s Stock) IsGaining() bool {
	return !strings.HasPrefix(strings.TrimSpace(s.Change), "-")
}
