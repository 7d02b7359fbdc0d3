package quote

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"stockwatch/pkg/errors"
)

// symbolPattern is the shape of a tradable ticker. "+" and "-" appear in
// warrant and preferred-share listings.
var symbolPattern = regexp.MustCompile(`^[A-Z0-9+\-]{1,5}$`)

// placeholderSymbols are names the upstream occasionally leaks from its
// own test fixtures.
var placeholderSymbols = map[string]struct{}{
	"INVALID": {},
	"TEST":    {},
	"MOCK":    {},
	"DUMMY":   {},
	"SAMPLE":  {},
	"EXAMPLE": {},
	"FAKE":    {},
}

// Validate checks a single quote against the admission rules: symbol
// shape, placeholder blacklist, strictly positive price and volume.
func Validate(q Quote) error {
	symbol := strings.ToUpper(q.Ticker)

	if _, ok := placeholderSymbols[symbol]; ok {
		return errors.Wrapf(errors.ErrBlacklistedSymbol, "ticker %q", q.Ticker)
	}
	if !symbolPattern.MatchString(symbol) {
		return errors.Wrapf(errors.ErrInvalidSymbol, "ticker %q", q.Ticker)
	}

	price, err := decimal.NewFromString(strings.ReplaceAll(q.Price, "$", ""))
	if err != nil || !price.IsPositive() {
		return errors.NewValidationError("price", "must be a positive decimal", q.Price)
	}

	volume, err := strconv.ParseInt(strings.ReplaceAll(q.Volume, ",", ""), 10, 64)
	if err != nil || volume <= 0 {
		return errors.NewValidationError("volume", "must be a positive integer", q.Volume)
	}

	return nil
}

// FilterSnapshot applies Validate independently to each category and
// returns a snapshot containing only compliant quotes. The freshness
// label passes through untouched.
func FilterSnapshot(s *MoversSnapshot) *MoversSnapshot {
	return &MoversSnapshot{
		TopGainers:         filterQuotes(s.TopGainers),
		TopLosers:          filterQuotes(s.TopLosers),
		MostActivelyTraded: filterQuotes(s.MostActivelyTraded),
		LastUpdated:        s.LastUpdated,
	}
}

func filterQuotes(quotes []Quote) []Quote {
	kept := make([]Quote, 0, len(quotes))
	for _, q := range quotes {
		if Validate(q) == nil {
			kept = append(kept, q)
		}
	}
	return kept
}
