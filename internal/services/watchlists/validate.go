package watchlists

import (
	"context"
	"regexp"
	"strings"
	"time"

	"stockwatch/pkg/errors"
)

// validationTimeout bounds the movers lookup inside symbol validation
// so an unresponsive upstream cannot stall an add
const validationTimeout = 5 * time.Second

// symbolFormat is looser than the snapshot filter: manual entry allows
// dots (class shares like BRK.B) and longer tickers.
var symbolFormat = regexp.MustCompile(`^[A-Za-z0-9.\-+]{1,10}$`)

// invalidSymbols are inputs rejected outright before any lookup
var invalidSymbols = map[string]struct{}{
	"DARSHI":    {},
	"INVALID":   {},
	"TEST":      {},
	"MOCK":      {},
	"DUMMY":     {},
	"SAMPLE":    {},
	"EXAMPLE":   {},
	"FAKE":      {},
	"NULL":      {},
	"UNDEFINED": {},
	"NONE":      {},
	"ERROR":     {},
	"TEMP":      {},
}

// knownSymbols short-circuits validation for widely traded tickers so
// adds keep working when the upstream is down or rate limited.
var knownSymbols = buildSymbolSet(
	// Technology
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA", "META", "NFLX",
	"AMD", "INTC", "CRM", "ORCL", "IBM", "ADBE", "PYPL", "SQ", "SHOP",
	"UBER", "LYFT", "SNAP", "PINS", "ROKU", "ZM", "DOCU", "OKTA",

	// Finance
	"JPM", "BAC", "WFC", "GS", "MS", "C", "AXP", "V", "MA", "BRK.B",

	// Healthcare
	"JNJ", "PFE", "UNH", "CVS", "ABBV", "MRK", "TMO", "ABT", "MDT",

	// Consumer
	"PG", "KO", "PEP", "WMT", "HD", "NKE", "MCD", "SBUX", "TGT", "COST",

	// Industrial
	"BA", "GE", "CAT", "UPS", "FDX", "RTX", "LMT", "MMM", "HON",

	// Energy
	"XOM", "CVX", "COP", "SLB", "OXY", "VLO", "PSX", "MPC",

	// ETFs
	"SPY", "QQQ", "DIA", "IWM", "VTI", "VOO", "VEA", "VWO", "GLD", "SLV",

	// Automotive
	"F", "GM", "RIVN", "LCID", "NIO", "XPEV", "LI",

	// Entertainment and media
	"DIS", "CMCSA", "T", "VZ", "TMUS", "SPOT",

	// Retail
	"LOW", "TJX", "ROST", "BBY",

	// Meme stocks
	"GME", "AMC", "BB", "NOK", "PLTR", "CLOV", "WISH", "SOFI",
)

func buildSymbolSet(symbols ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[s] = struct{}{}
	}
	return set
}

// ValidateSymbol checks that a manually entered symbol refers to a real
// listing: format, blacklist, the known-symbol table, a time-bounded
// movers lookup, and finally the stored stocks table. A dead upstream
// degrades to the offline sources rather than failing hard.
func (s *Service) ValidateSymbol(ctx context.Context, symbol string) error {
	symbol = strings.TrimSpace(symbol)

	if !symbolFormat.MatchString(symbol) {
		return errors.Wrapf(errors.ErrInvalidSymbol, "symbol %q has an invalid format", symbol)
	}

	upper := strings.ToUpper(symbol)
	if _, ok := invalidSymbols[upper]; ok {
		return errors.Wrapf(errors.ErrBlacklistedSymbol, "symbol %q cannot be added", symbol)
	}

	if _, ok := knownSymbols[upper]; ok {
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.validateTimeout)
	defer cancel()

	snapshot, err := s.movers.GetMovers(lookupCtx, false)
	if err == nil && snapshot.Contains(upper) {
		return nil
	}
	if err != nil {
		s.log.Warnw("Movers lookup during symbol validation failed", "symbol", upper, "error", err)
	}

	if _, err := s.stocks.GetBySymbol(ctx, upper); err == nil {
		return nil
	}

	return errors.Wrapf(errors.ErrSymbolNotFound, "symbol %q not found in any source", symbol)
}
