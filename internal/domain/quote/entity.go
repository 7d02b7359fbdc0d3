package quote

import "strings"

// Quote is a single ticker's transient market snapshot as delivered by
// the upstream movers endpoint. All numeric fields stay strings until
// validation: the upstream formats prices with "$" prefixes and volumes
// with thousands separators.
type Quote struct {
	Ticker           string `json:"ticker"`
	Price            string `json:"price"`
	ChangeAmount     string `json:"change_amount"`
	ChangePercentage string `json:"change_percentage"`
	Volume           string `json:"volume"`
}

// MoversSnapshot holds the three mover categories produced by a single
// fetch. Immutable once emitted.
type MoversSnapshot struct {
	TopGainers         []Quote `json:"top_gainers"`
	TopLosers          []Quote `json:"top_losers"`
	MostActivelyTraded []Quote `json:"most_actively_traded"`

	// LastUpdated is a free-text freshness label ("Market Open",
	// "Cached Data", ...). Display and classification heuristics only.
	LastUpdated string `json:"last_updated"`
}

// IsEmpty reports whether no category carries a single quote.
func (s *MoversSnapshot) IsEmpty() bool {
	return len(s.TopGainers)+len(s.TopLosers)+len(s.MostActivelyTraded) == 0
}

// All returns the quotes of every category in one slice.
func (s *MoversSnapshot) All() []Quote {
	all := make([]Quote, 0, len(s.TopGainers)+len(s.TopLosers)+len(s.MostActivelyTraded))
	all = append(all, s.TopGainers...)
	all = append(all, s.TopLosers...)
	all = append(all, s.MostActivelyTraded...)
	return all
}

// Contains reports whether any category lists the ticker (case-insensitive).
func (s *MoversSnapshot) Contains(symbol string) bool {
	for _, q := range s.All() {
		if strings.EqualFold(q.Ticker, symbol) {
			return true
		}
	}
	return false
}

// CompanyOverview is the per-symbol fundamentals payload of the
// OVERVIEW function. The upstream reports an informational message in
// place of data when rate limited, hence the extra fields.
type CompanyOverview struct {
	Symbol        string `json:"Symbol"`
	Name          string `json:"Name"`
	Description   string `json:"Description"`
	Sector        string `json:"Sector"`
	Industry      string `json:"Industry"`
	MarketCap     string `json:"MarketCapitalization"`
	High52Week    string `json:"52WeekHigh"`
	Low52Week     string `json:"52WeekLow"`
	PERatio       string `json:"PERatio"`
	DividendYield string `json:"DividendYield"`
	EPS           string `json:"EPS"`
	BookValue     string `json:"BookValue"`
	Information   string `json:"Information,omitempty"`
	Note          string `json:"Note,omitempty"`
}

// IsUsable reports whether the payload carries actual company data
// rather than a soft failure or an empty body.
func (o *CompanyOverview) IsUsable() bool {
	return o != nil && o.Symbol != "" && o.Information == "" && o.Note == ""
}
