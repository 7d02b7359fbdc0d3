package quotes

import (
	"strings"

	"stockwatch/internal/domain/quote"
)

// demoLabel marks snapshots built from the hand-coded dataset, served
// when no upstream key is configured or every fallback layer is empty.
const demoLabel = "Static Demo Data - Updated Daily"

// rebuiltLabel marks snapshots reassembled from previously stored rows.
const rebuiltLabel = "Cached Data"

func demoSnapshot() *quote.MoversSnapshot {
	return &quote.MoversSnapshot{
		TopGainers: []quote.Quote{
			{Ticker: "AAPL", Price: "175.25", ChangeAmount: "+2.34", ChangePercentage: "+1.35%", Volume: "45.2M"},
			{Ticker: "MSFT", Price: "305.18", ChangeAmount: "+5.67", ChangePercentage: "+1.89%", Volume: "32.1M"},
			{Ticker: "GOOGL", Price: "2750.80", ChangeAmount: "+45.20", ChangePercentage: "+1.67%", Volume: "28.5M"},
			{Ticker: "TSLA", Price: "245.45", ChangeAmount: "+6.15", ChangePercentage: "+2.57%", Volume: "55.8M"},
			{Ticker: "NVDA", Price: "420.75", ChangeAmount: "+8.90", ChangePercentage: "+2.16%", Volume: "41.2M"},
			{Ticker: "META", Price: "385.45", ChangeAmount: "+7.25", ChangePercentage: "+1.91%", Volume: "38.7M"},
			{Ticker: "NFLX", Price: "540.30", ChangeAmount: "+12.70", ChangePercentage: "+2.41%", Volume: "22.4M"},
			{Ticker: "AMD", Price: "136.21", ChangeAmount: "+2.85", ChangePercentage: "+2.13%", Volume: "67.3M"},
		},
		TopLosers: []quote.Quote{
			{Ticker: "INTC", Price: "52.30", ChangeAmount: "-1.20", ChangePercentage: "-2.24%", Volume: "78.9M"},
			{Ticker: "IBM", Price: "140.25", ChangeAmount: "-3.45", ChangePercentage: "-2.40%", Volume: "12.5M"},
			{Ticker: "ORCL", Price: "88.90", ChangeAmount: "-2.10", ChangePercentage: "-2.31%", Volume: "18.7M"},
			{Ticker: "F", Price: "12.45", ChangeAmount: "-0.35", ChangePercentage: "-2.73%", Volume: "95.2M"},
			{Ticker: "GE", Price: "108.75", ChangeAmount: "-2.85", ChangePercentage: "-2.55%", Volume: "25.1M"},
			{Ticker: "XOM", Price: "110.33", ChangeAmount: "-2.37", ChangePercentage: "-2.10%", Volume: "15.8M"},
			{Ticker: "BAC", Price: "35.99", ChangeAmount: "-0.64", ChangePercentage: "-1.75%", Volume: "45.3M"},
			{Ticker: "CVX", Price: "155.20", ChangeAmount: "-2.95", ChangePercentage: "-1.87%", Volume: "18.4M"},
		},
		MostActivelyTraded: []quote.Quote{
			{Ticker: "SPY", Price: "420.50", ChangeAmount: "+1.25", ChangePercentage: "+0.30%", Volume: "125.6M"},
			{Ticker: "QQQ", Price: "350.75", ChangeAmount: "+2.10", ChangePercentage: "+0.60%", Volume: "89.4M"},
			{Ticker: "GME", Price: "18.87", ChangeAmount: "+0.48", ChangePercentage: "+2.62%", Volume: "89.3M"},
			{Ticker: "AMC", Price: "5.48", ChangeAmount: "+0.13", ChangePercentage: "+2.43%", Volume: "87.9M"},
			{Ticker: "PLTR", Price: "17.86", ChangeAmount: "+0.37", ChangePercentage: "+2.11%", Volume: "75.2M"},
			{Ticker: "BB", Price: "5.65", ChangeAmount: "+0.15", ChangePercentage: "+2.73%", Volume: "68.6M"},
			{Ticker: "RIVN", Price: "15.24", ChangeAmount: "+0.28", ChangePercentage: "+1.87%", Volume: "62.4M"},
			{Ticker: "LCID", Price: "10.86", ChangeAmount: "+0.26", ChangePercentage: "+2.45%", Volume: "58.1M"},
		},
		LastUpdated: demoLabel,
	}
}

var staticOverviews = map[string]quote.CompanyOverview{
	"AAPL": {
		Symbol:        "AAPL",
		Name:          "Apple Inc.",
		Description:   "Apple Inc. designs, manufactures, and markets smartphones, personal computers, tablets, wearables, and accessories worldwide.",
		Sector:        "Technology",
		Industry:      "Consumer Electronics",
		MarketCap:     "2800000000000",
		High52Week:    "180.50",
		Low52Week:     "140.25",
		PERatio:       "28.5",
		DividendYield: "0.44",
		EPS:           "6.15",
		BookValue:     "24.35",
	},
	"MSFT": {
		Symbol:        "MSFT",
		Name:          "Microsoft Corp.",
		Description:   "Microsoft Corporation develops, licenses, and supports software, services, devices, and solutions worldwide.",
		Sector:        "Technology",
		Industry:      "Software",
		MarketCap:     "2300000000000",
		High52Week:    "380.75",
		Low52Week:     "290.15",
		PERatio:       "31.2",
		DividendYield: "0.68",
		EPS:           "9.85",
		BookValue:     "45.20",
	},
	"GOOGL": {
		Symbol:        "GOOGL",
		Name:          "Alphabet Inc.",
		Description:   "Alphabet Inc. operates as a holding company that offers a portfolio of Google services and products worldwide.",
		Sector:        "Technology",
		Industry:      "Internet Services",
		MarketCap:     "1700000000000",
		High52Week:    "2900.50",
		Low52Week:     "2100.75",
		PERatio:       "25.8",
		DividendYield: "0.00",
		EPS:           "110.25",
		BookValue:     "280.40",
	},
	"TSLA": {
		Symbol:        "TSLA",
		Name:          "Tesla Inc.",
		Description:   "Tesla, Inc. designs, develops, manufactures, leases, and sells electric vehicles, and energy generation and storage systems.",
		Sector:        "Automotive",
		Industry:      "Electric Vehicles",
		MarketCap:     "780000000000",
		High52Week:    "280.90",
		Low52Week:     "150.25",
		PERatio:       "45.2",
		DividendYield: "0.00",
		EPS:           "5.35",
		BookValue:     "95.80",
	},
	"AMD": {
		Symbol:        "AMD",
		Name:          "Advanced Micro Devices Inc.",
		Description:   "Advanced Micro Devices, Inc. operates as a semiconductor company worldwide.",
		Sector:        "Technology",
		Industry:      "Semiconductors",
		MarketCap:     "220000000000",
		High52Week:    "165.40",
		Low52Week:     "85.20",
		PERatio:       "18.5",
		DividendYield: "0.00",
		EPS:           "7.45",
		BookValue:     "25.60",
	},
	"GME": {
		Symbol:        "GME",
		Name:          "GameStop Corp.",
		Description:   "GameStop Corp. operates as a multichannel video game, consumer electronics, and collectibles retailer.",
		Sector:        "Retail",
		Industry:      "Gaming",
		MarketCap:     "5800000000",
		High52Week:    "45.50",
		Low52Week:     "12.75",
		PERatio:       "N/A",
		DividendYield: "0.00",
		EPS:           "-1.25",
		BookValue:     "18.90",
	},
	"AMC": {
		Symbol:        "AMC",
		Name:          "AMC Entertainment Holdings Inc.",
		Description:   "AMC Entertainment Holdings, Inc. operates as a theatrical exhibition company.",
		Sector:        "Entertainment",
		Industry:      "Movie Theaters",
		MarketCap:     "2800000000",
		High52Week:    "12.50",
		Low52Week:     "2.85",
		PERatio:       "N/A",
		DividendYield: "0.00",
		EPS:           "-2.45",
		BookValue:     "8.75",
	},
}

func staticOverview(symbol string) (*quote.CompanyOverview, bool) {
	overview, ok := staticOverviews[strings.ToUpper(symbol)]
	if !ok {
		return nil, false
	}
	return &overview, true
}
