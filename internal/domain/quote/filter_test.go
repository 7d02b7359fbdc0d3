package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		quote   Quote
		wantErr bool
	}{
		{
			name:    "valid quote",
			quote:   Quote{Ticker: "AAPL", Price: "10.00", Volume: "100"},
			wantErr: false,
		},
		{
			name:    "blacklisted ticker",
			quote:   Quote{Ticker: "TEST", Price: "10.00", Volume: "100"},
			wantErr: true,
		},
		{
			name:    "non-positive price",
			quote:   Quote{Ticker: "AAPL", Price: "0.00", Volume: "100"},
			wantErr: true,
		},
		{
			name:    "negative price",
			quote:   Quote{Ticker: "AAPL", Price: "-1.50", Volume: "100"},
			wantErr: true,
		},
		{
			name:    "unparseable price",
			quote:   Quote{Ticker: "AAPL", Price: "n/a", Volume: "100"},
			wantErr: true,
		},
		{
			name:    "zero volume",
			quote:   Quote{Ticker: "AAPL", Price: "10.00", Volume: "0"},
			wantErr: true,
		},
		{
			name:    "symbol too long",
			quote:   Quote{Ticker: "TOOLONG", Price: "10.00", Volume: "100"},
			wantErr: true,
		},
		{
			name:    "lowercase ticker is uppercased before matching",
			quote:   Quote{Ticker: "aapl", Price: "10.00", Volume: "100"},
			wantErr: false,
		},
		{
			name:    "warrant suffix allowed",
			quote:   Quote{Ticker: "GME+", Price: "3.25", Volume: "12000"},
			wantErr: false,
		},
		{
			name:    "dollar prefix and thousands separators tolerated",
			quote:   Quote{Ticker: "MSFT", Price: "$305.18", Volume: "32,100,000"},
			wantErr: false,
		},
		{
			name:    "empty ticker",
			quote:   Quote{Ticker: "", Price: "10.00", Volume: "100"},
			wantErr: true,
		},
		{
			name:    "whitespace in ticker",
			quote:   Quote{Ticker: "AA PL", Price: "10.00", Volume: "100"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.quote)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_ErrorKinds(t *testing.T) {
	err := Validate(Quote{Ticker: "DUMMY", Price: "10.00", Volume: "100"})
	assert.True(t, errors.Is(err, errors.ErrBlacklistedSymbol))

	err = Validate(Quote{Ticker: "WAY_TOO_LONG", Price: "10.00", Volume: "100"})
	assert.True(t, errors.Is(err, errors.ErrInvalidSymbol))

	err = Validate(Quote{Ticker: "AAPL", Price: "0", Volume: "100"})
	var verr *errors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "price", verr.Field)
}

func TestFilterSnapshot(t *testing.T) {
	snapshot := &MoversSnapshot{
		TopGainers: []Quote{
			{Ticker: "AAPL", Price: "175.25", Volume: "45200000"},
			{Ticker: "TEST", Price: "10.00", Volume: "100"},
		},
		TopLosers: []Quote{
			{Ticker: "INTC", Price: "52.30", Volume: "78900000"},
			{Ticker: "BROKEN", Price: "1.00", Volume: "10"},
		},
		MostActivelyTraded: []Quote{
			{Ticker: "SPY", Price: "420.50", Volume: "125600000"},
			{Ticker: "GME", Price: "0.00", Volume: "100"},
		},
		LastUpdated: "2026-08-28 16:15:59 US/Eastern",
	}

	filtered := FilterSnapshot(snapshot)

	require.Len(t, filtered.TopGainers, 1)
	assert.Equal(t, "AAPL", filtered.TopGainers[0].Ticker)
	require.Len(t, filtered.TopLosers, 1)
	assert.Equal(t, "INTC", filtered.TopLosers[0].Ticker)
	require.Len(t, filtered.MostActivelyTraded, 1)
	assert.Equal(t, "SPY", filtered.MostActivelyTraded[0].Ticker)
	assert.Equal(t, snapshot.LastUpdated, filtered.LastUpdated)

	// Original snapshot is untouched
	assert.Len(t, snapshot.TopGainers, 2)
}

func TestMoversSnapshot_Contains(t *testing.T) {
	s := &MoversSnapshot{
		TopGainers: []Quote{{Ticker: "AAPL"}},
		TopLosers:  []Quote{{Ticker: "INTC"}},
	}

	assert.True(t, s.Contains("aapl"))
	assert.True(t, s.Contains("INTC"))
	assert.False(t, s.Contains("MSFT"))
}

func TestMoversSnapshot_IsEmpty(t *testing.T) {
	assert.True(t, (&MoversSnapshot{}).IsEmpty())
	assert.False(t, (&MoversSnapshot{TopLosers: []Quote{{Ticker: "F"}}}).IsEmpty())
}
