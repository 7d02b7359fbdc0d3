package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/adapters/config"
	"stockwatch/pkg/errors"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.AlphaVantageConfig{
		APIKey:            "demo",
		BaseURL:           serverURL,
		Timeout:           2 * time.Second,
		RequestsPerMinute: 600,
	})
}

func TestClient_GetTopMovers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "TOP_GAINERS_LOSERS", r.URL.Query().Get("function"))
		assert.Equal(t, "demo", r.URL.Query().Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"metadata": "Top gainers, losers, and most actively traded US tickers",
			"last_updated": "2026-08-28 16:15:59 US/Eastern",
			"top_gainers": [{"ticker": "AAPL", "price": "175.25", "change_amount": "2.34", "change_percentage": "1.35%", "volume": "45200000"}],
			"top_losers": [{"ticker": "INTC", "price": "52.30", "change_amount": "-1.20", "change_percentage": "-2.24%", "volume": "78900000"}],
			"most_actively_traded": [{"ticker": "SPY", "price": "420.50", "change_amount": "1.25", "change_percentage": "0.30%", "volume": "125600000"}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	snapshot, err := client.GetTopMovers(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.TopGainers, 1)
	assert.Equal(t, "AAPL", snapshot.TopGainers[0].Ticker)
	require.Len(t, snapshot.TopLosers, 1)
	assert.Equal(t, "-1.20", snapshot.TopLosers[0].ChangeAmount)
	require.Len(t, snapshot.MostActivelyTraded, 1)
	assert.Equal(t, "2026-08-28 16:15:59 US/Eastern", snapshot.LastUpdated)
}

func TestClient_GetTopMovers_SoftFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Information": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetTopMovers(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSoftAPIFailure))
}

func TestClient_GetTopMovers_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetTopMovers(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUpstreamUnavailable))
}

func TestClient_GetTopMovers_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newTestClient(server.URL)

	_, err := client.GetTopMovers(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUpstreamUnavailable))
}

func TestClient_GetCompanyOverview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OVERVIEW", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Symbol": "AAPL",
			"Name": "Apple Inc",
			"Description": "Apple Inc. designs smartphones and personal computers.",
			"Sector": "TECHNOLOGY",
			"Industry": "ELECTRONIC COMPUTERS",
			"MarketCapitalization": "2800000000000",
			"52WeekHigh": "180.50",
			"52WeekLow": "140.25",
			"PERatio": "28.5",
			"DividendYield": "0.0044",
			"EPS": "6.15",
			"BookValue": "24.35"
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	overview, err := client.GetCompanyOverview(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", overview.Name)
	assert.Equal(t, "28.5", overview.PERatio)
}

func TestClient_GetCompanyOverview_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Alpha Vantage returns {} for unknown symbols
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetCompanyOverview(context.Background(), "NOSUCH")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSoftAPIFailure))
}
