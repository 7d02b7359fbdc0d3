package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/adapters/alphavantage"
	"stockwatch/internal/adapters/config"
	"stockwatch/internal/domain/stock"
	"stockwatch/internal/events"
	sqliterepo "stockwatch/internal/repository/sqlite"
	"stockwatch/internal/testsupport"
	"stockwatch/pkg/errors"
)

const moversPayload = `{
	"last_updated": "2026-08-28 16:15:59 US/Eastern",
	"top_gainers": [
		{"ticker": "AAPL", "price": "175.25", "change_amount": "2.34", "change_percentage": "1.35%", "volume": "45200000"},
		{"ticker": "TEST", "price": "10.00", "change_amount": "1.00", "change_percentage": "10.00%", "volume": "1000"}
	],
	"top_losers": [
		{"ticker": "INTC", "price": "52.30", "change_amount": "-1.20", "change_percentage": "-2.24%", "volume": "78900000"}
	],
	"most_actively_traded": [
		{"ticker": "SPY", "price": "420.50", "change_amount": "1.25", "change_percentage": "0.30%", "volume": "125600000"}
	]
}`

type serviceFixture struct {
	service *Service
	stocks  stock.Repository
	calls   *atomic.Int64
}

func newFixture(t *testing.T, handler http.HandlerFunc, hasAPIKey bool) *serviceFixture {
	t.Helper()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := alphavantage.NewClient(config.AlphaVantageConfig{
		APIKey:            "demo",
		BaseURL:           server.URL,
		Timeout:           2 * time.Second,
		RequestsPerMinute: 600,
	})

	testDB := testsupport.NewTestDB(t)
	stocks := sqliterepo.NewStockRepository(testDB.DB())

	service := NewService(client, stocks, NewMemorySnapshotCache(), events.NewBus(), hasAPIKey)

	return &serviceFixture{service: service, stocks: stocks, calls: &calls}
}

func serveJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestGetMovers_NoAPIKeyServesDemo(t *testing.T) {
	f := newFixture(t, serveJSON(moversPayload), false)

	snapshot, err := f.service.GetMovers(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, demoLabel, snapshot.LastUpdated)
	assert.True(t, snapshot.Contains("AAPL"))
	assert.Equal(t, int64(0), f.calls.Load(), "upstream must not be called without a key")
}

func TestGetMovers_FetchesFiltersAndPersists(t *testing.T) {
	f := newFixture(t, serveJSON(moversPayload), true)
	ctx := context.Background()

	snapshot, err := f.service.GetMovers(ctx, false)
	require.NoError(t, err)

	// the TEST placeholder must not survive the filter
	require.Len(t, snapshot.TopGainers, 1)
	assert.Equal(t, "AAPL", snapshot.TopGainers[0].Ticker)
	assert.True(t, snapshot.Contains("SPY"))

	// surviving quotes are written through to the store
	row, err := f.stocks.GetBySymbol(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "175.25", row.Price)

	_, err = f.stocks.GetBySymbol(ctx, "TEST")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestGetMovers_SecondCallServedFromCache(t *testing.T) {
	f := newFixture(t, serveJSON(moversPayload), true)
	ctx := context.Background()

	_, err := f.service.GetMovers(ctx, false)
	require.NoError(t, err)
	_, err = f.service.GetMovers(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, int64(1), f.calls.Load(), "fresh snapshot must be served from cache")
}

func TestGetMovers_ForceRefreshBypassesCache(t *testing.T) {
	f := newFixture(t, serveJSON(moversPayload), true)
	ctx := context.Background()

	_, err := f.service.GetMovers(ctx, false)
	require.NoError(t, err)
	_, err = f.service.GetMovers(ctx, true)
	require.NoError(t, err)

	assert.Equal(t, int64(2), f.calls.Load())
}

func TestGetMovers_TransportErrorFallsBackToStore(t *testing.T) {
	f := newFixture(t, serveJSON(moversPayload), true)
	ctx := context.Background()

	require.NoError(t, f.stocks.Upsert(ctx, []stock.Stock{
		{Symbol: "NVDA", Name: "NVDA", Price: "420.75", Change: "+8.90", ChangePercent: "+2.16%", Volume: "41200000", LastUpdated: time.Now().UnixMilli()},
		{Symbol: "INTC", Name: "INTC", Price: "52.30", Change: "-1.20", ChangePercent: "-2.24%", Volume: "78900000", LastUpdated: time.Now().UnixMilli()},
	}))

	// an unreachable upstream must degrade to the stored rows
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := alphavantage.NewClient(config.AlphaVantageConfig{
		APIKey:            "demo",
		BaseURL:           server.URL,
		Timeout:           time.Second,
		RequestsPerMinute: 600,
	})
	service := NewService(client, f.stocks, NewMemorySnapshotCache(), events.NewBus(), true)

	snapshot, err := service.GetMovers(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, rebuiltLabel, snapshot.LastUpdated)
	assert.True(t, snapshot.Contains("NVDA"))
	require.Len(t, snapshot.TopGainers, 1)
	require.Len(t, snapshot.TopLosers, 1)
	assert.Equal(t, "INTC", snapshot.TopLosers[0].Ticker)
}

func TestGetMovers_SoftFailurePersistsDemoWhenStoreEmpty(t *testing.T) {
	f := newFixture(t, serveJSON(`{"Information": "rate limit reached"}`), true)
	ctx := context.Background()

	snapshot, err := f.service.GetMovers(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, demoLabel, snapshot.LastUpdated)

	// the demo rows were written through
	row, err := f.stocks.GetBySymbol(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "175.25", row.Price)
}

func TestGetMovers_EmptyPayloadFallsBack(t *testing.T) {
	f := newFixture(t, serveJSON(`{"top_gainers": [], "top_losers": [], "most_actively_traded": []}`), true)

	snapshot, err := f.service.GetMovers(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, demoLabel, snapshot.LastUpdated)
}

func TestGetCompanyOverview_RemoteSuccess(t *testing.T) {
	f := newFixture(t, serveJSON(`{"Symbol": "IBM", "Name": "International Business Machines", "Sector": "Technology"}`), true)

	overview, err := f.service.GetCompanyOverview(context.Background(), "ibm")
	require.NoError(t, err)
	assert.Equal(t, "International Business Machines", overview.Name)
}

func TestGetCompanyOverview_FallsBackToStaticTable(t *testing.T) {
	f := newFixture(t, serveJSON(`{}`), true)

	overview, err := f.service.GetCompanyOverview(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", overview.Name)
	assert.Equal(t, "Consumer Electronics", overview.Industry)
}

func TestGetCompanyOverview_UnknownSymbol(t *testing.T) {
	f := newFixture(t, serveJSON(`{}`), true)

	_, err := f.service.GetCompanyOverview(context.Background(), "ZZZZ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Contains(t, err.Error(), "company data not found for ZZZZ")
}

func TestSweepStale_RemovesOnlyUnwatchedOldRows(t *testing.T) {
	f := newFixture(t, serveJSON(moversPayload), true)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour).UnixMilli()
	require.NoError(t, f.stocks.Upsert(ctx, []stock.Stock{
		{Symbol: "OLD", Name: "OLD", Price: "1.00", Volume: "100", LastUpdated: old},
		{Symbol: "NEW", Name: "NEW", Price: "2.00", Volume: "200", LastUpdated: time.Now().UnixMilli()},
	}))

	deleted, err := f.service.SweepStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = f.stocks.GetBySymbol(ctx, "OLD")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	_, err = f.stocks.GetBySymbol(ctx, "NEW")
	assert.NoError(t, err)
}

func TestWatchStock_EmitsOnMutation(t *testing.T) {
	f := newFixture(t, serveJSON(moversPayload), true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, f.stocks.Upsert(ctx, []stock.Stock{
		{Symbol: "AAPL", Name: "AAPL", Price: "175.25", Volume: "100", LastUpdated: time.Now().UnixMilli()},
	}))

	updates := f.service.WatchStock(ctx, "AAPL")

	first := <-updates
	require.NotNil(t, first)
	assert.Equal(t, "175.25", first.Price)
	assert.False(t, first.InWatchlist)

	require.NoError(t, f.service.UpdateWatchlistStatus(ctx, "AAPL", true))

	select {
	case second := <-updates:
		require.NotNil(t, second)
		assert.True(t, second.InWatchlist)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a re-emission after the flag change")
	}
}

func TestWatchStock_AbsentRowEmitsNil(t *testing.T) {
	f := newFixture(t, serveJSON(moversPayload), true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := f.service.WatchStock(ctx, "GHOST")

	first := <-updates
	assert.Nil(t, first)
}
