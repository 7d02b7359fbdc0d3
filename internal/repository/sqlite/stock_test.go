package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/domain/stock"
	"stockwatch/internal/testsupport"
	"stockwatch/pkg/errors"
)

func TestStockRepository_UpsertAndGet(t *testing.T) {
	testDB := testsupport.NewTestDB(t)
	repo := NewStockRepository(testDB.DB())
	ctx := context.Background()

	now := time.Now()
	rows := []stock.Stock{
		{Symbol: "AAPL", Name: "AAPL", Price: "175.25", Change: "+2.34", ChangePercent: "+1.35%", Volume: "45.2M", LastUpdated: now.UnixMilli()},
		{Symbol: "INTC", Name: "INTC", Price: "52.30", Change: "-1.20", ChangePercent: "-2.24%", Volume: "78.9M", LastUpdated: now.UnixMilli()},
	}

	err := repo.Upsert(ctx, rows)
	require.NoError(t, err)

	got, err := repo.GetBySymbol(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "175.25", got.Price)
	assert.False(t, got.InWatchlist)

	// Lowercase lookup resolves the same row
	got, err = repo.GetBySymbol(ctx, "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Symbol)

	_, err = repo.GetBySymbol(ctx, "MISSING")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestStockRepository_UpsertPreservesWatchlistFlag(t *testing.T) {
	testDB := testsupport.NewTestDB(t)
	repo := NewStockRepository(testDB.DB())
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Upsert(ctx, []stock.Stock{stock.Placeholder("TSLA", now)}))
	require.NoError(t, repo.SetWatchlistFlag(ctx, "TSLA", true))

	// A later snapshot write must not clear the flag
	require.NoError(t, repo.Upsert(ctx, []stock.Stock{
		{Symbol: "TSLA", Name: "TSLA", Price: "245.45", Change: "+6.15", ChangePercent: "+2.57%", Volume: "55.8M", LastUpdated: now.Add(time.Minute).UnixMilli()},
	}))

	got, err := repo.GetBySymbol(ctx, "TSLA")
	require.NoError(t, err)
	assert.True(t, got.InWatchlist)
	assert.Equal(t, "245.45", got.Price)
}

func TestStockRepository_DeleteStale(t *testing.T) {
	testDB := testsupport.NewTestDB(t)
	repo := NewStockRepository(testDB.DB())
	wlRepo := NewWatchlistRepository(testDB.DB())
	ctx := context.Background()

	now := time.Now()
	old := now.Add(-25 * time.Hour)

	require.NoError(t, repo.Upsert(ctx, []stock.Stock{
		{Symbol: "FRESH", Name: "FRESH", LastUpdated: now.UnixMilli()},
		{Symbol: "STALE", Name: "STALE", LastUpdated: old.UnixMilli()},
		{Symbol: "KEPT", Name: "KEPT", LastUpdated: old.UnixMilli()},
	}))

	// KEPT is watchlisted and must survive the sweep even though stale
	id, err := wlRepo.Create(ctx, "Long Term")
	require.NoError(t, err)
	require.NoError(t, wlRepo.AddMember(ctx, id, "KEPT"))

	cutoff := now.Add(-24 * time.Hour).UnixMilli()
	deleted, err := repo.DeleteStale(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.GetBySymbol(ctx, "STALE")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = repo.GetBySymbol(ctx, "FRESH")
	assert.NoError(t, err)

	_, err = repo.GetBySymbol(ctx, "KEPT")
	assert.NoError(t, err)
}

func TestStockRepository_LastUpdate(t *testing.T) {
	testDB := testsupport.NewTestDB(t)
	repo := NewStockRepository(testDB.DB())
	ctx := context.Background()

	last, err := repo.LastUpdate(ctx)
	require.NoError(t, err)
	assert.Zero(t, last)

	earlier := time.Now().Add(-time.Hour).UnixMilli()
	later := time.Now().UnixMilli()
	require.NoError(t, repo.Upsert(ctx, []stock.Stock{
		{Symbol: "A", Name: "A", LastUpdated: earlier},
		{Symbol: "B", Name: "B", LastUpdated: later},
	}))

	last, err = repo.LastUpdate(ctx)
	require.NoError(t, err)
	assert.Equal(t, later, last)
}

func TestStockRepository_GetAllOrder(t *testing.T) {
	testDB := testsupport.NewTestDB(t)
	repo := NewStockRepository(testDB.DB())
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, repo.Upsert(ctx, []stock.Stock{
		{Symbol: "OLD", Name: "OLD", LastUpdated: base.Add(-time.Hour).UnixMilli()},
		{Symbol: "NEW", Name: "NEW", LastUpdated: base.UnixMilli()},
	}))

	rows, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "NEW", rows[0].Symbol)
	assert.Equal(t, "OLD", rows[1].Symbol)
}
