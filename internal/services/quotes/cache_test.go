package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/domain/quote"
)

func TestMemorySnapshotCache_Window(t *testing.T) {
	now := time.Now()
	cache := NewMemorySnapshotCache()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache must miss")

	snapshot := &quote.MoversSnapshot{LastUpdated: "2026-08-28 16:15:59 US/Eastern"}
	require.NoError(t, cache.Set(ctx, snapshot))

	// inside the window
	now = now.Add(29 * time.Minute)
	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snapshot.LastUpdated, got.LastUpdated)

	// past the window
	now = now.Add(2 * time.Minute)
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "expired snapshot must miss")
}
