package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishReachesSubscribers(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := bus.Subscribe(ctx, TopicWatchlists)
	second := bus.Subscribe(ctx, TopicWatchlists)

	bus.Publish(TopicWatchlists)

	for _, ch := range []<-chan struct{}{first, second} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive signal")
		}
	}
}

func TestBus_TopicsAreIndependent(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stocks := bus.Subscribe(ctx, TopicStocks)

	bus.Publish(TopicWatchlists)

	select {
	case <-stocks:
		t.Fatal("signal leaked across topics")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_SignalsCoalesce(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := bus.Subscribe(ctx, TopicStocks)

	// Publishing without draining never blocks
	for i := 0; i < 10; i++ {
		bus.Publish(TopicStocks)
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected at least one coalesced signal")
	}
}

func TestBus_UnsubscribeOnContextCancel(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())

	ch := bus.Subscribe(ctx, TopicStocks)
	cancel()

	// Removal is asynchronous
	require.Eventually(t, func() bool {
		bus.mu.RLock()
		defer bus.mu.RUnlock()
		return len(bus.subs[TopicStocks]) == 0
	}, time.Second, 10*time.Millisecond)

	bus.Publish(TopicStocks)
	select {
	case _, ok := <-ch:
		// A buffered signal from before removal may still be pending
		assert.True(t, ok)
	default:
	}
}
