package events

import (
	"context"
	"sync"
)

// Topics for in-process change notification. Live views re-query and
// re-emit their result set whenever their topic fires.
const (
	TopicStocks     = "stocks"
	TopicWatchlists = "watchlists"
)

// Bus is a minimal in-process publish/subscribe fan-out. Signals carry
// no payload; a subscriber re-reads current state on every tick.
// Pending signals coalesce, so a burst of mutations wakes a subscriber
// at least once but not necessarily once per mutation.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[int]chan struct{}
	next int
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]map[int]chan struct{}),
	}
}

// Subscribe registers for a topic. The returned channel fires after any
// publish on that topic and is removed when ctx is done.
func (b *Bus) Subscribe(ctx context.Context, topic string) <-chan struct{} {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan struct{})
	}
	id := b.next
	b.next++
	b.subs[topic][id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs[topic], id)
		b.mu.Unlock()
	}()

	return ch
}

// Publish wakes every subscriber of the topic without blocking: a
// subscriber with a signal already pending is skipped.
func (b *Bus) Publish(topic string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
