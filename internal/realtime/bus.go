// Package realtime fans data-change notifications out to connected clients,
// optionally across instances via Redis.
package realtime

import (
	"context"
	"sync"
)

// Change describes a mutation to one of a user's collections. Payloads carry
// no row data; clients refetch what they care about.
type Change struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	UserID string `json:"user_id"`
}

// Bus delivers changes to subscribers. Publish never blocks on slow
// consumers.
type Bus interface {
	Publish(ctx context.Context, change Change) error
	// Subscribe registers a callback for every published change. The
	// callback must not block.
	Subscribe(fn func(Change))
	Close() error
}

// MemoryBus is the single-instance Bus.
type MemoryBus struct {
	mu   sync.RWMutex
	subs []func(Change)
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

func (b *MemoryBus) Publish(ctx context.Context, change Change) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, fn := range b.subs {
		fn(change)
	}
	return nil
}

func (b *MemoryBus) Subscribe(fn func(Change)) {
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()
}

func (b *MemoryBus) Close() error { return nil }
