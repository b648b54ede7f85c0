package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/forkcast/forkcast/internal/logger"
)

const redisChannel = "forkcast:changes"

// RedisBus is the multi-instance Bus. Every instance publishes to a shared
// channel and forwards received changes to its local subscribers.
type RedisBus struct {
	log    *logger.Logger
	rdb    *goredis.Client
	cancel context.CancelFunc

	mu   sync.RWMutex
	subs []func(Change)
}

func NewRedisBus(addr string, log *logger.Logger) (*RedisBus, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	forwardCtx, forwardCancel := context.WithCancel(context.Background())
	b := &RedisBus{
		log:    log.With("component", "redis_bus"),
		rdb:    rdb,
		cancel: forwardCancel,
	}

	sub := rdb.Subscribe(forwardCtx, redisChannel)
	// Receive confirms the subscription actually started.
	if _, err := sub.Receive(forwardCtx); err != nil {
		forwardCancel()
		_ = sub.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	go b.forward(forwardCtx, sub)
	return b, nil
}

func (b *RedisBus) forward(ctx context.Context, sub *goredis.PubSub) {
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			_ = sub.Close()
			return
		case m, ok := <-ch:
			if !ok || m == nil {
				_ = sub.Close()
				return
			}
			var change Change
			if err := json.Unmarshal([]byte(m.Payload), &change); err != nil {
				b.log.Warn("bad change payload", "error", err)
				continue
			}
			b.mu.RLock()
			for _, fn := range b.subs {
				fn(change)
			}
			b.mu.RUnlock()
		}
	}
}

func (b *RedisBus) Publish(ctx context.Context, change Change) error {
	raw, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, redisChannel, raw).Err()
}

func (b *RedisBus) Subscribe(fn func(Change)) {
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()
}

func (b *RedisBus) Close() error {
	b.cancel()
	return b.rdb.Close()
}
