package cache

import (
	"context"
	"sync"
	"time"
)

type ttlEntry struct {
	value     []byte
	expiresAt time.Time
}

// TTLCache is an in-process BytesCache with per-key expiry. A janitor
// goroutine sweeps expired entries so abandoned keys do not accumulate.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]ttlEntry
	stop    chan struct{}
	once    sync.Once
}

func NewTTLCache(sweepInterval time.Duration) *TTLCache {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	c := &TTLCache{
		entries: make(map[string]ttlEntry),
		stop:    make(chan struct{}),
	}
	go c.janitor(sweepInterval)
	return c
}

func (c *TTLCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *TTLCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = ttlEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *TTLCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *TTLCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *TTLCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for k, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
