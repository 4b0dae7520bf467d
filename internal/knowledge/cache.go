package knowledge

import (
	"context"
	"sync"
	"time"
)

// Cache reutiliza o último Snapshot disponível por até ttl. Snapshots
// indisponíveis nunca são guardados.
type Cache struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	snapshot Snapshot
	expires  time.Time
	valid    bool
}

// NewCache envolve source com um TTL
func NewCache(source Source, ttl time.Duration) *Cache {
	return &Cache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Build retorna o snapshot em cache ou monta um novo
func (c *Cache) Build(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Before(c.expires) {
		return c.snapshot
	}

	snap := c.source.Build(ctx)
	if snap.Available() {
		c.snapshot = snap
		c.expires = c.now().Add(c.ttl)
		c.valid = true
	} else {
		c.valid = false
	}
	return snap
}

// Invalidate descarta o snapshot atual
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// WithCache aplica o cache apenas quando ttl > 0
func WithCache(source Source, ttl time.Duration) Source {
	if ttl <= 0 {
		return source
	}
	return NewCache(source, ttl)
}
