package idempotency

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

const Header = "Idempotency-Key"

// Key extracts the idempotency key from a request, empty when absent.
func Key(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(Header))
}

// Cache remembers recently seen keys so a duplicate submission (double click,
// retried request) can be dropped instead of placing a second order.
type Cache struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time

	now func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:  ttl,
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Seen reports whether key was marked within the TTL. It never records the
// key itself: callers Mark only once the guarded operation succeeded, so a
// failed attempt can be retried under the same key. An empty key is never
// deduplicated.
func (c *Cache) Seen(key string) bool {
	if key == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweep()
	_, ok := c.seen[key]
	return ok
}

// Mark records key for the TTL. Empty keys are ignored.
func (c *Cache) Mark(key string) {
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweep()
	c.seen[key] = c.now()
}

func (c *Cache) sweep() {
	now := c.now()
	for k, at := range c.seen {
		if now.Sub(at) > c.ttl {
			delete(c.seen, k)
		}
	}
}
