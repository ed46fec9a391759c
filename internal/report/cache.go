package report

import (
	"context"
	"strings"
	"sync"
	"time"
)

// windowScope marks keys of plans without a same-day filter.
const windowScope = "window"

// CacheKey identifies one memoized report. From and To are the resolved plan
// dates, so a single-day period rolls over with the calendar. Day is the
// same-day filter target; plans without one share the window scope.
type CacheKey struct {
	Client string
	Period string
	From   string
	To     string
	Day    string
}

func NewCacheKey(client string, plan Plan) CacheKey {
	return CacheKey{
		Client: strings.ToLower(strings.TrimSpace(client)),
		Period: plan.Period.String(),
		From:   plan.From,
		To:     plan.To,
		Day:    plan.TargetDay,
	}
}

func (k CacheKey) parts() []string {
	scope := k.Day
	if scope == "" {
		scope = windowScope
	}
	return []string{k.Client, k.Period, k.From, k.To, scope}
}

func (k CacheKey) String() string {
	return strings.Join(k.parts(), ":")
}

// Cache memoizes built reports until they are invalidated or expire.
type Cache interface {
	Get(ctx context.Context, key CacheKey) (*Report, bool, error)
	Set(ctx context.Context, key CacheKey, rep *Report) error
	Delete(ctx context.Context, key CacheKey) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}

type memoryEntry struct {
	report   *Report
	storedAt time.Time
}

// MemoryCache keeps reports in process. A zero TTL never expires entries.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[CacheKey]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[CacheKey]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key CacheKey) (*Report, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.ttl > 0 && c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false, nil
	}
	return entry.report, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key CacheKey, rep *Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{report: rep, storedAt: c.now()}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key CacheKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *MemoryCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[CacheKey]memoryEntry)
	return nil
}

func (c *MemoryCache) Ping(context.Context) error {
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
