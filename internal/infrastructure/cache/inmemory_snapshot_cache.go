package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	catalogapp "github.com/touchline/backend/internal/application/catalog"
)

// InMemorySnapshotCache keeps the public catalog in process memory. Entries
// are stored as JSON so callers never share the cached value.
type InMemorySnapshotCache struct {
	mu        sync.RWMutex
	data      []byte
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewInMemorySnapshotCache creates an empty cache. A non-positive ttl uses the default.
func NewInMemorySnapshotCache(ttl time.Duration) *InMemorySnapshotCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &InMemorySnapshotCache{ttl: ttl, now: time.Now}
}

// Get returns the cached catalog unless it has expired
func (c *InMemorySnapshotCache) Get(_ context.Context) (*catalogapp.PublicCatalog, bool, error) {
	c.mu.RLock()
	data, expiresAt := c.data, c.expiresAt
	c.mu.RUnlock()

	if data == nil || c.now().After(expiresAt) {
		return nil, false, nil
	}
	var snapshot catalogapp.PublicCatalog
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}
	return &snapshot, true, nil
}

// Set stores the catalog for the cache TTL
func (c *InMemorySnapshotCache) Set(_ context.Context, snapshot *catalogapp.PublicCatalog) error {
	if snapshot == nil {
		return nil
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

// Invalidate drops the cached catalog
func (c *InMemorySnapshotCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	return nil
}

// Ensure InMemorySnapshotCache implements catalogapp.SnapshotCache
var _ catalogapp.SnapshotCache = (*InMemorySnapshotCache)(nil)
