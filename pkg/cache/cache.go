// Package cache provides the shared TTL cache for elevation samples returned
// by the query collaborator, keyed on a quantized geographic coordinate.
package cache

import (
	"context"
	"fmt"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// Cacher defines the caching interface used by the elevation query client.
type Cacher interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
}

// LRUCache implements Cacher with an in-memory, size-bounded, TTL-expiring store.
type LRUCache struct {
	lru *lru.LRU[string, []byte]
}

// New creates an LRUCache holding at most size entries, each expiring ttl
// after it was last written.
func New(size int, ttl time.Duration) *LRUCache {
	return &LRUCache{lru: lru.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool) {
	return c.lru.Get(key)
}

func (c *LRUCache) Set(_ context.Context, key string, val []byte) {
	c.lru.Add(key, val)
}

// QuantizeKey rounds lon/lat/size to a cache key at the given precision
// (degrees), so nearby queries inside the same grid cell share a cache entry.
func QuantizeKey(lon, lat float64, size int, precision float64) string {
	if precision <= 0 {
		precision = 0.005
	}
	qLon := math.Round(lon/precision) * precision
	qLat := math.Round(lat/precision) * precision
	return fmt.Sprintf("%.6f,%.6f,%d", qLon, qLat, size)
}
