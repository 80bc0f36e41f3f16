// Package elevation implements the external elevation query collaborator
// the grid and planner packages depend on: an HTTP-backed source of
// irregular lon/lat/alt samples, fronted by a quantized cache so repeated
// queries inside the same neighborhood don't hit the network twice.
package elevation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"log/slog"

	"geopath/pkg/cache"
	"geopath/pkg/geodesy"
	"geopath/pkg/logging"
	"geopath/pkg/request"
	"geopath/pkg/tracker"
)

// Config tunes a Client's endpoint, cache precision, and HTTP behavior.
type Config struct {
	BaseURL string

	CacheSize      int
	CacheTTL       time.Duration
	CachePrecision float64 // degrees; default 0.005 (~500m)

	Retries   int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Timeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.CacheSize <= 0 {
		c.CacheSize = 4096
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 300 * time.Second
	}
	if c.CachePrecision <= 0 {
		c.CachePrecision = 0.005
	}
	return c
}

// Client is the planner.Querier implementation backing the planner's grid
// ingestion: it fetches elevation samples around a point from an HTTP
// service, through a shared cache keyed on a quantized coordinate.
type Client struct {
	http    *request.Client
	baseURL string
	cfg     Config
}

// New builds a Client against baseURL, composing a fresh LRU+TTL cache and
// request tracker the way the planner's elevation collaborator does.
func New(baseURL string, cfg Config) *Client {
	cfg = cfg.withDefaults()
	c := cache.New(cfg.CacheSize, cfg.CacheTTL)
	t := tracker.New()
	rc := request.New(c, t, request.ClientConfig{
		Retries:   cfg.Retries,
		BaseDelay: cfg.BaseDelay,
		MaxDelay:  cfg.MaxDelay,
		Timeout:   cfg.Timeout,
	})
	return &Client{http: rc, baseURL: baseURL, cfg: cfg}
}

// sampleDTO mirrors the collaborator's wire format for one elevation sample.
type sampleDTO struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
	Alt float64 `json:"alt"`
}

// Query fetches a size x size neighborhood of elevation samples centered
// roughly on (lon, lat). An empty result is a fatal "no elevation data"
// condition for the caller; Query itself only returns an error for
// transport failures or malformed responses.
func (c *Client) Query(ctx context.Context, lon, lat float64, size int) ([]geodesy.LLA, error) {
	if size <= 0 {
		size = 3
	}

	u := fmt.Sprintf("%s?lon=%f&lat=%f&size=%d", c.baseURL, lon, lat, size)
	key := cache.QuantizeKey(lon, lat, size, c.cfg.CachePrecision)
	logging.Trace(slog.Default(), "elevation query", "lon", lon, "lat", lat, "size", size, "cache_key", key)

	body, err := c.http.Get(ctx, u, key)
	if err != nil {
		return nil, fmt.Errorf("elevation: query (%.6f,%.6f) size %d: %w", lon, lat, size, err)
	}

	var dtos []sampleDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("elevation: decode response for (%.6f,%.6f): %w", lon, lat, err)
	}

	out := make([]geodesy.LLA, len(dtos))
	for i, d := range dtos {
		out[i] = geodesy.LLA{Lon: d.Lon, Lat: d.Lat, Alt: d.Alt}
	}
	return out, nil
}
