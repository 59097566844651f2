package client

import (
	"context"
	stderrors "errors"
)

// ErrInvalidArgument is returned before any request is sent when a call's
// arguments cannot produce a valid request.
var ErrInvalidArgument = stderrors.New("qsim: invalid argument")

// CacheStats is the GET /cache/stats response.  Message is set when the
// server runs without a cache.
type CacheStats struct {
	Entries          int64  `json:"entries"`
	StorageSizeBytes int64  `json:"storage_size_bytes"`
	Message          string `json:"message,omitempty"`
}

// CacheClearResult is the DELETE /cache/clear response.
type CacheClearResult struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	DeletedCount *int64 `json:"deleted_count,omitempty"`
}

// Health is the GET /health response.
type Health struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	RendererLoaded bool   `json:"renderer_loaded"`
	MLModelLoaded  bool   `json:"ml_model_loaded"`
	CacheConnected bool   `json:"cache_connected"`
	CacheBackend   string `json:"cache_backend"`
}

// CacheStats fetches the result cache counters.
func (c *Client) CacheStats(ctx context.Context) (*CacheStats, error) {
	var out CacheStats
	if err := c.get(ctx, "/cache/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearCache removes every cached simulation result.
func (c *Client) ClearCache(ctx context.Context) (*CacheClearResult, error) {
	var out CacheClearResult
	if err := c.delete(ctx, "/cache/clear", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health fetches the service health summary.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.get(ctx, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
