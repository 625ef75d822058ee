// Package econdata is the client for the economic-data provider
// (FRED-style series API). Responses are returned as raw provider
// payloads; the copilot forwards them without reinterpretation.
package econdata

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"symphony-copilot/internal/api"
	"symphony-copilot/internal/logger"
)

// ErrMissingAPIKey is returned when no provider API key is configured.
var ErrMissingAPIKey = errors.New("economic data API key missing")

// Client calls the economic-data provider with caching and rate
// limiting in front.
type Client struct {
	api     *api.Client
	apiKey  string
	cache   *Cache
	limiter *RateLimiter
}

// Config for the econdata client.
type Config struct {
	BaseURL    string
	APIKey     string
	CacheDir   string
	CacheTTL   time.Duration
	RatePerSec float64
}

// NewClient creates an economic-data client.
func NewClient(cfg Config) *Client {
	rate := cfg.RatePerSec
	if rate <= 0 {
		rate = 2
	}
	refill := time.Duration(float64(time.Second) / rate)

	return &Client{
		api: api.NewClient(
			api.WithBaseURL(cfg.BaseURL),
			api.WithTimeout(20*time.Second),
			api.WithLogging(true),
		),
		apiKey:  cfg.APIKey,
		cache:   NewCache(cfg.CacheDir, cfg.CacheTTL),
		limiter: NewRateLimiter(5, refill),
	}
}

// ObservationsRequest selects a slice of one series.
type ObservationsRequest struct {
	SeriesID string
	Start    string // YYYY-MM-DD, optional
	End      string // YYYY-MM-DD, optional
	Units    string // lin, chg, pch, pc1; optional
	Fresh    bool   // bypass the cache
}

// SeriesObservations fetches observations for one series and returns
// the provider payload verbatim.
func (c *Client) SeriesObservations(ctx context.Context, req ObservationsRequest) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if req.SeriesID == "" {
		return nil, errors.New("series_id is required")
	}

	q := url.Values{}
	q.Set("series_id", req.SeriesID)
	q.Set("file_type", "json")
	if req.Start != "" {
		q.Set("observation_start", req.Start)
	}
	if req.End != "" {
		q.Set("observation_end", req.End)
	}
	if req.Units != "" {
		q.Set("units", req.Units)
	}

	// The cache is keyed on the request without the api key, so the
	// credential never reaches the cache files.
	cacheKey := "/series/observations?" + q.Encode()
	q.Set("api_key", c.apiKey)
	path := "/series/observations?" + q.Encode()
	return c.fetch(ctx, path, cacheKey, req.Fresh)
}

// SearchSeries runs a full-text search over the series catalog and
// returns the provider payload verbatim.
func (c *Client) SearchSeries(ctx context.Context, query string, limit int) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if query == "" {
		return nil, errors.New("query is required")
	}
	if limit <= 0 {
		limit = 10
	}

	q := url.Values{}
	q.Set("search_text", query)
	q.Set("file_type", "json")
	q.Set("limit", strconv.Itoa(limit))

	cacheKey := "/series/search?" + q.Encode()
	q.Set("api_key", c.apiKey)
	path := "/series/search?" + q.Encode()
	return c.fetch(ctx, path, cacheKey, false)
}

func (c *Client) fetch(ctx context.Context, path, cacheKey string, fresh bool) ([]byte, error) {
	if !fresh {
		if data, ok := c.cache.Get(cacheKey); ok {
			logger.Debug(ctx, "Economic data served from cache", "path_len", len(path))
			return data, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.api.GET(ctx, path, api.JSONHeaders())
	if err != nil {
		return nil, fmt.Errorf("economic data request failed: %w", err)
	}

	c.cache.Set(cacheKey, resp.Body)
	return resp.Body, nil
}
