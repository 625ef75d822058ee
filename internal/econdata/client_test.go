package econdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server, *int64) {
	t.Helper()

	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		CacheDir:   t.TempDir(),
		CacheTTL:   time.Hour,
		RatePerSec: 100,
	})
	return c, srv, &hits
}

func TestSeriesObservations(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/series/observations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("series_id") != "UNRATE" {
			t.Errorf("series_id = %q", q.Get("series_id"))
		}
		if q.Get("api_key") != "test-key" {
			t.Errorf("api_key = %q", q.Get("api_key"))
		}
		if q.Get("observation_start") != "2020-01-01" {
			t.Errorf("observation_start = %q", q.Get("observation_start"))
		}
		w.Write([]byte(`{"observations":[{"date":"2020-01-01","value":"3.6"}]}`))
	})

	body, err := c.SeriesObservations(context.Background(), ObservationsRequest{
		SeriesID: "UNRATE",
		Start:    "2020-01-01",
	})
	if err != nil {
		t.Fatalf("SeriesObservations failed: %v", err)
	}
	if !strings.Contains(string(body), "observations") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestSeriesObservationsCached(t *testing.T) {
	c, _, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations":[]}`))
	})

	req := ObservationsRequest{SeriesID: "CPIAUCSL"}
	if _, err := c.SeriesObservations(context.Background(), req); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if _, err := c.SeriesObservations(context.Background(), req); err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if got := atomic.LoadInt64(hits); got != 1 {
		t.Errorf("expected 1 upstream hit, got %d", got)
	}

	// Fresh bypasses the cache.
	req.Fresh = true
	if _, err := c.SeriesObservations(context.Background(), req); err != nil {
		t.Fatalf("fresh call failed: %v", err)
	}
	if got := atomic.LoadInt64(hits); got != 2 {
		t.Errorf("expected 2 upstream hits after fresh, got %d", got)
	}
}

func TestCacheFilesOmitAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations":[]}`))
	}))
	t.Cleanup(srv.Close)

	cacheDir := t.TempDir()
	c := NewClient(Config{
		BaseURL:    srv.URL,
		APIKey:     "super-secret-key",
		CacheDir:   cacheDir,
		CacheTTL:   time.Hour,
		RatePerSec: 100,
	})

	if _, err := c.SeriesObservations(context.Background(), ObservationsRequest{SeriesID: "GDP"}); err != nil {
		t.Fatalf("SeriesObservations failed: %v", err)
	}

	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		t.Fatalf("reading cache dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected a cache file to be written")
	}
	for _, e := range entries {
		b, err := os.ReadFile(filepath.Join(cacheDir, e.Name()))
		if err != nil {
			t.Fatalf("reading cache file: %v", err)
		}
		if strings.Contains(string(b), "super-secret-key") {
			t.Errorf("API key persisted in cache file %s", e.Name())
		}
	}
}

func TestSeriesObservationsMissingKey(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://localhost:1", CacheDir: t.TempDir()})
	_, err := c.SeriesObservations(context.Background(), ObservationsRequest{SeriesID: "GDP"})
	if err != ErrMissingAPIKey {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestSeriesObservationsMissingID(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	if _, err := c.SeriesObservations(context.Background(), ObservationsRequest{}); err == nil {
		t.Error("expected error for empty series_id")
	}
}

func TestSearchSeries(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/series/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("search_text") != "unemployment" {
			t.Errorf("search_text = %q", q.Get("search_text"))
		}
		if q.Get("limit") != "10" {
			t.Errorf("limit = %q, want default 10", q.Get("limit"))
		}
		w.Write([]byte(`{"seriess":[]}`))
	})

	body, err := c.SearchSeries(context.Background(), "unemployment", 0)
	if err != nil {
		t.Fatalf("SearchSeries failed: %v", err)
	}
	if !strings.Contains(string(body), "seriess") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestRateLimiterWait(t *testing.T) {
	rl := NewRateLimiter(2, 10*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Wait %d failed: %v", i, err)
		}
	}

	start := time.Now()
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("Wait after exhaustion failed: %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("expected third acquire to wait for refill")
	}
}

func TestRateLimiterContextCancel(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	ctx := context.Background()
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("first Wait failed: %v", err)
	}

	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := rl.Wait(cctx); err == nil {
		t.Error("expected context error when bucket is empty")
	}
}
