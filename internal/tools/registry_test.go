package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"symphony-copilot/internal/econdata"
	"symphony-copilot/internal/marketdata"
	"symphony-copilot/internal/news"
	"symphony-copilot/internal/platform"
)

const validSymphony = `{
  "step": "root",
  "name": "Equal Weight Pair",
  "rebalance": "daily",
  "children": [
    {
      "step": "wt-cash-equal",
      "children": [
        {"step": "asset", "ticker": "SPY", "name": "SPDR S&P 500"},
        {"step": "asset", "ticker": "TLT", "name": "iShares 20+ Year Treasury"}
      ]
    }
  ]
}`

func newTestRegistry(t *testing.T, handler http.HandlerFunc) *Registry {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewRegistry(Deps{
		Econ: econdata.NewClient(econdata.Config{
			BaseURL:    srv.URL,
			APIKey:     "test-key",
			CacheDir:   t.TempDir(),
			CacheTTL:   time.Hour,
			RatePerSec: 100,
		}),
		Market:   marketdata.NewStatic(),
		Platform: platform.NewClient(platform.Config{BaseURL: srv.URL, DryRun: true}),
	})
}

func TestInvokeUnknownTool(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {})

	_, err := r.Invoke(context.Background(), "place_order", nil)
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("expected ErrUnknownTool, got %v", err)
	}
}

func TestInvokeGetQuote(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {})

	res, err := r.Invoke(context.Background(), GetQuote, map[string]any{
		"symbols": []any{"SPY", "QQQ"},
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", res.Content)
	}

	var quotes []map[string]any
	if err := json.Unmarshal([]byte(res.Content), &quotes); err != nil {
		t.Fatalf("result not JSON: %v", err)
	}
	if len(quotes) != 2 {
		t.Errorf("got %d quotes, want 2", len(quotes))
	}
}

func TestInvokeGetQuoteCommaSeparated(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {})

	res, err := r.Invoke(context.Background(), GetQuote, map[string]any{
		"symbols": "SPY, QQQ",
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", res.Content)
	}

	var quotes []map[string]any
	if err := json.Unmarshal([]byte(res.Content), &quotes); err != nil {
		t.Fatalf("result not JSON: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(quotes))
	}
	if quotes[0]["symbol"] != "SPY" || quotes[1]["symbol"] != "QQQ" {
		t.Errorf("symbols not split on commas: %v %v", quotes[0]["symbol"], quotes[1]["symbol"])
	}
}

func TestInvokeGetQuoteMissingSymbols(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {})

	res, err := r.Invoke(context.Background(), GetQuote, map[string]any{})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for missing symbols")
	}
}

func TestInvokeGetCandles(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {})

	res, err := r.Invoke(context.Background(), GetCandles, map[string]any{
		"symbol": "SPY",
		"from":   "2024-01-01",
		"to":     "2024-01-31",
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", res.Content)
	}

	var payload struct {
		Symbol   string           `json:"symbol"`
		Interval string           `json:"interval"`
		Candles  []map[string]any `json:"candles"`
	}
	if err := json.Unmarshal([]byte(res.Content), &payload); err != nil {
		t.Fatalf("result not JSON: %v", err)
	}
	if payload.Interval != "day" {
		t.Errorf("interval = %s, want day default", payload.Interval)
	}
	if len(payload.Candles) == 0 {
		t.Error("expected candles in result")
	}
}

func TestInvokeGetCandlesBadDate(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {})

	res, err := r.Invoke(context.Background(), GetCandles, map[string]any{
		"symbol": "SPY",
		"from":   "January 1st",
		"to":     "2024-01-31",
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for unparseable date")
	}
}

func TestInvokeGetEconomicSeries(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/series/observations" {
			t.Errorf("unexpected path %s", req.URL.Path)
		}
		w.Write([]byte(`{"observations":[{"date":"2024-01-01","value":"3.7"}]}`))
	})

	res, err := r.Invoke(context.Background(), GetEconomicSeries, map[string]any{
		"series_id": "UNRATE",
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	// Provider payload must come back verbatim.
	if !strings.Contains(res.Content, `"value":"3.7"`) {
		t.Errorf("unexpected content: %s", res.Content)
	}
}

func TestInvokeValidateSymphony(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {
		t.Error("validate_symphony must not call any provider")
	})

	res, err := r.Invoke(context.Background(), ValidateSymphony, map[string]any{
		"symphony": validSymphony,
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	var report struct {
		Valid    bool             `json:"valid"`
		Errors   []map[string]any `json:"errors"`
		Warnings []map[string]any `json:"warnings"`
	}
	if err := json.Unmarshal([]byte(res.Content), &report); err != nil {
		t.Fatalf("report not JSON: %v", err)
	}
	if !report.Valid {
		t.Errorf("expected valid symphony, errors: %v", report.Errors)
	}
}

func TestInvokeValidateSymphonyNullChild(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {})

	res, err := r.Invoke(context.Background(), ValidateSymphony, map[string]any{
		"symphony": `{"step": "root", "children": [null]}`,
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for a null child node")
	}
	if !strings.Contains(res.Content, "null") {
		t.Errorf("expected the result to name the null node, got: %s", res.Content)
	}
}

func TestInvokeValidateSymphonyObjectArg(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {})

	var doc map[string]any
	if err := json.Unmarshal([]byte(validSymphony), &doc); err != nil {
		t.Fatal(err)
	}

	res, err := r.Invoke(context.Background(), ValidateSymphony, map[string]any{
		"symphony": doc,
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", res.Content)
	}
}

func TestInvokeCreateBlockedByValidation(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {
		t.Error("create_symphony must not reach the platform when validation fails")
	})

	broken := `{"step": "root", "name": "Broken", "children": [{"step": "asset"}]}`
	res, err := r.Invoke(context.Background(), CreateSymphony, map[string]any{
		"symphony": broken,
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for invalid symphony")
	}
	if !strings.Contains(res.Content, "failed validation") {
		t.Errorf("unexpected content: %s", res.Content)
	}
}

func TestInvokeCreateSymphony(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/api/v1/symphonies" {
			t.Errorf("unexpected path %s", req.URL.Path)
		}
		w.Write([]byte(`{"id":"sym-1"}`))
	})

	res, err := r.Invoke(context.Background(), CreateSymphony, map[string]any{
		"symphony": validSymphony,
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", res.Content)
	}
	if !strings.Contains(res.Content, "sym-1") {
		t.Errorf("unexpected content: %s", res.Content)
	}
}

func TestInvokeDeployWithoutConfirm(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {})

	res, err := r.Invoke(context.Background(), DeploySymphony, map[string]any{
		"id":      "sym-1",
		"capital": 1000,
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result without confirmation")
	}
	if !strings.Contains(res.Content, "confirmation") {
		t.Errorf("unexpected content: %s", res.Content)
	}
}

func TestInvokeDeployDryRun(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {
		t.Error("dry-run deploy must not reach the platform")
	})

	res, err := r.Invoke(context.Background(), DeploySymphony, map[string]any{
		"id":      "sym-1",
		"capital": 1000,
		"confirm": true,
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", res.Content)
	}
	if !strings.Contains(res.Content, "SIMULATED") {
		t.Errorf("unexpected content: %s", res.Content)
	}
}

func TestInvokeNewsNotConfigured(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {})

	res, err := r.Invoke(context.Background(), GetSymbolNews, map[string]any{
		"symbol": "SPY",
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result when news is not configured")
	}
}

func TestInvokeNewsDisabledNeutral(t *testing.T) {
	r := NewRegistry(Deps{
		Market: marketdata.NewStatic(),
		News:   news.NewService(nil, &news.ServiceConfig{Enabled: false}),
	})

	res, err := r.Invoke(context.Background(), GetSymbolNews, map[string]any{
		"symbol": "SPY",
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("disabled news should answer neutrally, got error: %s", res.Content)
	}
	if !strings.Contains(res.Content, "NEUTRAL") {
		t.Errorf("expected neutral sentiment, got: %s", res.Content)
	}
}

func TestDefinitionsCoverHandlers(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {})

	defs := Definitions()
	if len(defs) != len(r.handlers) {
		t.Errorf("definitions (%d) and handlers (%d) out of sync", len(defs), len(r.handlers))
	}
	for _, d := range defs {
		if _, ok := r.handlers[d.Name]; !ok {
			t.Errorf("documented tool %s has no handler", d.Name)
		}
	}
}
