package marketdata

import (
	"context"
	"testing"
	"time"
)

func TestStaticQuote(t *testing.T) {
	s := NewStatic()
	quotes, err := s.Quote(context.Background(), []string{"SPY", "QQQ", "TLT"})
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("got %d quotes, want 3", len(quotes))
	}
	for _, q := range quotes {
		if q.Price <= 0 {
			t.Errorf("%s price = %f, want > 0", q.Symbol, q.Price)
		}
	}
}

func TestStaticCandlesDeterministic(t *testing.T) {
	s := NewStatic()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 30)

	a, err := s.Candles(context.Background(), "SPY", "day", from, to)
	if err != nil {
		t.Fatalf("Candles failed: %v", err)
	}
	b, err := s.Candles(context.Background(), "SPY", "day", from, to)
	if err != nil {
		t.Fatalf("Candles failed: %v", err)
	}

	if len(a) != 30 {
		t.Errorf("got %d candles, want 30", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("candle %d differs between identical requests", i)
		}
	}
}

func TestStaticCandlesOHLCSane(t *testing.T) {
	s := NewStatic()
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cs, err := s.Candles(context.Background(), "QQQ", "60minute", from, from.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("Candles failed: %v", err)
	}
	if len(cs) != 48 {
		t.Errorf("got %d candles, want 48", len(cs))
	}
	for i, c := range cs {
		if c.High < c.Open || c.High < c.Close {
			t.Errorf("candle %d: high %f below open/close", i, c.High)
		}
		if c.Low > c.Open || c.Low > c.Close {
			t.Errorf("candle %d: low %f above open/close", i, c.Low)
		}
		if i > 0 && c.Ts <= cs[i-1].Ts {
			t.Errorf("candle %d: timestamps not increasing", i)
		}
	}
}

func TestStaticCandlesSwappedRange(t *testing.T) {
	s := NewStatic()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 5)

	cs, err := s.Candles(context.Background(), "IWM", "day", to, from)
	if err != nil {
		t.Fatalf("Candles failed: %v", err)
	}
	if len(cs) != 5 {
		t.Errorf("got %d candles, want 5", len(cs))
	}
}

func TestNewSelectsStatic(t *testing.T) {
	md := New(Params{DataSource: "STATIC"})
	if _, ok := md.(*Static); !ok {
		t.Errorf("expected Static provider, got %T", md)
	}

	// LIVE without an API key still serves static data.
	md = New(Params{DataSource: "LIVE"})
	if _, ok := md.(*Static); !ok {
		t.Errorf("expected Static fallback without API key, got %T", md)
	}
}
