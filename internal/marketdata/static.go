package marketdata

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"symphony-copilot/internal/interfaces"
	"symphony-copilot/internal/types"
)

// Static serves synthetic quotes and candles. Prices are seeded from
// the symbol name so repeated calls for the same symbol stay coherent.
type Static struct{}

var _ interfaces.MarketData = (*Static)(nil)

func NewStatic() *Static {
	return &Static{}
}

func symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

func basePrice(symbol string) float64 {
	return 20 + float64(symbolSeed(symbol)%480)
}

func (s *Static) Quote(ctx context.Context, symbols []string) ([]types.Quote, error) {
	now := time.Now().Unix()
	quotes := make([]types.Quote, 0, len(symbols))
	for _, sym := range symbols {
		r := rand.New(rand.NewSource(symbolSeed(sym) + now/300))
		quotes = append(quotes, types.Quote{
			Symbol: sym,
			Price:  basePrice(sym) * (1 + (r.Float64()-0.5)*0.02),
			Ts:     now,
		})
	}
	return quotes, nil
}

func (s *Static) Candles(ctx context.Context, symbol, interval string, from, to time.Time) ([]types.Candle, error) {
	step := intervalStep(interval)
	if to.Before(from) {
		from, to = to, from
	}

	n := int(to.Sub(from) / step)
	if n < 1 {
		n = 1
	}
	if n > 5000 {
		n = 5000
	}

	r := rand.New(rand.NewSource(symbolSeed(symbol)))
	base := basePrice(symbol)

	cs := make([]types.Candle, 0, n)
	price := base
	for i := 0; i < n; i++ {
		ts := from.Add(time.Duration(i) * step)
		drift := (r.Float64() - 0.49) * base * 0.01
		open := price
		close := price + drift
		high := maxf(open, close) + r.Float64()*base*0.005
		low := minf(open, close) - r.Float64()*base*0.005
		cs = append(cs, types.Candle{
			Ts:    ts.Unix(),
			Open:  open,
			High:  high,
			Low:   low,
			Close: close,
			Vol:   r.Float64() * 1e6,
		})
		price = close
	}

	return cs, nil
}

func intervalStep(interval string) time.Duration {
	switch interval {
	case "minute":
		return time.Minute
	case "5minute":
		return 5 * time.Minute
	case "15minute":
		return 15 * time.Minute
	case "60minute", "hour":
		return time.Hour
	default: // day
		return 24 * time.Hour
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
