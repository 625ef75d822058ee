package interfaces

import (
	"context"
	"time"

	"symphony-copilot/internal/types"
)

// MarketData serves quotes and historical candles.
type MarketData interface {
	Quote(ctx context.Context, symbols []string) ([]types.Quote, error)
	Candles(ctx context.Context, symbol, interval string, from, to time.Time) ([]types.Candle, error)
}
