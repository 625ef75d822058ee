package marketdata

import (
	"context"
	"fmt"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"symphony-copilot/internal/interfaces"
	"symphony-copilot/internal/logger"
	"symphony-copilot/internal/types"
)

// Kite proxies the exchange's REST API. Candles need the exchange's
// numeric instrument token, supplied through configuration per symbol.
type Kite struct {
	kc       *kiteconnect.Client
	exchange string
	tokens   map[string]uint32
	fallback *Static
}

var _ interfaces.MarketData = (*Kite)(nil)

func newKite(p Params) *Kite {
	kc := kiteconnect.New(p.APIKey)
	if p.AccessToken != "" {
		kc.SetAccessToken(p.AccessToken)
	}

	exchange := p.Exchange
	if exchange == "" {
		exchange = "NSE"
	}

	return &Kite{
		kc:       kc,
		exchange: exchange,
		tokens:   p.InstrumentTokens,
		fallback: NewStatic(),
	}
}

func (k *Kite) Quote(ctx context.Context, symbols []string) ([]types.Quote, error) {
	instruments := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		instruments = append(instruments, k.exchange+":"+sym)
	}

	ltp, err := k.kc.GetLTP(instruments...)
	if err != nil {
		return nil, fmt.Errorf("ltp request failed: %w", err)
	}

	now := time.Now().Unix()
	quotes := make([]types.Quote, 0, len(symbols))
	for _, sym := range symbols {
		q, ok := ltp[k.exchange+":"+sym]
		if !ok {
			logger.Warn(ctx, "No LTP for symbol", "symbol", sym)
			continue
		}
		quotes = append(quotes, types.Quote{
			Symbol: sym,
			Price:  q.LastPrice,
			Ts:     now,
		})
	}

	return quotes, nil
}

func (k *Kite) Candles(ctx context.Context, symbol, interval string, from, to time.Time) ([]types.Candle, error) {
	token, ok := k.tokens[symbol]
	if !ok {
		// No token mapping means the exchange can't serve history
		// for this symbol; synthetic data keeps the session usable.
		logger.Warn(ctx, "No instrument token for symbol, serving static candles", "symbol", symbol)
		return k.fallback.Candles(ctx, symbol, interval, from, to)
	}

	if interval == "" {
		interval = "day"
	}

	data, err := k.kc.GetHistoricalData(int(token), interval, from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("historical data request failed: %w", err)
	}

	cs := make([]types.Candle, 0, len(data))
	for _, d := range data {
		cs = append(cs, types.Candle{
			Ts:    d.Date.Unix(),
			Open:  d.Open,
			High:  d.High,
			Low:   d.Low,
			Close: d.Close,
			Vol:   float64(d.Volume),
		})
	}

	return cs, nil
}
