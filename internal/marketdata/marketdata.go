// Package marketdata provides quotes and candles for US tickers.
// The LIVE provider proxies the exchange API; STATIC serves
// deterministic synthetic data for offline sessions and tests.
package marketdata

import (
	"symphony-copilot/internal/interfaces"
)

// Params selects and configures a provider.
type Params struct {
	DataSource       string // STATIC or LIVE
	Exchange         string
	APIKey           string
	AccessToken      string
	InstrumentTokens map[string]uint32
}

// New creates a market data provider for the given params. Anything
// other than LIVE gets the static provider.
func New(p Params) interfaces.MarketData {
	if p.DataSource == "LIVE" && p.APIKey != "" {
		return newKite(p)
	}
	return NewStatic()
}
