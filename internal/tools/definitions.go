// Package tools is the registry of copilot tools. Every tool forwards
// its arguments to the owning provider verbatim and returns the
// provider response unmodified; validate_symphony is the one tool
// answered locally.
package tools

// Tool names as documented to the model.
const (
	GetEconomicSeries    = "get_economic_series"
	SearchEconomicSeries = "search_economic_series"
	GetQuote             = "get_quote"
	GetCandles           = "get_candles"
	ValidateSymphony     = "validate_symphony"
	CreateSymphony       = "create_symphony"
	UpdateSymphony       = "update_symphony"
	GetSymphony          = "get_symphony"
	ListSymphonies       = "list_symphonies"
	BacktestSymphony     = "backtest_symphony"
	DeploySymphony       = "deploy_symphony"
	GetSymbolNews        = "get_symbol_news"
)

// Param describes one tool parameter.
type Param struct {
	Name        string
	Type        string // string, number, boolean, array, object
	Description string
	Required    bool
	Enum        []string // closed value set, string params only
}

// Definition describes one tool for registration with a serving
// surface (MCP, prompt docs).
type Definition struct {
	Name        string
	Description string
	Params      []Param
}

// Definitions returns every tool the copilot exposes, in the order
// they are documented.
func Definitions() []Definition {
	return []Definition{
		{
			Name:        GetEconomicSeries,
			Description: "Fetch observations for an economic data series (e.g. UNRATE, CPIAUCSL, DGS10). Returns the provider payload verbatim.",
			Params: []Param{
				{Name: "series_id", Type: "string", Description: "Provider series identifier", Required: true},
				{Name: "start", Type: "string", Description: "Observation start date, YYYY-MM-DD"},
				{Name: "end", Type: "string", Description: "Observation end date, YYYY-MM-DD"},
				{Name: "units", Type: "string", Description: "Transformation: lin, chg, pch or pc1", Enum: []string{"lin", "chg", "pch", "pc1"}},
				{Name: "fresh", Type: "boolean", Description: "Bypass the local cache"},
			},
		},
		{
			Name:        SearchEconomicSeries,
			Description: "Full-text search over the economic series catalog. Returns the provider payload verbatim.",
			Params: []Param{
				{Name: "query", Type: "string", Description: "Search text", Required: true},
				{Name: "limit", Type: "number", Description: "Maximum results, default 10"},
			},
		},
		{
			Name:        GetQuote,
			Description: "Last-traded-price snapshot for one or more US ticker symbols.",
			Params: []Param{
				{Name: "symbols", Type: "array", Description: "Ticker symbols, e.g. [\"SPY\", \"QQQ\"]", Required: true},
			},
		},
		{
			Name:        GetCandles,
			Description: "OHLCV candles for a symbol over a date range.",
			Params: []Param{
				{Name: "symbol", Type: "string", Description: "Ticker symbol", Required: true},
				{Name: "interval", Type: "string", Description: "Candle interval, default day", Enum: []string{"minute", "5minute", "15minute", "60minute", "day"}},
				{Name: "from", Type: "string", Description: "Range start, YYYY-MM-DD or RFC3339", Required: true},
				{Name: "to", Type: "string", Description: "Range end, YYYY-MM-DD or RFC3339", Required: true},
			},
		},
		{
			Name:        ValidateSymphony,
			Description: "Validate a symphony document against the format rules. Returns structural errors and advisory warnings; answered locally without calling the platform.",
			Params: []Param{
				{Name: "symphony", Type: "object", Description: "Symphony document (JSON object or string)", Required: true},
			},
		},
		{
			Name:        CreateSymphony,
			Description: "Save a new symphony on the platform. The document is validated locally first; validation errors block the save.",
			Params: []Param{
				{Name: "symphony", Type: "object", Description: "Symphony document (JSON object or string)", Required: true},
			},
		},
		{
			Name:        UpdateSymphony,
			Description: "Replace a saved symphony. The document is validated locally first; validation errors block the update.",
			Params: []Param{
				{Name: "id", Type: "string", Description: "Platform symphony id", Required: true},
				{Name: "symphony", Type: "object", Description: "Symphony document (JSON object or string)", Required: true},
			},
		},
		{
			Name:        GetSymphony,
			Description: "Fetch a saved symphony from the platform by id.",
			Params: []Param{
				{Name: "id", Type: "string", Description: "Platform symphony id", Required: true},
			},
		},
		{
			Name:        ListSymphonies,
			Description: "List the account's saved symphonies.",
		},
		{
			Name:        BacktestSymphony,
			Description: "Run a platform backtest over a saved symphony (by id) or an inline symphony document. All performance numbers come from the platform.",
			Params: []Param{
				{Name: "id", Type: "string", Description: "Saved symphony id (omit when passing an inline symphony)"},
				{Name: "symphony", Type: "object", Description: "Inline symphony document (omit when passing an id)"},
				{Name: "start", Type: "string", Description: "Backtest start date, YYYY-MM-DD"},
				{Name: "end", Type: "string", Description: "Backtest end date, YYYY-MM-DD"},
				{Name: "capital", Type: "number", Description: "Starting capital"},
			},
		},
		{
			Name:        DeploySymphony,
			Description: "Allocate capital to a saved symphony. Requires confirm=true; in dry-run mode the deploy is simulated and never reaches the platform.",
			Params: []Param{
				{Name: "id", Type: "string", Description: "Saved symphony id", Required: true},
				{Name: "account_id", Type: "string", Description: "Target brokerage account"},
				{Name: "capital", Type: "number", Description: "Capital to allocate", Required: true},
				{Name: "confirm", Type: "boolean", Description: "Explicit user confirmation, must be true", Required: true},
			},
		},
		{
			Name:        GetSymbolNews,
			Description: "Recent news articles and aggregated sentiment for a ticker symbol.",
			Params: []Param{
				{Name: "symbol", Type: "string", Description: "Ticker symbol", Required: true},
				{Name: "max_articles", Type: "number", Description: "Cap on returned articles"},
			},
		},
	}
}

// Names returns every documented tool name.
func Names() []string {
	defs := Definitions()
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	return names
}
