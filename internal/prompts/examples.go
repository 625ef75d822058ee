package prompts

// Example is a worked symphony shipped with the prompt pack.
type Example struct {
	Name        string
	Description string
	JSON        string
}

// Examples returns the worked example symphonies. Every example decodes
// and validates cleanly; prompts_test.go enforces it.
func Examples() []Example {
	return []Example{
		{
			Name:        "Sixty-forty",
			Description: "Static 60/40 equity/bond split, monthly rebalance.",
			JSON:        exampleSixtyForty,
		},
		{
			Name:        "RSI risk-off",
			Description: "Rotate into short-term treasuries when SPY looks overbought.",
			JSON:        exampleRSIRiskOff,
		},
		{
			Name:        "Sector momentum",
			Description: "Hold the two sector ETFs with the best trailing 60-day return.",
			JSON:        exampleSectorMomentum,
		},
	}
}

const exampleSixtyForty = `{
  "step": "root",
  "name": "Sixty-forty",
  "rebalance": "monthly",
  "children": [
    {
      "step": "wt-cash-specified",
      "children": [
        {"step": "asset", "ticker": "VTI", "exchange": "ARCX", "weight": {"num": 30, "den": 100}},
        {"step": "asset", "ticker": "VXUS", "exchange": "XNAS", "weight": {"num": 30, "den": 100}},
        {"step": "asset", "ticker": "BND", "exchange": "XNAS", "weight": {"num": 40, "den": 100}}
      ]
    }
  ]
}`

const exampleRSIRiskOff = `{
  "step": "root",
  "name": "RSI risk-off",
  "rebalance": "daily",
  "children": [
    {
      "step": "if",
      "children": [
        {
          "step": "if-child",
          "lhs-fn": "relative-strength-index",
          "lhs-val": "SPY",
          "lhs-window-days": 14,
          "comparator": "gt",
          "rhs-fixed": true,
          "rhs-val": "70",
          "children": [
            {
              "step": "wt-cash-equal",
              "children": [
                {"step": "asset", "ticker": "BIL", "exchange": "ARCX"},
                {"step": "asset", "ticker": "SHY", "exchange": "XNAS"},
                {"step": "asset", "ticker": "GLD", "exchange": "ARCX"}
              ]
            }
          ]
        },
        {
          "step": "if-child",
          "is-else-condition": true,
          "children": [
            {
              "step": "wt-cash-equal",
              "children": [
                {"step": "asset", "ticker": "SPY", "exchange": "ARCX"},
                {"step": "asset", "ticker": "QQQ", "exchange": "XNAS"},
                {"step": "asset", "ticker": "IWM", "exchange": "ARCX"}
              ]
            }
          ]
        }
      ]
    }
  ]
}`

const exampleSectorMomentum = `{
  "step": "root",
  "name": "Sector momentum",
  "rebalance": "weekly",
  "children": [
    {
      "step": "filter",
      "sort-by-fn": "cumulative-return",
      "sort-by-window-days": 60,
      "select-fn": "top",
      "select-n": 2,
      "children": [
        {"step": "asset", "ticker": "XLK", "exchange": "ARCX"},
        {"step": "asset", "ticker": "XLE", "exchange": "ARCX"},
        {"step": "asset", "ticker": "XLF", "exchange": "ARCX"},
        {"step": "asset", "ticker": "XLV", "exchange": "ARCX"},
        {"step": "asset", "ticker": "XLI", "exchange": "ARCX"},
        {"step": "asset", "ticker": "XLP", "exchange": "ARCX"}
      ]
    }
  ]
}`
