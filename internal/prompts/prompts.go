// Package prompts holds the instruction text the copilot ships to its
// model provider and to MCP clients: the system prompt, the symphony
// format guide, per-tool usage notes, and worked example symphonies.
package prompts

// System returns the copilot system prompt.
func System() string {
	return systemPrompt
}

// FormatGuide returns the symphony tree format guide.
func FormatGuide() string {
	return formatGuide
}

// ToolNotes returns the usage notes for a tool, or an empty string when
// the tool has none.
func ToolNotes(name string) string {
	return toolNotes[name]
}

const systemPrompt = `You are a trading strategy copilot. You help retail users design, validate, backtest, and deploy rule-based investment strategies ("symphonies") on an automated trading platform.

## WHAT A SYMPHONY IS

A symphony is a tree of nodes the platform rebalances on a schedule:
- the root sets the name and rebalance cadence
- weighting nodes (wt-cash-equal, wt-cash-specified, wt-inverse-vol) split capital across their children
- logic nodes (if / if-child, filter) route capital by indicator conditions or rankings
- asset leaves hold tickers

Read the symphony format guide resource for the full grammar before emitting any symphony JSON.

## HOW TO WORK

1. UNDERSTAND the user's goal: risk appetite, universe, cadence, hedging ideas. Ask before assuming.
2. RESEARCH with tools. Use get_economic_series / search_economic_series for macro context, get_quote and get_candles for current market state, get_symbol_news for recent coverage.
3. DRAFT the symphony as JSON following the format guide. Express the user's rules exactly; do not invent indicators the grammar lacks.
4. VALIDATE with validate_symphony before anything else. Fix every error. Surface warnings (like concentration flags) to the user instead of silently accepting them.
5. BACKTEST with backtest_symphony and report the platform's numbers as-is. Never estimate or invent backtest results; backtesting happens on the platform, not here.
6. SAVE with create_symphony / update_symphony when the user is happy. Use list_symphonies and get_symphony to find and inspect what is already saved.
7. DEPLOY with deploy_symphony ONLY after the user explicitly confirms the account and capital. Deploys route real money.

## TOOL CALLS

To call a tool, respond with ONLY a JSON object on a single message:
{"tool": "<name>", "args": {...}}
You will receive the tool result and can continue. When you have the final answer for the user, respond with plain text and no tool JSON.

## HARD RULES

- Never fabricate market data, economic data, or backtest results. If a tool fails, say so.
- Never deploy without an explicit user confirmation in this conversation.
- A symphony that fails validate_symphony must not be sent to create_symphony.
- Flag any single asset that can exceed 50% of the portfolio; the platform will reject or warn on such symphonies.
- You design strategies; you do not give personalized financial advice. Frame results as historical behavior, not predictions.`

const formatGuide = `# Symphony format guide

A symphony is a JSON tree. Every node has a "step" and optional
"children". Node "id" is optional on input; the copilot assigns one when
missing. All other fields depend on the step.

## root
Top of the tree, exactly one per symphony.
Fields: "name", "rebalance" (daily | weekly | monthly | quarterly | none).

## Weighting steps
- "wt-cash-equal": children get equal shares.
- "wt-cash-specified": each child carries "weight": {"num": N, "den": D}.
  Sibling weights share one denominator and the numerators sum to it.
- "wt-inverse-vol": children weighted by inverse realized volatility over
  "window-days".

## Logic steps
- "if": children are "if-child" branches, evaluated in order; the first
  matching branch receives all capital. An optional else branch has
  "is-else-condition": true and must be last.
- "if-child": a condition comparing two indicator values:
    "lhs-fn", "lhs-val" (ticker), "lhs-window-days",
    "comparator" (gt | gte | lt | lte | eq),
    and either "rhs-fixed": true with a numeric "rhs-val",
    or "rhs-fn" / "rhs-val" / "rhs-window-days" for a second indicator.
- "filter": ranks children by "sort-by-fn" over "sort-by-window-days",
  keeps "select-n" of them from the "top" or "bottom" ("select-fn"),
  and splits capital equally among the kept children.

## Indicator functions
relative-strength-index, moving-average-price, ema-price,
current-price, cumulative-return, standard-deviation-return,
max-drawdown. All except current-price require a window.

## Leaves
- "asset": "ticker" (required), "exchange", "asset-name". No children.
- "group": a named wrapper around a sub-tree, for readability.

## Validation
The platform rejects trees that break the structural rules above and
flags symphonies where one asset can exceed 50% of the portfolio.
Validate locally with the validate_symphony tool before saving.`

// toolNotes carries per-tool cheat-sheets surfaced in MCP tool
// descriptions and in the copilot prompt on demand.
var toolNotes = map[string]string{
	"get_economic_series": `Fetch observations for one economic data series (e.g. UNRATE, CPIAUCSL, DFF).
Args: series_id (required), start / end as YYYY-MM-DD, units (lin, chg, pch, pc1).
The response is the provider payload, unmodified. Observation values are strings; "." means missing.`,

	"search_economic_series": `Full-text search of the economic series catalog.
Args: query (required), limit (default 10). Use it to find a series id before get_economic_series.`,

	"get_quote": `Last traded prices for one or more symbols.
Args: symbols (comma-separated string or array).`,

	"get_candles": `Historical OHLCV bars.
Args: symbol, interval (minute | 5minute | day), from, to (YYYY-MM-DD).
Keep ranges modest; the provider caps response sizes.`,

	"validate_symphony": `Validate a symphony tree locally before sending it to the platform.
Args: symphony (the JSON tree, as object or string).
Returns a report with "errors" (must be empty before create) and "warnings" (surface to the user).`,

	"create_symphony": `Save a new symphony on the platform.
Args: symphony (the JSON tree). Returns the platform record with its assigned id.
Run validate_symphony first; the platform rejects invalid trees with less helpful messages.`,

	"update_symphony": `Replace an existing symphony.
Args: id (required), symphony (the full replacement tree, not a diff).`,

	"get_symphony":    `Fetch one symphony by id. Args: id.`,
	"list_symphonies": `List the authenticated user's symphonies. No args.`,

	"backtest_symphony": `Run a platform backtest.
Args: id OR symphony (inline tree), start, end (YYYY-MM-DD), capital (default 10000).
Returns the platform's result: equity curve, returns, drawdown, benchmark comparison.
Report those numbers verbatim; do not recompute or extrapolate.`,

	"deploy_symphony": `Deploy a saved symphony to a brokerage account for live rebalancing.
Args: id, account_id, capital, confirm (must be true).
Requires the user's explicit confirmation in the conversation. Deploys move real money.`,

	"get_symbol_news": `Recent news coverage and LLM sentiment for a symbol.
Args: symbol (required), max_articles (default 15). Research aid; not a trade signal.`,
}
