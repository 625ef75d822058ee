package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"symphony-copilot/internal/econdata"
	"symphony-copilot/internal/interfaces"
	"symphony-copilot/internal/news"
	"symphony-copilot/internal/platform"
	"symphony-copilot/internal/symphony"
)

// Deps are the providers the registry dispatches to.
type Deps struct {
	Econ     *econdata.Client
	Market   interfaces.MarketData
	Platform *platform.Client
	News     *news.Service
}

func (r *Registry) getEconomicSeries(ctx context.Context, args map[string]any) (string, error) {
	seriesID, err := stringArg(args, "series_id", true)
	if err != nil {
		return "", err
	}
	start, _ := stringArg(args, "start", false)
	end, _ := stringArg(args, "end", false)
	units, _ := stringArg(args, "units", false)

	body, err := r.deps.Econ.SeriesObservations(ctx, econdata.ObservationsRequest{
		SeriesID: seriesID,
		Start:    start,
		End:      end,
		Units:    units,
		Fresh:    cast.ToBool(args["fresh"]),
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (r *Registry) searchEconomicSeries(ctx context.Context, args map[string]any) (string, error) {
	query, err := stringArg(args, "query", true)
	if err != nil {
		return "", err
	}

	body, err := r.deps.Econ.SearchSeries(ctx, query, cast.ToInt(args["limit"]))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (r *Registry) getQuote(ctx context.Context, args map[string]any) (string, error) {
	symbols := symbolsArg(args["symbols"])
	if len(symbols) == 0 {
		return "", errors.New("symbols is required")
	}

	quotes, err := r.deps.Market.Quote(ctx, symbols)
	if err != nil {
		return "", err
	}
	return marshalJSON(quotes)
}

func (r *Registry) getCandles(ctx context.Context, args map[string]any) (string, error) {
	symbol, err := stringArg(args, "symbol", true)
	if err != nil {
		return "", err
	}
	interval, _ := stringArg(args, "interval", false)
	if interval == "" {
		interval = "day"
	}

	from, err := dateArg(args, "from")
	if err != nil {
		return "", err
	}
	to, err := dateArg(args, "to")
	if err != nil {
		return "", err
	}

	candles, err := r.deps.Market.Candles(ctx, symbol, interval, from, to)
	if err != nil {
		return "", err
	}
	return marshalJSON(map[string]any{
		"symbol":   symbol,
		"interval": interval,
		"candles":  candles,
	})
}

func (r *Registry) validateSymphony(ctx context.Context, args map[string]any) (string, error) {
	tree, err := symphonyArg(args)
	if err != nil {
		return "", err
	}

	report, err := symphony.Validate(tree)
	if err != nil {
		return "", err
	}
	return marshalJSON(map[string]any{
		"valid":    report.OK(),
		"errors":   report.Errors,
		"warnings": report.Warnings,
	})
}

func (r *Registry) createSymphony(ctx context.Context, args map[string]any) (string, error) {
	doc, err := validatedSymphonyArg(args)
	if err != nil {
		return "", err
	}
	body, err := r.deps.Platform.CreateSymphony(ctx, doc)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (r *Registry) updateSymphony(ctx context.Context, args map[string]any) (string, error) {
	id, err := stringArg(args, "id", true)
	if err != nil {
		return "", err
	}
	doc, err := validatedSymphonyArg(args)
	if err != nil {
		return "", err
	}
	body, err := r.deps.Platform.UpdateSymphony(ctx, id, doc)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (r *Registry) getSymphony(ctx context.Context, args map[string]any) (string, error) {
	id, err := stringArg(args, "id", true)
	if err != nil {
		return "", err
	}
	body, err := r.deps.Platform.GetSymphony(ctx, id)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (r *Registry) listSymphonies(ctx context.Context, args map[string]any) (string, error) {
	body, err := r.deps.Platform.ListSymphonies(ctx)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (r *Registry) backtestSymphony(ctx context.Context, args map[string]any) (string, error) {
	req := platform.BacktestRequest{
		Capital: cast.ToFloat64(args["capital"]),
	}
	req.SymphonyID, _ = stringArg(args, "id", false)
	req.Start, _ = stringArg(args, "start", false)
	req.End, _ = stringArg(args, "end", false)

	if req.SymphonyID == "" {
		doc, err := validatedSymphonyArg(args)
		if err != nil {
			return "", err
		}
		req.Symphony = doc
	}

	body, err := r.deps.Platform.BacktestSymphony(ctx, req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (r *Registry) deploySymphony(ctx context.Context, args map[string]any) (string, error) {
	id, err := stringArg(args, "id", true)
	if err != nil {
		return "", err
	}
	accountID, _ := stringArg(args, "account_id", false)

	body, err := r.deps.Platform.DeploySymphony(ctx, platform.DeployRequest{
		SymphonyID: id,
		AccountID:  accountID,
		Capital:    cast.ToFloat64(args["capital"]),
		Confirm:    cast.ToBool(args["confirm"]),
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (r *Registry) getSymbolNews(ctx context.Context, args map[string]any) (string, error) {
	if r.deps.News == nil {
		return "", errors.New("news lookups are not configured")
	}
	symbol, err := stringArg(args, "symbol", true)
	if err != nil {
		return "", err
	}

	result, err := r.deps.News.SymbolNews(ctx, strings.ToUpper(symbol))
	if err != nil {
		return "", err
	}
	if max := cast.ToInt(args["max_articles"]); max > 0 && len(result.Articles) > max {
		result.Articles = result.Articles[:max]
	}
	return marshalJSON(result)
}

// symbolsArg accepts either an array of symbols or a comma-separated
// string, as documented in the tool notes.
func symbolsArg(raw any) []string {
	if s, ok := raw.(string); ok {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return cast.ToStringSlice(raw)
}

// symphonyArg decodes the "symphony" argument, accepting either a
// JSON object or a JSON string.
func symphonyArg(args map[string]any) (*symphony.Node, error) {
	raw, ok := args["symphony"]
	if !ok || raw == nil {
		return nil, errors.New("symphony is required")
	}

	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("symphony argument is not JSON: %w", err)
		}
		data = b
	}

	return symphony.Decode(data)
}

// validatedSymphonyArg decodes, normalizes and validates the symphony
// argument. Validation errors block the operation; warnings do not.
func validatedSymphonyArg(args map[string]any) (json.RawMessage, error) {
	tree, err := symphonyArg(args)
	if err != nil {
		return nil, err
	}

	symphony.Normalize(tree)

	report, err := symphony.Validate(tree)
	if err != nil {
		return nil, err
	}
	if !report.OK() {
		msgs := make([]string, 0, len(report.Errors))
		for _, issue := range report.Errors {
			msgs = append(msgs, issue.Path+": "+issue.Message)
		}
		return nil, fmt.Errorf("symphony failed validation: %s", strings.Join(msgs, "; "))
	}

	return symphony.Encode(tree)
}

func stringArg(args map[string]any, name string, required bool) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("%s is required", name)
		}
		return "", nil
	}
	s := strings.TrimSpace(cast.ToString(v))
	if s == "" && required {
		return "", fmt.Errorf("%s is required", name)
	}
	return s, nil
}

func dateArg(args map[string]any, name string) (time.Time, error) {
	s, err := stringArg(args, name, true)
	if err != nil {
		return time.Time{}, err
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD or RFC3339: %q", name, s)
	}
	return t, nil
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}
