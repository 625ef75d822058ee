package symphony

import (
	"fmt"
	"strconv"
)

// Issue is one validation finding, anchored to a node path.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Report collects validation findings. Errors make the tree unusable;
// warnings mirror checks the platform performs on submission (such as
// single-asset concentration) so a bad symphony is caught before the
// round trip.
type Report struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// OK reports whether the tree has no errors.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

func (r *Report) errorf(path, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(path, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

var validRebalance = map[string]bool{
	RebalanceDaily:     true,
	RebalanceWeekly:    true,
	RebalanceMonthly:   true,
	RebalanceQuarterly: true,
	RebalanceNone:      true,
}

var validComparator = map[string]bool{
	CmpGT: true, CmpGTE: true, CmpLT: true, CmpLTE: true, CmpEQ: true,
}

// fnTakesWindow marks indicator functions that require a lookback window.
var fnTakesWindow = map[string]bool{
	FnRelativeStrengthIndex: true,
	FnMovingAveragePrice:    true,
	FnEMAPrice:              true,
	FnCurrentPrice:          false,
	FnCumulativeReturn:      true,
	FnStdDevReturn:          true,
	FnMaxDrawdown:           true,
}

// concentrationLimit is the single-asset share above which the platform
// flags a symphony.
const concentrationLimit = 0.5

// Validate checks the structural rules of a symphony tree and returns a
// report of errors and warnings. The error return is reserved for a nil
// tree; findings are always delivered through the report.
func Validate(n *Node) (*Report, error) {
	if n == nil {
		return nil, fmt.Errorf("nil symphony")
	}

	r := &Report{Errors: []Issue{}, Warnings: []Issue{}}

	if n.Step != StepRoot {
		r.errorf("root", "top-level step must be '%s', got '%s'", StepRoot, n.Step)
	}
	if n.Rebalance != "" && !validRebalance[n.Rebalance] {
		r.errorf("root", "invalid rebalance '%s'", n.Rebalance)
	}

	ids := map[string]string{}
	Walk(n, func(path string, node *Node) bool {
		if node.ID != "" {
			if prev, dup := ids[node.ID]; dup {
				r.errorf(path, "duplicate node id '%s' (also at %s)", node.ID, prev)
			} else {
				ids[node.ID] = path
			}
		}
		validateNode(r, path, node)
		return true
	})

	checkConcentration(r, n)

	return r, nil
}

func validateNode(r *Report, path string, n *Node) {
	for i, c := range n.Children {
		if c == nil {
			r.errorf(fmt.Sprintf("%s/children[%d]", path, i), "null node")
		}
	}

	switch n.Step {
	case StepRoot:
		if path != "root" {
			r.errorf(path, "step 'root' only allowed at the top of the tree")
		}
		if len(n.Children) == 0 {
			r.errorf(path, "root must have children")
		}

	case StepAsset:
		if n.Ticker == "" {
			r.errorf(path, "asset requires a ticker")
		}
		if len(n.Children) != 0 {
			r.errorf(path, "asset must be a leaf")
		}

	case StepWtCashEqual, StepWtInverseVol, StepGroup:
		if len(n.Children) == 0 {
			r.errorf(path, "'%s' must have children", n.Step)
		}
		if n.Step == StepWtInverseVol && n.WindowDays <= 0 {
			r.errorf(path, "wt-inverse-vol requires window-days > 0")
		}

	case StepWtCashSpecified:
		if len(n.Children) == 0 {
			r.errorf(path, "'%s' must have children", n.Step)
			return
		}
		den := 0
		sum := 0
		for i, c := range n.Children {
			if c == nil {
				continue
			}
			cp := fmt.Sprintf("%s/children[%d]", path, i)
			if c.Weight == nil {
				r.errorf(cp, "children of wt-cash-specified require a weight")
				continue
			}
			if c.Weight.Num < 0 || c.Weight.Den <= 0 {
				r.errorf(cp, "weight must have num >= 0 and den > 0, got %d/%d", c.Weight.Num, c.Weight.Den)
				continue
			}
			if den == 0 {
				den = c.Weight.Den
			} else if c.Weight.Den != den {
				r.errorf(cp, "sibling weights must share a denominator, got %d and %d", den, c.Weight.Den)
				continue
			}
			sum += c.Weight.Num
		}
		if den != 0 && sum != den {
			r.errorf(path, "specified weights must sum to %d, got %d", den, sum)
		}

	case StepIf:
		if len(n.Children) == 0 {
			r.errorf(path, "'if' must have at least one branch")
			return
		}
		for i, c := range n.Children {
			if c == nil {
				continue
			}
			cp := fmt.Sprintf("%s/children[%d]", path, i)
			if c.Step != StepIfChild {
				r.errorf(cp, "children of 'if' must be 'if-child', got '%s'", c.Step)
			}
			if c.IsElse && i != len(n.Children)-1 {
				r.errorf(cp, "else branch must be the last child")
			}
		}

	case StepIfChild:
		if len(n.Children) == 0 {
			r.errorf(path, "'if-child' must have children")
		}
		if n.IsElse {
			return
		}
		validateCondition(r, path, n)

	case StepFilter:
		if n.SelectN < 1 {
			r.errorf(path, "filter requires select-n >= 1")
		}
		if n.SelectFn != "" && n.SelectFn != SelectTop && n.SelectFn != SelectBottom {
			r.errorf(path, "invalid select-fn '%s'", n.SelectFn)
		}
		validateFn(r, path, "sort-by-fn", n.SortByFn, n.SortByWindowDays)
		if n.SelectN >= 1 && len(n.Children) < n.SelectN {
			r.errorf(path, "filter selects %d of %d children", n.SelectN, len(n.Children))
		}
	}
}

func validateCondition(r *Report, path string, n *Node) {
	validateFn(r, path, "lhs-fn", n.LHSFn, n.LHSWindowDays)
	if n.LHSVal == "" {
		r.errorf(path, "condition requires lhs-val")
	}
	if !validComparator[n.Comparator] {
		r.errorf(path, "invalid comparator '%s'", n.Comparator)
	}
	if n.RHSFixed {
		if n.RHSVal == "" {
			r.errorf(path, "fixed-value condition requires rhs-val")
		} else if _, err := strconv.ParseFloat(n.RHSVal, 64); err != nil {
			r.errorf(path, "fixed rhs-val must be numeric, got '%s'", n.RHSVal)
		}
		if n.Comparator == CmpEQ {
			r.warnf(path, "'eq' against a fixed value rarely matches; prefer gte/lte")
		}
	} else {
		validateFn(r, path, "rhs-fn", n.RHSFn, n.RHSWindowDays)
		if n.RHSVal == "" {
			r.errorf(path, "condition requires rhs-val")
		}
	}
}

func validateFn(r *Report, path, field, fn string, window int) {
	if fn == "" {
		r.errorf(path, "condition requires %s", field)
		return
	}
	takesWindow, known := fnTakesWindow[fn]
	if !known {
		r.errorf(path, "unknown indicator fn '%s'", fn)
		return
	}
	if takesWindow && window <= 0 {
		r.errorf(path, "'%s' requires a window > 0", fn)
	}
	if !takesWindow && window > 0 {
		r.warnf(path, "'%s' ignores its window", fn)
	}
}

// checkConcentration computes the worst-case share each asset can
// receive and warns past the platform limit. Conditional branches and
// filter selections are scored at their maximum: an if branch can carry
// the full parent weight, a filter spreads it over the selected N.
func checkConcentration(r *Report, root *Node) {
	maxShare := map[string]float64{}
	assetPath := map[string]string{}
	accumulate(root, "root", 1.0, maxShare, assetPath)

	for ticker, share := range maxShare {
		if share > concentrationLimit {
			r.warnf(assetPath[ticker], "asset %s can reach %.0f%% of the portfolio (limit %.0f%%)",
				ticker, share*100, concentrationLimit*100)
		}
	}
}

func accumulate(n *Node, path string, weight float64, maxShare map[string]float64, assetPath map[string]string) {
	if n == nil {
		return
	}
	switch n.Step {
	case StepAsset:
		if n.Ticker == "" {
			return
		}
		if weight > maxShare[n.Ticker] {
			maxShare[n.Ticker] = weight
			assetPath[n.Ticker] = path
		}

	case StepWtCashSpecified:
		for i, c := range n.Children {
			if c == nil {
				continue
			}
			w := 0.0
			if c.Weight != nil && c.Weight.Den > 0 {
				w = float64(c.Weight.Num) / float64(c.Weight.Den)
			}
			accumulate(c, fmt.Sprintf("%s/children[%d]", path, i), weight*w, maxShare, assetPath)
		}

	case StepIf:
		// Each branch can carry the full weight when it matches.
		for i, c := range n.Children {
			accumulate(c, fmt.Sprintf("%s/children[%d]", path, i), weight, maxShare, assetPath)
		}

	case StepFilter:
		n1 := n.SelectN
		if n1 < 1 {
			n1 = 1
		}
		for i, c := range n.Children {
			accumulate(c, fmt.Sprintf("%s/children[%d]", path, i), weight/float64(n1), maxShare, assetPath)
		}

	default:
		// root, wt-cash-equal, wt-inverse-vol, group, if-child.
		// Inverse-vol weights depend on realized volatility, so it is
		// scored like equal weighting here.
		count := len(n.Children)
		if count == 0 {
			return
		}
		w := weight
		if n.Step == StepWtCashEqual || n.Step == StepWtInverseVol {
			w = weight / float64(count)
		}
		for i, c := range n.Children {
			accumulate(c, fmt.Sprintf("%s/children[%d]", path, i), w, maxShare, assetPath)
		}
	}
}
