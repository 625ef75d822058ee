// Package symphony defines the hierarchical strategy tree the trading
// platform executes: a root node with rebalance cadence, weighting and
// logic nodes in the middle, asset leaves at the bottom.
package symphony

import (
	"encoding/json"
	"fmt"
)

// Node step kinds.
const (
	StepRoot            = "root"
	StepWtCashEqual     = "wt-cash-equal"
	StepWtCashSpecified = "wt-cash-specified"
	StepWtInverseVol    = "wt-inverse-vol"
	StepIf              = "if"
	StepIfChild         = "if-child"
	StepFilter          = "filter"
	StepGroup           = "group"
	StepAsset           = "asset"
)

// Rebalance cadences accepted on the root node.
const (
	RebalanceDaily     = "daily"
	RebalanceWeekly    = "weekly"
	RebalanceMonthly   = "monthly"
	RebalanceQuarterly = "quarterly"
	RebalanceNone      = "none"
)

// Indicator functions usable in if-child conditions and filter sorting.
const (
	FnRelativeStrengthIndex = "relative-strength-index"
	FnMovingAveragePrice    = "moving-average-price"
	FnEMAPrice              = "ema-price"
	FnCurrentPrice          = "current-price"
	FnCumulativeReturn      = "cumulative-return"
	FnStdDevReturn          = "standard-deviation-return"
	FnMaxDrawdown           = "max-drawdown"
)

// Comparators for if-child conditions.
const (
	CmpGT  = "gt"
	CmpGTE = "gte"
	CmpLT  = "lt"
	CmpLTE = "lte"
	CmpEQ  = "eq"
)

// Select functions for filter nodes.
const (
	SelectTop    = "top"
	SelectBottom = "bottom"
)

// Weight is a rational weight assigned to a child of a
// wt-cash-specified node.
type Weight struct {
	Num int `json:"num"`
	Den int `json:"den"`
}

// Node is one node of a symphony tree. Which fields are meaningful
// depends on Step; Validate enforces the combinations.
type Node struct {
	ID   string `json:"id,omitempty"`
	Step string `json:"step"`
	Name string `json:"name,omitempty"`

	// root
	Rebalance string `json:"rebalance,omitempty"`

	// child of wt-cash-specified
	Weight *Weight `json:"weight,omitempty"`

	// wt-inverse-vol
	WindowDays int `json:"window-days,omitempty"`

	// asset
	Ticker    string `json:"ticker,omitempty"`
	Exchange  string `json:"exchange,omitempty"`
	AssetName string `json:"asset-name,omitempty"`

	// if-child
	IsElse        bool   `json:"is-else-condition,omitempty"`
	LHSFn         string `json:"lhs-fn,omitempty"`
	LHSVal        string `json:"lhs-val,omitempty"`
	LHSWindowDays int    `json:"lhs-window-days,omitempty"`
	Comparator    string `json:"comparator,omitempty"`
	RHSFixed      bool   `json:"rhs-fixed,omitempty"`
	RHSFn         string `json:"rhs-fn,omitempty"`
	RHSVal        string `json:"rhs-val,omitempty"`
	RHSWindowDays int    `json:"rhs-window-days,omitempty"`

	// filter
	SortByFn         string `json:"sort-by-fn,omitempty"`
	SortByWindowDays int    `json:"sort-by-window-days,omitempty"`
	SelectFn         string `json:"select-fn,omitempty"`
	SelectN          int    `json:"select-n,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

var knownSteps = map[string]bool{
	StepRoot:            true,
	StepWtCashEqual:     true,
	StepWtCashSpecified: true,
	StepWtInverseVol:    true,
	StepIf:              true,
	StepIfChild:         true,
	StepFilter:          true,
	StepGroup:           true,
	StepAsset:           true,
}

// Decode parses a symphony tree from JSON. An unknown step anywhere in
// the tree is a decode error; structural rules are left to Validate.
func Decode(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to parse symphony: %w", err)
	}
	if err := checkSteps(&n, "root"); err != nil {
		return nil, err
	}
	return &n, nil
}

// Encode serializes a symphony tree to indented JSON.
func Encode(n *Node) ([]byte, error) {
	b, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode symphony: %w", err)
	}
	return b, nil
}

func checkSteps(n *Node, path string) error {
	if n == nil {
		return fmt.Errorf("%s: null node", path)
	}
	if n.Step == "" {
		return fmt.Errorf("%s: missing step", path)
	}
	if !knownSteps[n.Step] {
		return fmt.Errorf("%s: unknown step '%s'", path, n.Step)
	}
	for i, c := range n.Children {
		if err := checkSteps(c, fmt.Sprintf("%s/children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits the tree preorder. fn receives each node with its path;
// returning false stops descent into that node's children.
func Walk(n *Node, fn func(path string, n *Node) bool) {
	walk(n, "root", fn)
}

func walk(n *Node, path string, fn func(string, *Node) bool) {
	if n == nil {
		return
	}
	if !fn(path, n) {
		return
	}
	for i, c := range n.Children {
		walk(c, fmt.Sprintf("%s/children[%d]", path, i), fn)
	}
}

// Assets returns the distinct tickers referenced by the tree, in
// first-seen order.
func Assets(n *Node) []string {
	seen := map[string]bool{}
	out := []string{}
	Walk(n, func(_ string, node *Node) bool {
		if node.Step == StepAsset && node.Ticker != "" && !seen[node.Ticker] {
			seen[node.Ticker] = true
			out = append(out, node.Ticker)
		}
		return true
	})
	return out
}
