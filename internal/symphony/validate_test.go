package symphony

import (
	"encoding/json"
	"strings"
	"testing"
)

func mustDecode(t *testing.T, src string) *Node {
	t.Helper()
	n, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return n
}

func hasIssue(issues []Issue, substr string) bool {
	for _, is := range issues {
		if strings.Contains(is.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateCleanTree(t *testing.T) {
	n := mustDecode(t, riskOnOff)

	r, err := Validate(n)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !r.OK() {
		t.Fatalf("Expected no errors, got %v", r.Errors)
	}
	// UVXY can carry the full portfolio when the RSI branch fires.
	if !hasIssue(r.Warnings, "UVXY") {
		t.Errorf("Expected concentration warning for UVXY, got %v", r.Warnings)
	}
}

func TestValidateNullChildren(t *testing.T) {
	n := &Node{Step: StepRoot, Children: []*Node{
		nil,
		{Step: StepWtCashSpecified, Children: []*Node{
			nil,
			{Step: StepAsset, Ticker: "SPY", Weight: &Weight{Num: 100, Den: 100}},
		}},
		{Step: StepIf, Children: []*Node{nil}},
	}}

	r, err := Validate(n)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if r.OK() {
		t.Fatal("Expected errors for null children")
	}
	if !hasIssue(r.Errors, "null node") {
		t.Errorf("Expected null node errors, got %v", r.Errors)
	}
}

func TestValidateReportMarshalsEmptyArrays(t *testing.T) {
	n := mustDecode(t, `{
	  "step": "root",
	  "children": [
	    {
	      "step": "wt-cash-equal",
	      "children": [
	        {"step": "asset", "ticker": "SPY"},
	        {"step": "asset", "ticker": "TLT"},
	        {"step": "asset", "ticker": "GLD"}
	      ]
	    }
	  ]
	}`)

	r, err := Validate(n)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(b), `"errors":[]`) {
		t.Errorf("Expected errors to marshal as an empty array, got %s", b)
	}
	if !strings.Contains(string(b), `"warnings":[]`) {
		t.Errorf("Expected warnings to marshal as an empty array, got %s", b)
	}
}

func TestValidateNonRootTop(t *testing.T) {
	n := &Node{Step: StepWtCashEqual, Children: []*Node{{Step: StepAsset, Ticker: "SPY"}}}

	r, _ := Validate(n)
	if r.OK() {
		t.Fatal("Expected error for non-root top node")
	}
}

func TestValidateInvalidRebalance(t *testing.T) {
	n := &Node{Step: StepRoot, Rebalance: "hourly", Children: []*Node{{Step: StepAsset, Ticker: "SPY"}}}

	r, _ := Validate(n)
	if !hasIssue(r.Errors, "rebalance") {
		t.Errorf("Expected rebalance error, got %v", r.Errors)
	}
}

func TestValidateAssetLeaf(t *testing.T) {
	n := &Node{Step: StepRoot, Children: []*Node{
		{Step: StepAsset, Ticker: "SPY", Children: []*Node{{Step: StepAsset, Ticker: "QQQ"}}},
	}}

	r, _ := Validate(n)
	if !hasIssue(r.Errors, "leaf") {
		t.Errorf("Expected leaf error, got %v", r.Errors)
	}
}

func TestValidateSpecifiedWeightsMustSum(t *testing.T) {
	n := &Node{Step: StepRoot, Children: []*Node{
		{Step: StepWtCashSpecified, Children: []*Node{
			{Step: StepAsset, Ticker: "SPY", Weight: &Weight{Num: 60, Den: 100}},
			{Step: StepAsset, Ticker: "TLT", Weight: &Weight{Num: 30, Den: 100}},
		}},
	}}

	r, _ := Validate(n)
	if !hasIssue(r.Errors, "sum to 100") {
		t.Errorf("Expected weight sum error, got %v", r.Errors)
	}
}

func TestValidateSpecifiedWeightsOK(t *testing.T) {
	n := &Node{Step: StepRoot, Children: []*Node{
		{Step: StepWtCashSpecified, Children: []*Node{
			{Step: StepAsset, Ticker: "SPY", Weight: &Weight{Num: 40, Den: 100}},
			{Step: StepAsset, Ticker: "TLT", Weight: &Weight{Num: 30, Den: 100}},
			{Step: StepAsset, Ticker: "GLD", Weight: &Weight{Num: 30, Den: 100}},
		}},
	}}

	r, _ := Validate(n)
	if !r.OK() {
		t.Fatalf("Expected valid tree, got %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", r.Warnings)
	}
}

func TestValidateMissingWeight(t *testing.T) {
	n := &Node{Step: StepRoot, Children: []*Node{
		{Step: StepWtCashSpecified, Children: []*Node{
			{Step: StepAsset, Ticker: "SPY"},
		}},
	}}

	r, _ := Validate(n)
	if !hasIssue(r.Errors, "require a weight") {
		t.Errorf("Expected missing weight error, got %v", r.Errors)
	}
}

func TestValidateIfChildrenKind(t *testing.T) {
	n := &Node{Step: StepRoot, Children: []*Node{
		{Step: StepIf, Children: []*Node{
			{Step: StepAsset, Ticker: "SPY"},
		}},
	}}

	r, _ := Validate(n)
	if !hasIssue(r.Errors, "if-child") {
		t.Errorf("Expected if-child error, got %v", r.Errors)
	}
}

func TestValidateElseMustBeLast(t *testing.T) {
	cond := &Node{
		Step: StepIfChild, LHSFn: FnCurrentPrice, LHSVal: "SPY",
		Comparator: CmpGT, RHSFixed: true, RHSVal: "400",
		Children: []*Node{{Step: StepAsset, Ticker: "SPY"}},
	}
	els := &Node{Step: StepIfChild, IsElse: true, Children: []*Node{{Step: StepAsset, Ticker: "BIL"}}}

	n := &Node{Step: StepRoot, Children: []*Node{
		{Step: StepIf, Children: []*Node{els, cond}},
	}}

	r, _ := Validate(n)
	if !hasIssue(r.Errors, "else branch") {
		t.Errorf("Expected else position error, got %v", r.Errors)
	}
}

func TestValidateConditionFields(t *testing.T) {
	n := &Node{Step: StepRoot, Children: []*Node{
		{Step: StepIf, Children: []*Node{
			{Step: StepIfChild, LHSFn: "magic-indicator", LHSVal: "SPY",
				Comparator: "near", RHSFixed: true, RHSVal: "abc",
				Children: []*Node{{Step: StepAsset, Ticker: "SPY"}}},
		}},
	}}

	r, _ := Validate(n)
	if !hasIssue(r.Errors, "unknown indicator fn") {
		t.Errorf("Expected unknown fn error, got %v", r.Errors)
	}
	if !hasIssue(r.Errors, "comparator") {
		t.Errorf("Expected comparator error, got %v", r.Errors)
	}
	if !hasIssue(r.Errors, "numeric") {
		t.Errorf("Expected numeric rhs error, got %v", r.Errors)
	}
}

func TestValidateWindowRequired(t *testing.T) {
	n := &Node{Step: StepRoot, Children: []*Node{
		{Step: StepIf, Children: []*Node{
			{Step: StepIfChild, LHSFn: FnRelativeStrengthIndex, LHSVal: "SPY",
				Comparator: CmpGT, RHSFixed: true, RHSVal: "70",
				Children: []*Node{{Step: StepAsset, Ticker: "SPY"}}},
		}},
	}}

	r, _ := Validate(n)
	if !hasIssue(r.Errors, "window") {
		t.Errorf("Expected window error, got %v", r.Errors)
	}
}

func TestValidateFilterSelectN(t *testing.T) {
	n := &Node{Step: StepRoot, Children: []*Node{
		{Step: StepFilter, SortByFn: FnCumulativeReturn, SortByWindowDays: 30, SelectFn: SelectTop, SelectN: 3,
			Children: []*Node{
				{Step: StepAsset, Ticker: "SPY"},
				{Step: StepAsset, Ticker: "QQQ"},
			}},
	}}

	r, _ := Validate(n)
	if !hasIssue(r.Errors, "selects 3 of 2") {
		t.Errorf("Expected select-n error, got %v", r.Errors)
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	n := &Node{Step: StepRoot, ID: "a", Children: []*Node{
		{Step: StepWtCashEqual, ID: "b", Children: []*Node{
			{Step: StepAsset, Ticker: "SPY", ID: "b"},
			{Step: StepAsset, Ticker: "QQQ"},
		}},
	}}

	r, _ := Validate(n)
	if !hasIssue(r.Errors, "duplicate node id") {
		t.Errorf("Expected duplicate id error, got %v", r.Errors)
	}
}

func TestConcentrationWarning(t *testing.T) {
	n := &Node{Step: StepRoot, Children: []*Node{
		{Step: StepWtCashSpecified, Children: []*Node{
			{Step: StepAsset, Ticker: "TQQQ", Weight: &Weight{Num: 80, Den: 100}},
			{Step: StepAsset, Ticker: "BIL", Weight: &Weight{Num: 20, Den: 100}},
		}},
	}}

	r, _ := Validate(n)
	if !r.OK() {
		t.Fatalf("Expected no errors, got %v", r.Errors)
	}
	if !hasIssue(r.Warnings, "TQQQ") {
		t.Errorf("Expected concentration warning for TQQQ, got %v", r.Warnings)
	}
	if hasIssue(r.Warnings, "BIL") {
		t.Errorf("Did not expect warning for BIL, got %v", r.Warnings)
	}
}

func TestConcentrationThroughFilter(t *testing.T) {
	n := &Node{Step: StepRoot, Children: []*Node{
		{Step: StepFilter, SortByFn: FnCumulativeReturn, SortByWindowDays: 60, SelectFn: SelectTop, SelectN: 2,
			Children: []*Node{
				{Step: StepAsset, Ticker: "XLK"},
				{Step: StepAsset, Ticker: "XLE"},
				{Step: StepAsset, Ticker: "XLF"},
				{Step: StepAsset, Ticker: "XLV"},
			}},
	}}

	r, _ := Validate(n)
	if !r.OK() {
		t.Fatalf("Expected no errors, got %v", r.Errors)
	}
	// Each selected sector gets 1/2 of the book, right at the limit but
	// not past it.
	if len(r.Warnings) != 0 {
		t.Errorf("Expected no warnings at exactly 50%%, got %v", r.Warnings)
	}
}
