package symphony

import "github.com/google/uuid"

// Normalize fills in the fields the platform tolerates leaving out:
// missing node ids get a uuid, the root gets a daily rebalance, filters
// default to selecting from the top. The documented examples disagree on
// whether ids are required; the rule here is optional-in, always-out.
func Normalize(n *Node) {
	if n == nil {
		return
	}
	if n.Step == StepRoot && n.Rebalance == "" {
		n.Rebalance = RebalanceDaily
	}
	Walk(n, func(_ string, node *Node) bool {
		if node.ID == "" {
			node.ID = uuid.NewString()
		}
		if node.Step == StepFilter && node.SelectFn == "" {
			node.SelectFn = SelectTop
		}
		if node.Weight != nil && node.Weight.Den == 0 {
			node.Weight.Den = 100
		}
		return true
	})
}
