package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/bcflow/internal/ir"
)

// EdgePredicate selects outgoing edges by the edge itself and its target
type EdgePredicate func(e *ir.Edge, target *ir.Node) bool

// OfKind matches edges whose target has the given kind
func OfKind(kind ir.Kind) EdgePredicate {
	return func(_ *ir.Edge, target *ir.Node) bool {
		return target.Kind == kind
	}
}

// OnLeg matches branch legs carrying the given condition value
func OnLeg(condition bool) EdgePredicate {
	leg := ir.LegOf(condition)
	return func(e *ir.Edge, _ *ir.Node) bool {
		return e.Leg == leg
	}
}

// SuccessorsWhere returns the targets of n's outgoing edges that satisfy
// pred, in edge insertion order. A target reached by several matching
// edges is reported once.
func (c *GraphContext) SuccessorsWhere(n *ir.Node, pred EdgePredicate) []*ir.Node {
	var (
		matched []*ir.Node
		seen    = make(map[ir.NodeID]bool)
	)
	for _, e := range c.graph.OutEdges(n.ID) {
		target, ok := c.graph.Node(e.Target)
		if !ok || seen[target.ID] || !pred(e, target) {
			continue
		}
		seen[target.ID] = true
		matched = append(matched, target)
	}
	return matched
}

// matchingEdges returns every outgoing edge of n that satisfies pred
func (c *GraphContext) matchingEdges(n *ir.Node, pred EdgePredicate) []*ir.Edge {
	var matched []*ir.Edge
	for _, e := range c.graph.OutEdges(n.ID) {
		target, ok := c.graph.Node(e.Target)
		if ok && pred(e, target) {
			matched = append(matched, e)
		}
	}
	return matched
}

// requireKind checks that n is a live node of this graph with the given kind
func (c *GraphContext) requireKind(n *ir.Node, kind ir.Kind) error {
	if n == nil {
		return fmt.Errorf("%w: expected %s, got nil", ErrKindMismatch, kind)
	}
	if !c.graph.Contains(n) {
		return fmt.Errorf("%w: %s", ir.ErrNodeNotFound, n)
	}
	if n.Kind != kind {
		return fmt.Errorf("%w: expected %s, got %s", ErrKindMismatch, kind, n)
	}
	return nil
}
