package analyzer

import (
	"errors"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/ludo-technologies/bcflow/internal/ir"
)

// Validate checks every node of the graph against the structural invariants
// and returns all violations in position order. An empty result means the
// graph is well formed.
func (c *GraphContext) Validate() []*InvariantError {
	var faults []*InvariantError
	collect := func(err error) {
		var inv *InvariantError
		if errors.As(err, &inv) {
			faults = append(faults, inv)
		}
	}

	for _, n := range c.index.Nodes() {
		switch n.Kind {
		case ir.KindBranch:
			t, err := c.TrueTarget(n)
			collect(err)
			f, err := c.FalseTarget(n)
			collect(err)
			if t != nil && t == f {
				faults = append(faults, newInvariantError(n.Position(), InvariantDistinctLegs,
					"both legs target %s", t))
			}
		case ir.KindJump:
			_, err := c.JumpTarget(n)
			collect(err)
		case ir.KindTry:
			_, err := c.FinallyClause(n)
			collect(err)
		case ir.KindSwitch:
			_, err := c.SwitchCases(n)
			collect(err)
		case ir.KindPlain, ir.KindCase, ir.KindCatch, ir.KindFinally:
		}

		if n.Kind != ir.KindBranch {
			for _, e := range c.graph.OutEdges(n.ID) {
				if e.IsCondition() {
					faults = append(faults, newInvariantError(n.Position(), InvariantConditionSource,
						"%s carries a %s leg", n, e.Leg))
					break
				}
			}
		}
	}
	return faults
}

// Reachable returns the nodes reachable from entry, in position order
func (c *GraphContext) Reachable(entry *ir.Node) []*ir.Node {
	if entry == nil || !c.graph.Contains(entry) {
		return nil
	}

	v := &reachVisitor{}
	c.graph.BreadthFirstWalk(entry.ID, v)
	slices.SortFunc(v.nodes, func(a, b *ir.Node) int { return a.Position() - b.Position() })
	return v.nodes
}

// Unreachable returns the nodes that cannot be reached from entry, in
// position order
func (c *GraphContext) Unreachable(entry *ir.Node) []*ir.Node {
	reached := roaring.New()
	for _, n := range c.Reachable(entry) {
		reached.Add(uint32(n.ID))
	}

	var nodes []*ir.Node
	for _, n := range c.index.Nodes() {
		if !reached.Contains(uint32(n.ID)) {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// BackEdges returns every edge currently classified as a back edge,
// ordered by source position
func (c *GraphContext) BackEdges() []*ir.Edge {
	var edges []*ir.Edge
	for _, n := range c.index.Nodes() {
		for _, e := range c.graph.OutEdges(n.ID) {
			if e.Kind == ir.EdgeBack {
				edges = append(edges, e)
			}
		}
	}
	return edges
}

type reachVisitor struct {
	nodes []*ir.Node
}

func (v *reachVisitor) VisitNode(n *ir.Node) bool {
	v.nodes = append(v.nodes, n)
	return true
}

func (v *reachVisitor) VisitEdge(*ir.Edge) bool { return true }
