package analyzer

import (
	"github.com/ludo-technologies/bcflow/internal/ir"
)

// ClassifyEdge marks e as a back edge when its target lies at an earlier
// bytecode position than its source, and as normal otherwise. Exception
// edges are left untouched. The condition leg of the edge is preserved.
//
// Positions never change, so repeated calls always give the same answer.
// Edges whose endpoints are not in g are left untouched.
func ClassifyEdge(g *ir.Graph, e *ir.Edge) ir.EdgeKind {
	if e.Kind == ir.EdgeException {
		return e.Kind
	}

	source, ok := g.Node(e.Source)
	if !ok {
		return e.Kind
	}
	target, ok := g.Node(e.Target)
	if !ok {
		return e.Kind
	}

	if target.Position() < source.Position() {
		e.Kind = ir.EdgeBack
	} else {
		e.Kind = ir.EdgeNormal
	}
	return e.Kind
}
