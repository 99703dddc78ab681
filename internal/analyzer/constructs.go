package analyzer

import (
	"github.com/ludo-technologies/bcflow/internal/ir"
)

// TrueTarget returns the successor reached through the branch's true leg.
// A branch without exactly one true leg is corrupt IR.
func (c *GraphContext) TrueTarget(branch *ir.Node) (*ir.Node, error) {
	return c.legTarget(branch, true)
}

// FalseTarget returns the successor reached through the branch's false leg.
// A branch without exactly one false leg is corrupt IR.
func (c *GraphContext) FalseTarget(branch *ir.Node) (*ir.Node, error) {
	return c.legTarget(branch, false)
}

func (c *GraphContext) legTarget(branch *ir.Node, condition bool) (*ir.Node, error) {
	if err := c.requireKind(branch, ir.KindBranch); err != nil {
		return nil, err
	}

	inv := InvariantBranchTrueLeg
	if !condition {
		inv = InvariantBranchFalseLeg
	}

	legs := c.matchingEdges(branch, OnLeg(condition))
	switch len(legs) {
	case 0:
		return nil, newInvariantError(branch.Position(), inv, "branch has no %t leg", condition)
	case 1:
		target, _ := c.graph.Node(legs[0].Target)
		return target, nil
	default:
		return nil, newInvariantError(branch.Position(), inv, "branch has %d %t legs", len(legs), condition)
	}
}

// JumpTarget returns the single successor of an unconditional jump
func (c *GraphContext) JumpTarget(jump *ir.Node) (*ir.Node, error) {
	if err := c.requireKind(jump, ir.KindJump); err != nil {
		return nil, err
	}

	succ := c.graph.Successors(jump.ID)
	if len(succ) != 1 {
		return nil, newInvariantError(jump.Position(), InvariantJumpSuccessor,
			"goto has %d successors, expected 1", len(succ))
	}
	return succ[0], nil
}

// CatchClauses returns the catch handlers attached to a try, in the order
// the handlers were attached. That order encodes handler priority and is
// returned verbatim.
func (c *GraphContext) CatchClauses(try *ir.Node) ([]*ir.Node, error) {
	if err := c.requireKind(try, ir.KindTry); err != nil {
		return nil, err
	}
	return c.SuccessorsWhere(try, OfKind(ir.KindCatch)), nil
}

// FinallyClause returns the finally handler of a try, or nil when the try
// has none. More than one finally successor is corrupt IR.
func (c *GraphContext) FinallyClause(try *ir.Node) (*ir.Node, error) {
	if err := c.requireKind(try, ir.KindTry); err != nil {
		return nil, err
	}

	finals := c.SuccessorsWhere(try, OfKind(ir.KindFinally))
	switch len(finals) {
	case 0:
		return nil, nil
	case 1:
		return finals[0], nil
	default:
		return nil, newInvariantError(try.Position(), InvariantSingleFinally,
			"try has %d finally successors at positions %d and %d",
			len(finals), finals[0].Position(), finals[1].Position())
	}
}

// SwitchCases returns the cases of a switch ordered by value, with the
// default case last
func (c *GraphContext) SwitchCases(sw *ir.Node) ([]*ir.Node, error) {
	if err := c.requireKind(sw, ir.KindSwitch); err != nil {
		return nil, err
	}

	cases := c.SuccessorsWhere(sw, OfKind(ir.KindCase))
	if err := sortCases(sw, cases); err != nil {
		return nil, err
	}
	return cases, nil
}
