package service

import (
	"github.com/ludo-technologies/bcflow/domain"
	"github.com/ludo-technologies/bcflow/internal/ir"
	"github.com/ludo-technologies/bcflow/internal/irdoc"
)

// NodeRefOf converts a node into its report form
func NodeRefOf(n *ir.Node) domain.NodeRef {
	ref := domain.NodeRef{
		Position: n.Position(),
		Kind:     n.Kind.String(),
		Opcode:   n.Instruction.Opcode,
	}
	switch n.Kind {
	case ir.KindCase:
		ref.Label = n.Case.String()
	case ir.KindCatch:
		ref.Label = n.Exception
	}
	return ref
}

func nodeRefPtr(n *ir.Node) *domain.NodeRef {
	if n == nil {
		return nil
	}
	ref := NodeRefOf(n)
	return &ref
}

func nodeRefs(nodes []*ir.Node) []domain.NodeRef {
	refs := make([]domain.NodeRef, 0, len(nodes))
	for _, n := range nodes {
		refs = append(refs, NodeRefOf(n))
	}
	return refs
}

// EdgeRefOf converts an edge into its report form
func EdgeRefOf(g *ir.Graph, e *ir.Edge) domain.EdgeRef {
	ref := domain.EdgeRef{Kind: e.Kind.String()}
	if src, ok := g.Node(e.Source); ok {
		ref.From = src.Position()
	}
	if dst, ok := g.Node(e.Target); ok {
		ref.To = dst.Position()
	}
	if e.IsCondition() {
		ref.Leg = e.Leg.String()
	}
	return ref
}

// BuildMethodReport runs every query over a method graph and collects the
// answers. Constructs that cannot be resolved are reported without their
// targets; the violated invariants are listed as faults.
func BuildMethodReport(mg *irdoc.MethodGraph, filePath string, showInstructions bool) domain.MethodReport {
	ctx := mg.Context
	g := mg.Graph

	report := domain.MethodReport{
		Class:    mg.Class,
		Method:   mg.Method,
		FilePath: filePath,
		Nodes:    g.NodeCount(),
		Entry:    nodeRefPtr(mg.Entry),
	}

	for _, e := range g.Edges() {
		switch e.Kind {
		case ir.EdgeNormal:
			report.Edges.Normal++
		case ir.EdgeBack:
			report.Edges.Back++
		case ir.EdgeException:
			report.Edges.Exception++
		}
		if e.IsCondition() {
			report.Edges.Conditional++
		}
	}

	for _, e := range ctx.BackEdges() {
		report.BackEdges = append(report.BackEdges, EdgeRefOf(g, e))
	}

	for _, n := range ctx.Index().Nodes() {
		switch n.Kind {
		case ir.KindBranch:
			t, _ := ctx.TrueTarget(n)
			f, _ := ctx.FalseTarget(n)
			report.Branches = append(report.Branches, domain.BranchReport{
				Branch: NodeRefOf(n),
				True:   nodeRefPtr(t),
				False:  nodeRefPtr(f),
			})
		case ir.KindJump:
			target, _ := ctx.JumpTarget(n)
			report.Jumps = append(report.Jumps, domain.JumpReport{
				Jump:   NodeRefOf(n),
				Target: nodeRefPtr(target),
			})
		case ir.KindSwitch:
			cases, _ := ctx.SwitchCases(n)
			report.Switches = append(report.Switches, domain.SwitchReport{
				Switch: NodeRefOf(n),
				Cases:  nodeRefs(cases),
			})
		case ir.KindTry:
			catches, _ := ctx.CatchClauses(n)
			finally, _ := ctx.FinallyClause(n)
			report.Tries = append(report.Tries, domain.TryReport{
				Try:     NodeRefOf(n),
				Catches: nodeRefs(catches),
				Finally: nodeRefPtr(finally),
			})
		case ir.KindPlain, ir.KindCase, ir.KindCatch, ir.KindFinally:
		}
	}

	for _, r := range mg.Ranges {
		report.Ranges = append(report.Ranges, domain.RangeReport{
			Name:    r.Name,
			Start:   r.Range.Start.Position,
			End:     r.Range.End.Position,
			Members: nodeRefs(ctx.NodesWithin(r.Range)),
		})
	}

	if mg.Entry != nil {
		if unreachable := ctx.Unreachable(mg.Entry); len(unreachable) > 0 {
			report.Unreachable = nodeRefs(unreachable)
		}
	}

	if showInstructions {
		for _, instr := range mg.Instructions() {
			report.Instructions = append(report.Instructions, instr.String())
		}
	}

	for _, fault := range ctx.Validate() {
		report.Faults = append(report.Faults, domain.Fault{
			Position:  fault.Position,
			Invariant: string(fault.Invariant),
			Detail:    fault.Detail,
		})
	}

	return report
}

// SummarizeReports aggregates method reports
func SummarizeReports(methods []domain.MethodReport, filesAnalyzed int) domain.FlowSummary {
	summary := domain.FlowSummary{
		FilesAnalyzed:   filesAnalyzed,
		MethodsAnalyzed: len(methods),
	}
	for _, m := range methods {
		summary.TotalNodes += m.Nodes
		summary.TotalEdges += m.Edges.Total()
		summary.BackEdges += m.Edges.Back
		summary.Branches += len(m.Branches)
		summary.Switches += len(m.Switches)
		summary.Tries += len(m.Tries)
		summary.UnreachableNodes += len(m.Unreachable)
		if m.HasFaults() {
			summary.MethodsWithFaults++
			summary.TotalFaults += len(m.Faults)
		}
	}
	return summary
}
