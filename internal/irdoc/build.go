package irdoc

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/ludo-technologies/bcflow/internal/analyzer"
	"github.com/ludo-technologies/bcflow/internal/ir"
)

// NamedRange is a block range declared by a document
type NamedRange struct {
	Name  string
	Range analyzer.BlockRange
}

// MethodGraph is a method decoded into a live graph and its query context
type MethodGraph struct {
	Class   string
	Method  string
	Graph   *ir.Graph
	Context *analyzer.GraphContext

	// Entry is the declared entry node, or the lowest positioned node
	Entry *ir.Node

	Ranges []NamedRange

	instructions map[int]ir.Instruction
}

// QualifiedName returns "Class.method"
func (m *MethodGraph) QualifiedName() string {
	return m.Class + "." + m.Method
}

// Instruction resolves a position to an instruction. Positions registered
// by the document or held by a node resolve to their instruction; any other
// position yields a bare instruction at that offset.
func (m *MethodGraph) Instruction(position int) ir.Instruction {
	if instr, ok := m.Context.Instruction(position); ok {
		return instr
	}
	if instr, ok := m.instructions[position]; ok {
		return instr
	}
	return ir.Instruction{Position: position}
}

// Instructions returns every known instruction in position order: those
// declared by the document together with those held by nodes
func (m *MethodGraph) Instructions() []ir.Instruction {
	merged := make(map[int]ir.Instruction, len(m.instructions))
	for pos, instr := range m.instructions {
		merged[pos] = instr
	}
	for _, instr := range m.Context.Index().Instructions() {
		merged[instr.Position] = instr
	}

	out := make([]ir.Instruction, 0, len(merged))
	for _, instr := range merged {
		out = append(out, instr)
	}
	slices.SortFunc(out, func(a, b ir.Instruction) int { return cmp.Compare(a.Position, b.Position) })
	return out
}

// NodeAt returns the node at exactly the given position
func (m *MethodGraph) NodeAt(position int) (*ir.Node, error) {
	n, ok := m.Graph.NodeAt(position)
	if !ok {
		return nil, fmt.Errorf("%s: no node at position %d: %w", m.QualifiedName(), position, ir.ErrNodeNotFound)
	}
	return n, nil
}

// Range returns the declared range with the given name
func (m *MethodGraph) Range(name string) (analyzer.BlockRange, bool) {
	for _, r := range m.Ranges {
		if r.Name == name {
			return r.Range, true
		}
	}
	return analyzer.BlockRange{}, false
}

type buildOptions struct {
	logger       *slog.Logger
	autoClassify bool
}

// BuildOption configures BuildMethod
type BuildOption func(*buildOptions)

// WithLogger traces graph mutations to logger
func WithLogger(logger *slog.Logger) BuildOption {
	return func(o *buildOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAutoClassify controls whether the context classifies edges as they
// are added. Edges are classified once after loading either way.
func WithAutoClassify(enabled bool) BuildOption {
	return func(o *buildOptions) {
		o.autoClassify = enabled
	}
}

// BuildMethod lifts a serialized method into a graph and attaches a query
// context to it
func BuildMethod(class string, m Method, opts ...BuildOption) (*MethodGraph, error) {
	o := buildOptions{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		autoClassify: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	name := class + "." + m.Name
	if m.Name == "" {
		return nil, fmt.Errorf("%s: method has no name", class)
	}

	g := ir.NewGraph(name)
	ctx := analyzer.NewGraphContext(g)
	ctx.SetLogger(o.logger.With("method", name))
	ctx.SetAutoClassify(o.autoClassify)

	mg := &MethodGraph{
		Class:        class,
		Method:       m.Name,
		Graph:        g,
		Context:      ctx,
		instructions: make(map[int]ir.Instruction, len(m.Instructions)),
	}
	for _, spec := range m.Instructions {
		mg.instructions[spec.Position] = ir.Instruction{Position: spec.Position, Opcode: spec.Opcode}
	}

	for i, spec := range m.Nodes {
		node, err := mg.newNode(spec)
		if err != nil {
			return nil, fmt.Errorf("%s: node %d: %w", name, i, err)
		}
		if _, err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("%s: node %d: %w", name, i, err)
		}
	}

	for i, spec := range m.Edges {
		if err := mg.addEdge(spec); err != nil {
			return nil, fmt.Errorf("%s: edge %d: %w", name, i, err)
		}
	}
	ctx.ClassifyEdges()

	if m.Entry != nil {
		entry, ok := g.NodeAt(*m.Entry)
		if !ok {
			return nil, fmt.Errorf("%s: entry position %d has no node", name, *m.Entry)
		}
		mg.Entry = entry
	} else {
		mg.Entry = ctx.Index().First()
	}

	for _, r := range m.Ranges {
		mg.Ranges = append(mg.Ranges, NamedRange{
			Name: r.Name,
			Range: analyzer.BlockRange{
				Start: mg.Instruction(r.Start),
				End:   mg.Instruction(r.End),
			},
		})
	}
	return mg, nil
}

func (m *MethodGraph) newNode(spec NodeSpec) (*ir.Node, error) {
	kind, err := ir.ParseKind(spec.Kind)
	if err != nil {
		return nil, err
	}

	instr, ok := m.instructions[spec.Position]
	if !ok {
		instr = ir.Instruction{Position: spec.Position}
	}
	if spec.Opcode != "" {
		instr.Opcode = spec.Opcode
	}

	switch kind {
	case ir.KindCase:
		switch {
		case spec.Default && spec.Value != nil:
			return nil, fmt.Errorf("case at %d is both default and valued", spec.Position)
		case spec.Default:
			return ir.NewDefaultCase(instr), nil
		case spec.Value != nil:
			return ir.NewCase(instr, *spec.Value), nil
		default:
			return nil, fmt.Errorf("case at %d has neither value nor default", spec.Position)
		}
	case ir.KindCatch:
		return ir.NewCatch(instr, spec.Exception), nil
	case ir.KindPlain, ir.KindJump, ir.KindBranch, ir.KindSwitch, ir.KindTry, ir.KindFinally:
		return ir.NewNode(kind, instr), nil
	}
	return nil, fmt.Errorf("unhandled node kind %s", kind)
}

func (m *MethodGraph) addEdge(spec EdgeSpec) error {
	kind, err := ir.ParseEdgeKind(spec.Kind)
	if err != nil {
		return err
	}

	from, ok := m.Graph.NodeAt(spec.From)
	if !ok {
		return fmt.Errorf("source position %d has no node: %w", spec.From, ir.ErrNodeNotFound)
	}
	to, ok := m.Graph.NodeAt(spec.To)
	if !ok {
		return fmt.Errorf("target position %d has no node: %w", spec.To, ir.ErrNodeNotFound)
	}

	leg := ir.LegNone
	if spec.Leg != nil {
		leg = ir.LegOf(*spec.Leg)
	}
	_, err = m.Graph.AddEdge(from.ID, to.ID, kind, leg)
	return err
}
