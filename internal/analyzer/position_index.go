package analyzer

import (
	"github.com/google/btree"

	"github.com/ludo-technologies/bcflow/internal/ir"
)

// positionIndexDegree is the btree branching factor used for the node order
const positionIndexDegree = 16

// PositionIndex keeps the nodes of a graph totally ordered by bytecode
// position and maps every position to its originating instruction.
//
// The index registers itself as a listener of the graph it was built from
// and updates inside the graph's mutating calls, so it always mirrors the
// graph's current vertex set. It must not outlive the graph.
type PositionIndex struct {
	order        *btree.BTreeG[*ir.Node]
	instructions map[int]ir.Instruction
}

func byPosition(a, b *ir.Node) bool {
	return a.Position() < b.Position()
}

// NewPositionIndex builds the index from the graph's current nodes and
// subscribes it to all later mutations
func NewPositionIndex(g *ir.Graph) *PositionIndex {
	idx := &PositionIndex{
		order:        btree.NewG[*ir.Node](positionIndexDegree, byPosition),
		instructions: make(map[int]ir.Instruction),
	}
	for _, n := range g.Nodes() {
		idx.insert(n)
	}
	g.AddListener(idx)
	return idx
}

func (idx *PositionIndex) insert(n *ir.Node) {
	idx.order.ReplaceOrInsert(n)
	idx.instructions[n.Position()] = n.Instruction
}

func (idx *PositionIndex) remove(n *ir.Node) {
	idx.order.Delete(n)
	delete(idx.instructions, n.Position())
}

// NodeAdded implements ir.Listener
func (idx *PositionIndex) NodeAdded(_ *ir.Graph, n *ir.Node) { idx.insert(n) }

// NodeRemoved implements ir.Listener
func (idx *PositionIndex) NodeRemoved(_ *ir.Graph, n *ir.Node) { idx.remove(n) }

// EdgeAdded implements ir.Listener; edges do not affect the order
func (idx *PositionIndex) EdgeAdded(*ir.Graph, *ir.Edge) {}

// EdgeRemoved implements ir.Listener; edges do not affect the order
func (idx *PositionIndex) EdgeRemoved(*ir.Graph, *ir.Edge) {}

// searchKey builds a detached key for ordered lookups
func searchKey(instr ir.Instruction) *ir.Node {
	return &ir.Node{Instruction: instr}
}

// Next returns the node at the least position greater than or equal to the
// instruction's position, or nil if there is none
func (idx *PositionIndex) Next(instr ir.Instruction) *ir.Node {
	var found *ir.Node
	idx.order.AscendGreaterOrEqual(searchKey(instr), func(n *ir.Node) bool {
		found = n
		return false
	})
	return found
}

// Previous returns the node at the greatest position less than or equal to
// the instruction's position, or nil if there is none
func (idx *PositionIndex) Previous(instr ir.Instruction) *ir.Node {
	var found *ir.Node
	idx.order.DescendLessOrEqual(searchKey(instr), func(n *ir.Node) bool {
		found = n
		return false
	})
	return found
}

// Between returns, in position order, the nodes strictly after Next(start)
// and strictly before Previous(end). Missing or crossing bounds yield an
// empty result.
func (idx *PositionIndex) Between(start, end ir.Instruction) []*ir.Node {
	lo := idx.Next(start)
	hi := idx.Previous(end)
	if lo == nil || hi == nil || lo.Position() >= hi.Position() {
		return nil
	}

	var nodes []*ir.Node
	idx.order.AscendRange(lo, hi, func(n *ir.Node) bool {
		if n != lo {
			nodes = append(nodes, n)
		}
		return true
	})
	return nodes
}

// Instruction returns the instruction registered for a position
func (idx *PositionIndex) Instruction(position int) (ir.Instruction, bool) {
	instr, ok := idx.instructions[position]
	return instr, ok
}

// Nodes returns a snapshot of all indexed nodes in position order
func (idx *PositionIndex) Nodes() []*ir.Node {
	nodes := make([]*ir.Node, 0, idx.order.Len())
	idx.order.Ascend(func(n *ir.Node) bool {
		nodes = append(nodes, n)
		return true
	})
	return nodes
}

// Instructions returns the registered instructions in position order
func (idx *PositionIndex) Instructions() []ir.Instruction {
	instrs := make([]ir.Instruction, 0, idx.order.Len())
	idx.order.Ascend(func(n *ir.Node) bool {
		instrs = append(instrs, idx.instructions[n.Position()])
		return true
	})
	return instrs
}

// First returns the node at the lowest position, or nil for an empty graph
func (idx *PositionIndex) First() *ir.Node {
	n, ok := idx.order.Min()
	if !ok {
		return nil
	}
	return n
}

// Len returns the number of indexed nodes
func (idx *PositionIndex) Len() int {
	return idx.order.Len()
}
