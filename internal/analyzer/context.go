package analyzer

import (
	"io"
	"log/slog"

	"github.com/ludo-technologies/bcflow/internal/ir"
)

// GraphContext binds a method graph to its position index and answers the
// structural questions restructuring passes ask about it. Queries are
// evaluated against the graph's current state on every call; nothing but
// the position index is cached.
//
// A GraphContext is owned by a single goroutine together with its graph.
type GraphContext struct {
	graph *ir.Graph
	index *PositionIndex

	// autoClassify reclassifies every edge as it is added
	autoClassify bool

	// logger for mutation tracing (optional)
	logger *slog.Logger
}

// NewGraphContext creates the index for g, subscribes to its mutations and
// classifies the edges already present
func NewGraphContext(g *ir.Graph) *GraphContext {
	c := &GraphContext{
		graph:        g,
		index:        NewPositionIndex(g),
		autoClassify: true,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	g.AddListener(c)
	c.ClassifyEdges()
	return c
}

// SetLogger sets an optional logger for mutation tracing
func (c *GraphContext) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetAutoClassify controls whether edges are classified as they are added.
// When disabled, callers must run ClassifyEdge or ClassifyEdges themselves.
func (c *GraphContext) SetAutoClassify(enabled bool) {
	c.autoClassify = enabled
}

// Graph returns the underlying graph
func (c *GraphContext) Graph() *ir.Graph {
	return c.graph
}

// Index returns the position index kept in sync with the graph
func (c *GraphContext) Index() *PositionIndex {
	return c.index
}

// NodeAdded implements ir.Listener
func (c *GraphContext) NodeAdded(_ *ir.Graph, n *ir.Node) {
	c.logger.Debug("node added", "node", n.String())
}

// NodeRemoved implements ir.Listener
func (c *GraphContext) NodeRemoved(_ *ir.Graph, n *ir.Node) {
	c.logger.Debug("node removed", "node", n.String())
}

// EdgeAdded implements ir.Listener
func (c *GraphContext) EdgeAdded(g *ir.Graph, e *ir.Edge) {
	if c.autoClassify {
		ClassifyEdge(g, e)
	}
	c.logger.Debug("edge added", "edge", e.String())
}

// EdgeRemoved implements ir.Listener
func (c *GraphContext) EdgeRemoved(_ *ir.Graph, e *ir.Edge) {
	c.logger.Debug("edge removed", "edge", e.String())
}

// ClassifyEdges runs the edge classifier over every edge of the graph
func (c *GraphContext) ClassifyEdges() {
	for _, e := range c.graph.Edges() {
		ClassifyEdge(c.graph, e)
	}
}

// FindNextNode returns the node at or after the instruction's position
func (c *GraphContext) FindNextNode(instr ir.Instruction) *ir.Node {
	return c.index.Next(instr)
}

// FindPreviousNode returns the node at or before the instruction's position
func (c *GraphContext) FindPreviousNode(instr ir.Instruction) *ir.Node {
	return c.index.Previous(instr)
}

// Instruction returns the instruction registered for a position
func (c *GraphContext) Instruction(position int) (ir.Instruction, bool) {
	return c.index.Instruction(position)
}
