package ir

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNodeNotFound is returned when a node handle does not belong to the graph
	ErrNodeNotFound = errors.New("node not found")
	// ErrEdgeNotFound is returned when an edge handle does not belong to the graph
	ErrEdgeNotFound = errors.New("edge not found")
	// ErrDuplicatePosition is returned when a node's position is already taken
	ErrDuplicatePosition = errors.New("duplicate node position")
	// ErrNodeOwned is returned when a node already belongs to a graph
	ErrNodeOwned = errors.New("node already belongs to a graph")
)

// Listener observes graph mutations. Callbacks run synchronously inside the
// mutating call, after the graph has applied the change and before the call
// returns.
type Listener interface {
	NodeAdded(g *Graph, n *Node)
	NodeRemoved(g *Graph, n *Node)
	EdgeAdded(g *Graph, e *Edge)
	EdgeRemoved(g *Graph, e *Edge)
}

// Graph is a mutable directed multigraph over IR nodes. It owns every node
// and edge added to it. Outgoing and incoming edge lists keep insertion
// order, which upstream passes rely on for handler priority.
//
// A Graph is not safe for concurrent use.
type Graph struct {
	// Name identifies the method the graph was lifted from
	Name string

	nodes      map[NodeID]*Node
	byPosition map[int]NodeID
	edges      map[EdgeID]*Edge
	out        map[NodeID][]EdgeID
	in         map[NodeID][]EdgeID

	nextNodeID NodeID
	nextEdgeID EdgeID

	listeners []Listener
}

// NewGraph creates an empty graph
func NewGraph(name string) *Graph {
	return &Graph{
		Name:       name,
		nodes:      make(map[NodeID]*Node),
		byPosition: make(map[int]NodeID),
		edges:      make(map[EdgeID]*Edge),
		out:        make(map[NodeID][]EdgeID),
		in:         make(map[NodeID][]EdgeID),
		nextNodeID: 1,
		nextEdgeID: 1,
	}
}

// AddListener registers a listener for all subsequent mutations
func (g *Graph) AddListener(l Listener) {
	if l != nil {
		g.listeners = append(g.listeners, l)
	}
}

// RemoveListener unregisters a listener
func (g *Graph) RemoveListener(l Listener) {
	g.listeners = slices.DeleteFunc(g.listeners, func(x Listener) bool { return x == l })
}

// AddNode assigns a handle to n and adds it to the graph.
// Positions are unique per graph and a node lives in at most one graph.
func (g *Graph) AddNode(n *Node) (*Node, error) {
	if n == nil {
		return nil, fmt.Errorf("cannot add nil node")
	}
	if n.ID != InvalidNodeID {
		return nil, fmt.Errorf("%w: %s holds handle %d", ErrNodeOwned, n, n.ID)
	}
	if existing, ok := g.byPosition[n.Position()]; ok {
		return nil, fmt.Errorf("%w: %d already held by %s", ErrDuplicatePosition, n.Position(), g.nodes[existing])
	}

	n.ID = g.nextNodeID
	g.nextNodeID++

	g.nodes[n.ID] = n
	g.byPosition[n.Position()] = n.ID

	for _, l := range g.listeners {
		l.NodeAdded(g, n)
	}
	return n, nil
}

// RemoveNode removes a node together with every edge incident to it.
// Listeners see each EdgeRemoved before the NodeRemoved.
func (g *Graph) RemoveNode(id NodeID) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	incident := append(slices.Clone(g.out[id]), g.in[id]...)
	for _, eid := range incident {
		if _, live := g.edges[eid]; live {
			_ = g.RemoveEdge(eid)
		}
	}

	delete(g.nodes, id)
	delete(g.byPosition, n.Position())
	delete(g.out, id)
	delete(g.in, id)

	for _, l := range g.listeners {
		l.NodeRemoved(g, n)
	}
	n.ID = InvalidNodeID
	return nil
}

// AddEdge connects source to target. Parallel edges are allowed.
func (g *Graph) AddEdge(source, target NodeID, kind EdgeKind, leg Leg) (*Edge, error) {
	if _, ok := g.nodes[source]; !ok {
		return nil, fmt.Errorf("%w: source %d", ErrNodeNotFound, source)
	}
	if _, ok := g.nodes[target]; !ok {
		return nil, fmt.Errorf("%w: target %d", ErrNodeNotFound, target)
	}

	e := &Edge{
		ID:     g.nextEdgeID,
		Source: source,
		Target: target,
		Kind:   kind,
		Leg:    leg,
	}
	g.nextEdgeID++

	g.edges[e.ID] = e
	g.out[source] = append(g.out[source], e.ID)
	g.in[target] = append(g.in[target], e.ID)

	for _, l := range g.listeners {
		l.EdgeAdded(g, e)
	}
	return e, nil
}

// Connect is AddEdge for two nodes already in the graph
func (g *Graph) Connect(from, to *Node, kind EdgeKind) (*Edge, error) {
	if from == nil || to == nil {
		return nil, fmt.Errorf("cannot connect nil node")
	}
	return g.AddEdge(from.ID, to.ID, kind, LegNone)
}

// ConnectLeg adds a branch leg from a boolean branch to one of its successors
func (g *Graph) ConnectLeg(branch, to *Node, condition bool) (*Edge, error) {
	if branch == nil || to == nil {
		return nil, fmt.Errorf("cannot connect nil node")
	}
	return g.AddEdge(branch.ID, to.ID, EdgeNormal, LegOf(condition))
}

// RemoveEdge removes a single edge
func (g *Graph) RemoveEdge(id EdgeID) error {
	e, ok := g.edges[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrEdgeNotFound, id)
	}

	delete(g.edges, id)
	g.out[e.Source] = slices.DeleteFunc(g.out[e.Source], func(x EdgeID) bool { return x == id })
	g.in[e.Target] = slices.DeleteFunc(g.in[e.Target], func(x EdgeID) bool { return x == id })

	for _, l := range g.listeners {
		l.EdgeRemoved(g, e)
	}
	return nil
}

// Node retrieves a node by handle
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeAt retrieves the node lifted from the instruction at position
func (g *Graph) NodeAt(position int) (*Node, bool) {
	id, ok := g.byPosition[position]
	if !ok {
		return nil, false
	}
	return g.nodes[id], true
}

// Contains reports whether n is a live node of this graph
func (g *Graph) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	cur, ok := g.nodes[n.ID]
	return ok && cur == n
}

// Edge retrieves an edge by handle
func (g *Graph) Edge(id EdgeID) (*Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Nodes returns all nodes in insertion order
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int { return int(a.ID) - int(b.ID) })
	return nodes
}

// Edges returns all edges in insertion order
func (g *Graph) Edges() []*Edge {
	edges := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(a, b *Edge) int { return int(a.ID) - int(b.ID) })
	return edges
}

// OutEdges returns the outgoing edges of a node in insertion order
func (g *Graph) OutEdges(id NodeID) []*Edge {
	return g.resolve(g.out[id])
}

// InEdges returns the incoming edges of a node in insertion order
func (g *Graph) InEdges(id NodeID) []*Edge {
	return g.resolve(g.in[id])
}

// EdgesBetween returns every edge from source to target
func (g *Graph) EdgesBetween(source, target NodeID) []*Edge {
	var edges []*Edge
	for _, e := range g.OutEdges(source) {
		if e.Target == target {
			edges = append(edges, e)
		}
	}
	return edges
}

// Successors returns the distinct targets of a node's outgoing edges,
// ordered by the first edge that reaches each of them
func (g *Graph) Successors(id NodeID) []*Node {
	return g.endpoints(g.out[id], func(e *Edge) NodeID { return e.Target })
}

// Predecessors returns the distinct sources of a node's incoming edges
func (g *Graph) Predecessors(id NodeID) []*Node {
	return g.endpoints(g.in[id], func(e *Edge) NodeID { return e.Source })
}

// NodeCount returns the number of nodes in the graph
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// String returns a string representation of the graph
func (g *Graph) String() string {
	return fmt.Sprintf("Graph(%s): %d nodes, %d edges", g.Name, len(g.nodes), len(g.edges))
}

func (g *Graph) resolve(ids []EdgeID) []*Edge {
	edges := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		edges = append(edges, g.edges[id])
	}
	return edges
}

func (g *Graph) endpoints(ids []EdgeID, pick func(*Edge) NodeID) []*Node {
	seen := make(map[NodeID]bool, len(ids))
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		nid := pick(g.edges[id])
		if seen[nid] {
			continue
		}
		seen[nid] = true
		nodes = append(nodes, g.nodes[nid])
	}
	return nodes
}
