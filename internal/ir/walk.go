package ir

// Visitor defines the interface for visiting graph nodes
type Visitor interface {
	// VisitNode is called for each node
	// Returns false to stop traversal
	VisitNode(n *Node) bool

	// VisitEdge is called for each outgoing edge of a visited node
	// Returns false to stop traversal
	VisitEdge(e *Edge) bool
}

// Walk performs a depth-first traversal starting at entry
func (g *Graph) Walk(entry NodeID, visitor Visitor) {
	if _, ok := g.nodes[entry]; !ok {
		return
	}

	visited := make(map[NodeID]bool)
	g.walkNode(entry, visitor, visited)
}

// walkNode recursively visits nodes in depth-first order.
// The return value is false once the visitor asked to stop.
func (g *Graph) walkNode(id NodeID, visitor Visitor, visited map[NodeID]bool) bool {
	if visited[id] {
		return true
	}
	visited[id] = true

	if !visitor.VisitNode(g.nodes[id]) {
		return false
	}

	for _, e := range g.OutEdges(id) {
		if !visitor.VisitEdge(e) {
			return false
		}
		if !g.walkNode(e.Target, visitor, visited) {
			return false
		}
	}
	return true
}

// BreadthFirstWalk performs a breadth-first traversal starting at entry
func (g *Graph) BreadthFirstWalk(entry NodeID, visitor Visitor) {
	if _, ok := g.nodes[entry]; !ok {
		return
	}

	visited := make(map[NodeID]bool)
	queue := []NodeID{entry}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if visited[id] {
			continue
		}
		visited[id] = true

		if !visitor.VisitNode(g.nodes[id]) {
			return
		}

		for _, e := range g.OutEdges(id) {
			if !visitor.VisitEdge(e) {
				return
			}
			if !visited[e.Target] {
				queue = append(queue, e.Target)
			}
		}
	}
}
