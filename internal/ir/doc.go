// Package ir defines the mid-level intermediate representation that the
// decompiler lifts bytecode into: typed IR nodes, classified edges, and the
// mutable directed graph that owns them.
//
// Nodes never reference each other. All relational facts (successors, edge
// kinds, condition legs) are derived from the graph, which stores edges by
// node identifier. Mutations are announced synchronously to registered
// listeners before the mutating call returns, so derived structures such as
// a position index can never be observed out of sync with the graph.
package ir
