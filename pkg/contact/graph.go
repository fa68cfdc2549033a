// Package contact holds the contact network and the per-trial epidemic state
// laid over it.
//
// A Graph is pure topology: a flat adjacency list of integer node ids. Once
// sealed it is read-only and may be shared by any number of goroutines. A State
// carries the infected/vaccinated flags for one trial and is owned by a single
// goroutine at a time.
package contact

import "sync/atomic"

// NodeID identifies an animal in the contact network. Ids are dense in [0, n).
type NodeID int

type edgeKey struct {
	lo, hi NodeID
}

func keyOf(a, b NodeID) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}

// Graph is an undirected contact network without self-loops or parallel edges.
type Graph struct {
	adj    [][]NodeID
	edges  map[edgeKey]struct{}
	sealed atomic.Bool
}

// New creates a graph with n isolated nodes.
func New(n int) (*Graph, error) {
	if n <= 0 {
		return nil, InvalidParameterError("New", "population must be >= 1, got %d", n)
	}
	return &Graph{
		adj:   make([][]NodeID, n),
		edges: make(map[edgeKey]struct{}),
	}, nil
}

// Len returns the population size.
func (g *Graph) Len() int {
	return len(g.adj)
}

// Contains reports whether id is a node of the graph.
func (g *Graph) Contains(id NodeID) bool {
	return id >= 0 && int(id) < len(g.adj)
}

// AddEdge connects a and b. Self-loops are ignored and repeated calls for the
// same pair are no-ops.
func (g *Graph) AddEdge(a, b NodeID) error {
	if g.sealed.Load() {
		return &GraphError{Op: "AddEdge", Node: a, Cause: ErrSealed}
	}
	if !g.Contains(a) {
		return nodeNotFoundError("AddEdge", a, len(g.adj))
	}
	if !g.Contains(b) {
		return nodeNotFoundError("AddEdge", b, len(g.adj))
	}
	if a == b {
		return nil
	}

	key := keyOf(a, b)
	if _, exists := g.edges[key]; exists {
		return nil
	}
	g.edges[key] = struct{}{}
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
	return nil
}

// HasEdge reports whether a and b are neighbors.
func (g *Graph) HasEdge(a, b NodeID) bool {
	_, ok := g.edges[keyOf(a, b)]
	return ok
}

// Seal freezes the topology. Subsequent AddEdge calls fail with ErrSealed.
func (g *Graph) Seal() {
	g.sealed.Store(true)
}

// Sealed reports whether the topology is frozen.
func (g *Graph) Sealed() bool {
	return g.sealed.Load()
}

// Neighbors returns the neighbors of id in insertion order.
// The returned slice is shared with the graph and must not be modified.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	if !g.Contains(id) {
		return nil
	}
	return g.adj[id]
}

// Degree returns the number of neighbors of id, or 0 for unknown ids.
func (g *Graph) Degree(id NodeID) int {
	if !g.Contains(id) {
		return 0
	}
	return len(g.adj[id])
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// AverageDegree returns 2E/n.
func (g *Graph) AverageDegree() float64 {
	if len(g.adj) == 0 {
		return 0
	}
	return 2 * float64(len(g.edges)) / float64(len(g.adj))
}

// MaxDegree returns the largest degree in the graph.
func (g *Graph) MaxDegree() int {
	highest := 0
	for _, nbrs := range g.adj {
		highest = max(highest, len(nbrs))
	}
	return highest
}
