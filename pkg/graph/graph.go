package graph

import (
	"cmp"
	"slices"
)

// Edge is a directed dependency: From depends on To.
type Edge[K cmp.Ordered] struct {
	From K
	To   K
}

// Graph maps each node to its ordered list of dependencies. Nodes iterate in
// the order they were first added, which makes traversals deterministic.
//
// Unlike a DAG, a Graph may contain cycles and self-loops, and a dependency
// may reference a node that was never added. Such dangling references are
// kept (see [Graph.Unresolved]) but traversal helpers skip them.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph[K cmp.Ordered] struct {
	order []K
	deps  map[K][]K
}

// New creates an empty graph.
func New[K cmp.Ordered]() *Graph[K] {
	return &Graph[K]{deps: make(map[K][]K)}
}

// Set stores the dependency list for id. If id is already present, its
// dependencies are replaced and its position in the iteration order is kept.
// The deps slice is copied.
func (g *Graph[K]) Set(id K, deps []K) {
	if _, ok := g.deps[id]; !ok {
		g.order = append(g.order, id)
	}
	g.deps[id] = slices.Clone(deps)
}

// AddNode adds id with no dependencies. It is a no-op if id already exists.
func (g *Graph[K]) AddNode(id K) {
	if _, ok := g.deps[id]; ok {
		return
	}
	g.order = append(g.order, id)
	g.deps[id] = nil
}

// AddEdge appends to as a dependency of from, adding from if needed.
// The target does not have to exist.
func (g *Graph[K]) AddEdge(from, to K) {
	g.AddNode(from)
	g.deps[from] = append(g.deps[from], to)
}

// Has reports whether id was added to the graph.
func (g *Graph[K]) Has(id K) bool {
	_, ok := g.deps[id]
	return ok
}

// Deps returns the dependencies of id in insertion order, including dangling
// references. Returns nil if id has none or doesn't exist. The returned slice
// should not be modified.
func (g *Graph[K]) Deps(id K) []K { return g.deps[id] }

// Nodes returns all node IDs in insertion order.
func (g *Graph[K]) Nodes() []K { return slices.Clone(g.order) }

// NodeCount returns the number of nodes.
func (g *Graph[K]) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of dependency entries, dangling ones included.
func (g *Graph[K]) EdgeCount() int {
	n := 0
	for _, d := range g.deps {
		n += len(d)
	}
	return n
}

// Edges returns every dependency edge, ordered by source node then by
// position in its dependency list.
func (g *Graph[K]) Edges() []Edge[K] {
	var edges []Edge[K]
	for _, id := range g.order {
		for _, to := range g.deps[id] {
			edges = append(edges, Edge[K]{From: id, To: to})
		}
	}
	return edges
}

// Unresolved returns the edges whose target is not a node of the graph.
// Returns nil when every reference resolves.
func (g *Graph[K]) Unresolved() []Edge[K] {
	var out []Edge[K]
	for _, id := range g.order {
		for _, to := range g.deps[id] {
			if !g.Has(to) {
				out = append(out, Edge[K]{From: id, To: to})
			}
		}
	}
	return out
}

// Sources returns nodes that no other node depends on, in insertion order.
func (g *Graph[K]) Sources() []K {
	referenced := make(map[K]bool, len(g.order))
	for _, d := range g.deps {
		for _, to := range d {
			referenced[to] = true
		}
	}
	var out []K
	for _, id := range g.order {
		if !referenced[id] {
			out = append(out, id)
		}
	}
	return out
}

// Sinks returns nodes with no resolvable dependencies, in insertion order.
func (g *Graph[K]) Sinks() []K {
	var out []K
	for _, id := range g.order {
		if !slices.ContainsFunc(g.deps[id], g.Has) {
			out = append(out, id)
		}
	}
	return out
}
