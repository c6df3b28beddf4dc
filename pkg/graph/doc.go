// Package graph provides the adjacency representation used to analyze task
// dependencies.
//
// # Overview
//
// A [Graph] maps every task identifier to the ordered list of identifiers it
// depends on. It is built once per analysis run from the task set and is not
// required to be acyclic: finding violations of that property is the job of
// the [cycles] package.
//
// Nodes keep their insertion order. Calling [Graph.Set] again for an existing
// node replaces its dependencies without moving it, so a later definition of
// the same task overrides an earlier one.
//
// # Dangling References
//
// Dependencies are stored as given, even when they name a node that is not in
// the graph. [Graph.Unresolved] lists these edges so callers can warn about
// them; traversals treat them as absent.
//
//	g := graph.New[int]()
//	g.Set(1, nil)
//	g.Set(2, []int{1, 9}) // 9 is unknown
//	g.Unresolved()        // [{2 9}]
//
// [cycles]: github.com/matzehuels/taskflow/pkg/cycles
package graph
