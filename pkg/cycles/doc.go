// Package cycles finds dependency cycles in a [graph.Graph].
//
// A cycle in a task-dependency graph means the tasks involved can never be
// scheduled: each one waits, directly or transitively, on itself. [Detect]
// reports such cycles so invalid scheduling data can be flagged before any
// critical-path computation runs.
//
// # Canonical Form
//
// The same cycle can be entered from any of its nodes, so a naive search
// would report 1 → 2 → 1 and 2 → 1 → 2 separately. Every [Cycle] returned by
// this package is rotated to start at its minimum element (see [Canonical])
// and deduplicated on its string form, so each cycle appears exactly once
// regardless of where the search entered it.
//
// # Algorithm
//
// [Detect] runs a depth-first search with an explicit stack. A node is either
// unvisited, on the active path, or finished. Reaching a node that is on the
// active path closes a cycle; reaching a finished node does nothing. Time is
// O(V + E) plus the cost of rendering each reported cycle.
//
// References to nodes that are not in the graph are ignored. They are never
// an error; use [graph.Graph.Unresolved] to list them.
//
// [graph.Graph]: github.com/matzehuels/taskflow/pkg/graph
// [graph.Graph.Unresolved]: github.com/matzehuels/taskflow/pkg/graph
package cycles
