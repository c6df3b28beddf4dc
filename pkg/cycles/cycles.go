package cycles

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/matzehuels/taskflow/pkg/graph"
)

// Separator joins node identifiers in the string form of a cycle.
const Separator = " → "

// Cycle is a closed walk in a dependency graph: the first element is repeated
// as the last one. Cycles returned by this package are in canonical rotation,
// starting at their minimum element.
type Cycle[K cmp.Ordered] []K

// Len returns the number of distinct nodes on the cycle (1 for a self-loop).
func (c Cycle[K]) Len() int {
	if len(c) == 0 {
		return 0
	}
	return len(c) - 1
}

// Nodes returns the cycle without its closing element.
func (c Cycle[K]) Nodes() []K {
	if len(c) == 0 {
		return nil
	}
	return c[:len(c)-1]
}

// String renders the cycle as its identifiers joined by [Separator],
// e.g. "1 → 2 → 1".
func (c Cycle[K]) String() string {
	parts := make([]string, len(c))
	for i, id := range c {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, Separator)
}

// Contains reports whether the edge from→to lies on the cycle.
func (c Cycle[K]) Contains(from, to K) bool {
	for i := 0; i+1 < len(c); i++ {
		if c[i] == from && c[i+1] == to {
			return true
		}
	}
	return false
}

// Canonical rotates a closed walk so that it starts at its minimum element,
// keeping the cyclic order, and closes it again with that element.
//
// The input must be closed (last element equal to the first). A walk of
// fewer than two elements is returned unchanged.
func Canonical[K cmp.Ordered](walk []K) Cycle[K] {
	if len(walk) < 2 {
		return Cycle[K](walk)
	}
	open := walk[:len(walk)-1]
	minIdx := 0
	for i := 1; i < len(open); i++ {
		if open[i] < open[minIdx] {
			minIdx = i
		}
	}
	out := make(Cycle[K], 0, len(walk))
	out = append(out, open[minIdx:]...)
	out = append(out, open[:minIdx]...)
	return append(out, open[minIdx])
}

// frame is one level of the explicit DFS stack.
type frame[K cmp.Ordered] struct {
	node K
	next int
}

// Detect finds the cycles of g with a depth-first search and returns each one
// once, in canonical rotation, in the order they were discovered.
//
// Every node is tried as a traversal root in insertion order. A dependency
// that is already on the active path closes a cycle running from its first
// occurrence on that path to the current node. Nodes finished by an earlier
// search are not explored again, and dependencies that are not nodes of g are
// skipped. Self-loops are reported as single-node cycles.
//
// Because finished nodes are never revisited, Detect reports the cycles
// reachable through back edges of the search forest rather than every
// elementary cycle; it always reports at least one cycle when g is cyclic.
//
// Detect keeps its own stack instead of recursing, so path length is bounded
// by memory rather than goroutine stack size. It does not modify g and is safe
// to call concurrently on a graph that is not being written.
func Detect[K cmp.Ordered](g *graph.Graph[K]) []Cycle[K] {
	visited := make(map[K]bool, g.NodeCount())
	onPath := make(map[K]int) // node -> index in path
	seen := make(map[string]bool)

	var (
		path   []K
		stack  []frame[K]
		result []Cycle[K]
	)

	push := func(id K) {
		visited[id] = true
		onPath[id] = len(path)
		path = append(path, id)
		stack = append(stack, frame[K]{node: id})
	}

	for _, root := range g.Nodes() {
		if visited[root] {
			continue
		}
		push(root)

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := g.Deps(top.node)
			if top.next == len(deps) {
				delete(onPath, top.node)
				path = path[:len(path)-1]
				stack = stack[:len(stack)-1]
				continue
			}

			dep := deps[top.next]
			top.next++

			if !g.Has(dep) {
				continue
			}
			if start, ok := onPath[dep]; ok {
				walk := make([]K, 0, len(path)-start+1)
				walk = append(walk, path[start:]...)
				c := Canonical(append(walk, dep))
				if key := c.String(); !seen[key] {
					seen[key] = true
					result = append(result, c)
				}
				continue
			}
			if visited[dep] {
				continue
			}
			push(dep)
		}
	}
	return result
}

// HasCycle reports whether g contains at least one cycle.
func HasCycle[K cmp.Ordered](g *graph.Graph[K]) bool {
	return len(Detect(g)) > 0
}

// Strings renders each cycle with [Cycle.String].
func Strings[K cmp.Ordered](cs []Cycle[K]) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return out
}
