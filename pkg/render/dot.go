package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/taskflow/pkg/cycles"
	"github.com/matzehuels/taskflow/pkg/graph"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

// Colors used for cycle highlighting.
const (
	cycleEdgeColor = "#d62728"
	cycleNodeFill  = "#fde2e2"
)

// Options configures diagram rendering.
type Options struct {
	// Labels maps task ids to display labels. Tasks without a label show
	// their id.
	Labels map[int]string

	// Title is drawn above the graph when set.
	Title string
}

// TaskLabels builds "id: name" labels, adding the priority for critical
// tasks. Later duplicates win, matching the graph.
func TaskLabels(ts []tasks.Task) map[int]string {
	labels := make(map[int]string, len(ts))
	for _, t := range ts {
		label := strconv.Itoa(t.ID)
		if t.Name != "" {
			label += ": " + t.Name
		}
		if t.IsCritical() {
			label += "\n(" + t.Priority + ")"
		}
		labels[t.ID] = label
	}
	return labels
}

// ToDOT converts a task graph to Graphviz DOT. Edges point from a task to
// the task it depends on. Every edge that lies on one of cs is drawn red and
// the tasks on those cycles are shaded.
func ToDOT(g *graph.Graph[int], cs []cycles.Cycle[int], opts Options) string {
	onCycle := make(map[int]bool)
	for _, c := range cs {
		for _, id := range c.Nodes() {
			onCycle[id] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	for _, id := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", label(id, opts.Labels))}
		if onCycle[id] {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", cycleNodeFill), fmt.Sprintf("color=%q", cycleEdgeColor))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", strconv.Itoa(id), strings.Join(attrs, ", "))
	}

	missing := make(map[int]bool)
	for _, e := range g.Unresolved() {
		if missing[e.To] {
			continue
		}
		missing[e.To] = true
		fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,dashed\", fontcolor=grey40, color=grey60];\n",
			strconv.Itoa(e.To), fmt.Sprintf("%d (missing)", e.To))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		from, to := strconv.Itoa(e.From), strconv.Itoa(e.To)
		switch {
		case missing[e.To]:
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=grey60];\n", from, to)
		case onAnyCycle(cs, e.From, e.To):
			fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=2];\n", from, to, cycleEdgeColor)
		default:
			fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(id int, labels map[int]string) string {
	if l, ok := labels[id]; ok {
		return l
	}
	return strconv.Itoa(id)
}

func onAnyCycle(cs []cycles.Cycle[int], from, to int) bool {
	for _, c := range cs {
		if c.Contains(from, to) {
			return true
		}
	}
	return false
}
