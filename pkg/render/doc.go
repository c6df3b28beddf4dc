// Package render draws task dependency graphs as node-link diagrams.
//
// [ToDOT] emits Graphviz DOT with edges on a detected cycle drawn in red and
// references to unknown tasks drawn as dashed placeholder nodes. [Render]
// lays the DOT out with an embedded Graphviz (goccy/go-graphviz, no system
// install needed) and produces SVG or PNG.
//
//	g := tasks.BuildGraph(ts)
//	dot := render.ToDOT(g, cycles.Detect(g), render.Options{Labels: render.TaskLabels(ts)})
//	svg, err := render.RenderSVG(dot)
package render
