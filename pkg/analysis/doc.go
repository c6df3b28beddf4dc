// Package analysis runs cycle detection over task sets with result caching.
//
// A [Runner] is shared by the CLI and the HTTP API so that both hash task
// sets the same way and reuse each other's cached reports when they share a
// cache backend:
//
//	r := analysis.NewRunner(c, nil, logger)
//	report, hit, err := r.Analyze(ctx, ts, analysis.Options{})
//
// [Compute] is the uncached core: it builds the dependency graph, detects
// cycles and collects references to unknown tasks.
package analysis
