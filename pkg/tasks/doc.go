// Package tasks defines the task records that feed dependency analysis and
// the forgiving parser for their dependency lists.
//
// A task's dependencies arrive as free text, typically typed into a form:
// "1, 2", "3" or the sentinel [None] ("Ninguna"). [ParseDependencies] never
// fails. It trims tokens, reads a leading integer from each and drops the
// rest, so "1, abc, 3" yields [1 3].
//
// [DetectCycles] is the one-call entry point used by callers that only need
// the rendered cycles:
//
//	cycles := tasks.DetectCycles([]tasks.Task{
//	    {ID: 1, Dependencies: "2"},
//	    {ID: 2, Dependencies: "1"},
//	})
//	// cycles == []string{"1 → 2 → 1"}
package tasks
