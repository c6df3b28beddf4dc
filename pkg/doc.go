// Package pkg provides the core libraries for Taskflow dependency-cycle
// analysis.
//
// # Overview
//
// Taskflow reads task lists, builds the dependency graph implied by each
// task's "dependencies" field and reports every circular dependency. The
// pkg directory is organized into three areas:
//
//  1. Domain logic: [tasks], [graph], [cycles], [analysis]
//  2. Infrastructure: [cache], [source], [config], [observability], [errors]
//  3. Output: [render], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	JSON/TOML/HCL file, Redis, MongoDB
//	         ↓
//	    [source] package (load a project's tasks)
//	         ↓
//	    [tasks] package (parse dependencies, build the graph)
//	         ↓
//	    [cycles] package (depth-first cycle detection)
//	         ↓
//	    [analysis] package (report, cached by task hash)
//	         ↓
//	    terminal, JSON, HTTP, DOT/SVG/PNG
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/taskflow/pkg/source"
//	    "github.com/matzehuels/taskflow/pkg/tasks"
//	)
//
//	for _, c := range tasks.DetectCycles(source.SampleTasks()) {
//	    fmt.Println(c) // e.g. "1 → 3 → 2 → 1"
//	}
//
// For cached analysis with load and analyze hooks, use [analysis.Runner].
package pkg
