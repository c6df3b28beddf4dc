package analysis

import (
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/taskflow/pkg/cache"
	"github.com/matzehuels/taskflow/pkg/cycles"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

var (
	// ErrCyclic is returned by [Report.Err] when the task set has cycles.
	ErrCyclic = stderrors.New("task dependencies contain cycles")

	// ErrUnresolved is returned by [Report.Err] in strict mode when a task
	// depends on an id that no task carries.
	ErrUnresolved = stderrors.New("task dependencies reference unknown tasks")
)

// Reference is a dependency on a task id that is not in the task set.
type Reference struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Report is the result of analyzing one task set.
//
// ID is unique to each response, including those served from the cache.
// GeneratedAt is when the analysis was computed and is kept on cache hits.
type Report struct {
	ID            string      `json:"id"`
	TaskHash      string      `json:"task_hash"`
	TaskCount     int         `json:"task_count"`
	EdgeCount     int         `json:"edge_count"`
	CriticalCount int         `json:"critical_count"`
	Cycles        []string    `json:"cycles"`
	CycleCount    int         `json:"cycle_count"`
	Unresolved    []Reference `json:"unresolved"`
	Acyclic       bool        `json:"acyclic"`
	Strict        bool        `json:"strict,omitempty"`
	GeneratedAt   time.Time   `json:"generated_at"`
}

// Options controls how a report is judged.
type Options struct {
	// Strict makes unresolved references fail [Report.Err].
	Strict bool
}

// Compute analyzes ts without caching. Duplicate ids keep the position of
// their first occurrence and the dependencies of their last.
func Compute(ts []tasks.Task, opts Options) *Report {
	g := tasks.BuildGraph(ts)
	found := cycles.Strings(cycles.Detect(g))

	unresolved := []Reference{}
	for _, e := range g.Unresolved() {
		unresolved = append(unresolved, Reference{From: e.From, To: e.To})
	}

	return &Report{
		ID:            uuid.NewString(),
		TaskHash:      TaskHash(ts),
		TaskCount:     g.NodeCount(),
		EdgeCount:     g.EdgeCount(),
		CriticalCount: tasks.CountCritical(ts),
		Cycles:        found,
		CycleCount:    len(found),
		Unresolved:    unresolved,
		Acyclic:       len(found) == 0,
		Strict:        opts.Strict,
		GeneratedAt:   time.Now().UTC(),
	}
}

// TaskHash returns the content hash of ts. Any change to a task, including
// display fields and order, changes the hash.
func TaskHash(ts []tasks.Task) string {
	if ts == nil {
		ts = []tasks.Task{}
	}
	data, _ := json.Marshal(ts)
	return cache.Hash(data)
}

// Err returns ErrCyclic when the report found cycles, ErrUnresolved when it
// was computed in strict mode and found unknown references, and nil
// otherwise.
func (r *Report) Err() error {
	switch {
	case !r.Acyclic:
		return ErrCyclic
	case r.Strict && len(r.Unresolved) > 0:
		return ErrUnresolved
	}
	return nil
}
