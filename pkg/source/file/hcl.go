package file

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/matzehuels/taskflow/pkg/tasks"
)

// hclTaskFile is the top-level structure of an HCL task file.
type hclTaskFile struct {
	Tasks []*hclTask `hcl:"task,block"`
}

// hclTask is one task block:
//
//	task "3" {
//	  name         = "Frontend development"
//	  priority     = "Medium"
//	  dependencies = [1, 2]   # or "1, 2"
//	}
type hclTask struct {
	ID           string         `hcl:"id,label"`
	Name         string         `hcl:"name,optional"`
	Duration     float64        `hcl:"duration,optional"`
	Unit         string         `hcl:"unit,optional"`
	Priority     string         `hcl:"priority,optional"`
	Dependencies hcl.Expression `hcl:"dependencies,optional"`
}

func decodeHCL(filename string, data []byte) ([]tasks.Task, error) {
	f, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var parsed hclTaskFile
	if diags := gohcl.DecodeBody(f.Body, nil, &parsed); diags.HasErrors() {
		return nil, diags
	}

	out := make([]tasks.Task, 0, len(parsed.Tasks))
	for _, b := range parsed.Tasks {
		id, err := strconv.Atoi(b.ID)
		if err != nil {
			return nil, fmt.Errorf("task %q: label must be an integer id", b.ID)
		}
		deps, err := hclDependencies(b.Dependencies)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", id, err)
		}
		out = append(out, tasks.Task{
			ID:           id,
			Name:         b.Name,
			Duration:     b.Duration,
			Unit:         b.Unit,
			Priority:     b.Priority,
			Dependencies: deps,
		})
	}
	return out, nil
}

// hclDependencies turns the dependencies attribute into the raw string form.
// A string is kept verbatim; a number or list of numbers is formatted with
// tasks.FormatDependencies; a missing attribute means no dependencies.
func hclDependencies(expr hcl.Expression) (string, error) {
	if expr == nil {
		return tasks.None, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() {
		return tasks.None, nil
	}
	if !val.IsWhollyKnown() {
		return "", fmt.Errorf("dependencies must be a constant")
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		var n int
		if err := gocty.FromCtyValue(val, &n); err != nil {
			return "", fmt.Errorf("dependencies: %w", err)
		}
		return tasks.FormatDependencies([]int{n}), nil
	case ty.IsTupleType() || ty.IsListType():
		ids := make([]int, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			var n int
			if err := gocty.FromCtyValue(ev, &n); err != nil {
				return "", fmt.Errorf("dependencies: %w", err)
			}
			ids = append(ids, n)
		}
		return tasks.FormatDependencies(ids), nil
	}
	return "", fmt.Errorf("dependencies must be a string or a list of ids, got %s", ty.FriendlyName())
}
