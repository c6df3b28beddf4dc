package analysis_test

import (
	"fmt"

	"github.com/matzehuels/taskflow/pkg/analysis"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

func ExampleCompute() {
	ts := []tasks.Task{
		{ID: 1, Dependencies: "3"},
		{ID: 2, Dependencies: "1"},
		{ID: 3, Dependencies: "2, 7"},
	}

	r := analysis.Compute(ts, analysis.Options{})
	fmt.Println(r.CycleCount, r.Cycles[0])
	fmt.Println(r.Unresolved)
	// Output:
	// 1 1 → 3 → 2 → 1
	// [{3 7}]
}
