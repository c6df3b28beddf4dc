package tasks

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/taskflow/pkg/cycles"
	"github.com/matzehuels/taskflow/pkg/graph"
)

// None is the dependency specification meaning "no dependencies".
const None = "Ninguna"

// Task is a unit of work with an identifier and a raw dependency
// specification. Name, Duration, Unit and Priority are carried for display
// only and are never validated.
type Task struct {
	ID           int     `json:"id" toml:"id" bson:"id"`
	Name         string  `json:"name,omitempty" toml:"name" bson:"name,omitempty"`
	Duration     float64 `json:"duration,omitempty" toml:"duration" bson:"duration,omitempty"`
	Unit         string  `json:"unit,omitempty" toml:"unit" bson:"unit,omitempty"`
	Priority     string  `json:"priority,omitempty" toml:"priority" bson:"priority,omitempty"`
	Dependencies string  `json:"dependencies" toml:"dependencies" bson:"dependencies"`
}

// Deps parses the task's dependency specification with [ParseDependencies].
func (t Task) Deps() []int { return ParseDependencies(t.Dependencies) }

// IsCritical reports whether the task carries a critical priority label.
func (t Task) IsCritical() bool {
	return t.Priority == "Critical" || t.Priority == "Crítica"
}

// ParseDependencies parses a comma-separated list of task identifiers.
//
// Whitespace and byte order marks around each token are trimmed and each token is read as a
// leading integer: an optional sign followed by digits, with anything after
// the digits ignored ("3rd" yields 3). Tokens with no leading integer are
// dropped. An empty or whitespace-only specification, or [None], yields no
// dependencies. The result is never nil.
func ParseDependencies(spec string) []int {
	deps := []int{}
	if spec == None || trimToken(spec) == "" {
		return deps
	}
	for _, tok := range strings.Split(spec, ",") {
		if n, ok := leadingInt(trimToken(tok)); ok {
			deps = append(deps, n)
		}
	}
	return deps
}

// trimToken strips surrounding whitespace and U+FEFF, which spreadsheet
// exports leave at the start of cells.
func trimToken(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})
}

// FormatDependencies is the inverse of ParseDependencies for well-formed
// input: it joins ids with ", ", or returns [None] when ids is empty.
func FormatDependencies(ids []int) string {
	if len(ids) == 0 {
		return None
	}
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}

// BuildGraph builds the dependency graph of ts in task order. A task whose
// ID repeats an earlier one replaces that task's dependencies.
func BuildGraph(ts []Task) *graph.Graph[int] {
	g := graph.New[int]()
	for _, t := range ts {
		g.Set(t.ID, t.Deps())
	}
	return g
}

// DetectCycles returns every dependency cycle among ts, each rendered in
// canonical rotation as "1 → 2 → 1", in discovery order. It returns an empty
// slice for an acyclic task set. Malformed dependency tokens and references
// to unknown tasks are ignored.
func DetectCycles(ts []Task) []string {
	return cycles.Strings(cycles.Detect(BuildGraph(ts)))
}

// CountCritical returns how many tasks carry a critical priority.
func CountCritical(ts []Task) int {
	n := 0
	for _, t := range ts {
		if t.IsCritical() {
			n++
		}
	}
	return n
}

var leadingIntRe = regexp.MustCompile(`^[+-]?[0-9]+`)

// leadingInt parses an optional sign followed by at least one decimal digit
// at the start of s. Values that overflow int are rejected.
func leadingInt(s string) (int, bool) {
	m := leadingIntRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
