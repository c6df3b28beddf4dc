package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/taskflow/pkg/analysis"
	"github.com/matzehuels/taskflow/pkg/errors"
	"github.com/matzehuels/taskflow/pkg/source"
)

const cyclicJSON = `[
  {"id": 1, "name": "Design", "dependencies": "3"},
  {"id": 2, "name": "Build", "dependencies": "1"},
  {"id": 3, "name": "Ship", "priority": "Critical", "dependencies": "2"}
]`

// isolate points config and cache lookups at fresh temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	return cacheHome
}

// runCLI executes the root command with args and returns what it printed.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	prev := stdout
	stdout = &out
	t.Cleanup(func() { stdout = prev })

	c := New(io.Discard, LogInfo)
	c.stdin = strings.NewReader(stdin)

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheck_Sample(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "", "check", "--sample")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "No dependency cycles in 5 tasks") {
		t.Errorf("output missing verdict:\n%s", out)
	}
	if !strings.Contains(out, "1 critical") {
		t.Errorf("output missing critical count:\n%s", out)
	}
}

func TestCheck_CachesReports(t *testing.T) {
	isolate(t)

	if out, err := runCLI(t, "", "check", "--sample"); err != nil || !strings.Contains(out, iconFresh) {
		t.Fatalf("first run: err=%v\n%s", err, out)
	}
	out, err := runCLI(t, "", "check", "--sample")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, iconCached) {
		t.Errorf("second run should be served from cache:\n%s", out)
	}

	out, err = runCLI(t, "", "check", "--sample", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, iconCached) {
		t.Errorf("--no-cache run reported a cache hit:\n%s", out)
	}
}

func TestCheck_CyclesFromFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, "tasks.json", cyclicJSON)

	out, err := runCLI(t, "", "check", path)
	if err != nil {
		t.Fatalf("without --fail-on-cycle check should succeed: %v", err)
	}
	if !strings.Contains(out, "Found 1 dependency cycle in 3 tasks") {
		t.Errorf("output missing verdict:\n%s", out)
	}
	if !strings.Contains(out, "1 → 3 → 2 → 1") {
		t.Errorf("output missing cycle:\n%s", out)
	}

	_, err = runCLI(t, "", "check", path, "--fail-on-cycle")
	if got := ExitCode(err); got != ExitCycles {
		t.Errorf("ExitCode() = %d, want %d (err %v)", got, ExitCycles, err)
	}
}

func TestCheck_StdinJSON(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, cyclicJSON, "check", "-", "--json")
	if err != nil {
		t.Fatal(err)
	}

	var r analysis.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("output is not a report: %v\n%s", err, out)
	}
	if r.CycleCount != 1 || r.Cycles[0] != "1 → 3 → 2 → 1" {
		t.Errorf("Cycles = %v, want [1 → 3 → 2 → 1]", r.Cycles)
	}
	if r.CriticalCount != 1 {
		t.Errorf("CriticalCount = %d, want 1", r.CriticalCount)
	}
}

func TestCheck_StdinTOML(t *testing.T) {
	isolate(t)

	toml := `
[[tasks]]
id = 1
dependencies = "2"

[[tasks]]
id = 2
dependencies = "1"
`
	out, err := runCLI(t, toml, "check", "-", "--stdin-format", "toml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1 → 2 → 1") {
		t.Errorf("output missing cycle:\n%s", out)
	}
}

func TestCheck_StdinBadFormat(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "[]", "check", "-", "--stdin-format", "yaml")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestCheck_Strict(t *testing.T) {
	isolate(t)
	path := writeFile(t, "tasks.json", `[{"id": 1, "dependencies": "9"}]`)

	out, err := runCLI(t, "", "check", path)
	if err != nil {
		t.Fatalf("unresolved references alone should not fail: %v", err)
	}
	if !strings.Contains(out, "1 dependency to unknown tasks") {
		t.Errorf("output missing unresolved warning:\n%s", out)
	}

	_, err = runCLI(t, "", "check", path, "--strict")
	if got := ExitCode(err); got != ExitCycles {
		t.Errorf("ExitCode() = %d, want %d", got, ExitCycles)
	}
	if !stderrors.Is(err, analysis.ErrUnresolved) {
		t.Errorf("err = %v, want %v", err, analysis.ErrUnresolved)
	}
}

func TestCheck_MissingFile(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "", "check", filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
	if ExitCode(err) != 1 {
		t.Errorf("ExitCode() = %d, want 1", ExitCode(err))
	}
}

func TestCheck_ConfiguredFileSource(t *testing.T) {
	isolate(t)
	tasksPath := writeFile(t, "tasks.json", cyclicJSON)
	cfgPath := writeFile(t, "config.toml", fmt.Sprintf(`
[source]
kind = "file"
path = %q

[cache]
backend = "none"
`, tasksPath))

	out, err := runCLI(t, "", "--config", cfgPath, "check")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1 → 3 → 2 → 1") {
		t.Errorf("output missing cycle:\n%s", out)
	}
}

func TestConfigErrors(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "", "--config", filepath.Join(t.TempDir(), "missing.toml"), "check", "--sample")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing config: err = %v, want FILE_NOT_FOUND", err)
	}

	bad := writeFile(t, "config.toml", "[source]\nkind = \"ftp\"\n")
	_, err = runCLI(t, "", "--config", bad, "check", "--sample")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad config: err = %v, want INVALID_CONFIG", err)
	}
}

func TestGraph_DOTToStdout(t *testing.T) {
	isolate(t)
	path := writeFile(t, "tasks.json", cyclicJSON)

	out, err := runCLI(t, "", "graph", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "digraph") {
		t.Errorf("output is not DOT:\n%s", out)
	}
	if !strings.Contains(out, "#d62728") {
		t.Errorf("cycle edges not highlighted:\n%s", out)
	}
}

func TestGraph_WritesFile(t *testing.T) {
	isolate(t)
	output := filepath.Join(t.TempDir(), "graph.dot")

	out, err := runCLI(t, "", "graph", "--sample", "-o", output)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("output file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("digraph")) {
		t.Errorf("file is not DOT: %s", data)
	}
	if !strings.Contains(out, output) {
		t.Errorf("output should name the file:\n%s", out)
	}
}

func TestGraphFormat(t *testing.T) {
	tests := []struct {
		flag, output string
		want         string
		wantErr      bool
	}{
		{"", "", "dot", false},
		{"", "out.svg", "svg", false},
		{"", "out.PNG", "png", false},
		{"", "out.gv", "dot", false},
		{"SVG", "out.png", "svg", false},
		{"", "out.pdf", "", true},
		{"jpeg", "", "", true},
	}

	for _, tt := range tests {
		got, err := graphFormat(tt.flag, tt.output)
		if (err != nil) != tt.wantErr {
			t.Errorf("graphFormat(%q, %q) err = %v, wantErr %v", tt.flag, tt.output, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("graphFormat(%q, %q) = %q, want %q", tt.flag, tt.output, got, tt.want)
		}
	}
}

func TestProjects_Sample(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "", "projects", "--sample", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var projects []source.Project
	if err := json.Unmarshal([]byte(out), &projects); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(projects) != 1 || projects[0].ID != source.DefaultProject || projects[0].TaskCount != 5 {
		t.Errorf("projects = %+v, want the default sample project", projects)
	}
}

func TestProjects_Unsupported(t *testing.T) {
	isolate(t)
	cfgPath := writeFile(t, "config.toml", fmt.Sprintf("[source]\nkind = \"file\"\npath = %q\n", writeFile(t, "t.json", "[]")))

	_, err := runCLI(t, "", "--config", cfgPath, "projects")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}

func TestImport_IntoSampleSource(t *testing.T) {
	isolate(t)
	path := writeFile(t, "tasks.json", cyclicJSON)

	out, err := runCLI(t, "", "import", path, "--project", "web")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Imported 3 tasks into static/web") {
		t.Errorf("output missing import summary:\n%s", out)
	}
	if !strings.Contains(out, "1 → 3 → 2 → 1") {
		t.Errorf("output missing cycle report:\n%s", out)
	}
}

func TestImport_FileSourceIsReadOnly(t *testing.T) {
	isolate(t)
	tasksPath := writeFile(t, "tasks.json", cyclicJSON)
	cfgPath := writeFile(t, "config.toml", fmt.Sprintf("[source]\nkind = \"file\"\npath = %q\n", tasksPath))

	_, err := runCLI(t, "", "--config", cfgPath, "import", tasksPath)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}

func TestCache_PathAndClear(t *testing.T) {
	cacheHome := isolate(t)

	out, err := runCLI(t, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(cacheHome, "taskflow")
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}

	if out, err := runCLI(t, "", "cache", "clear"); err != nil || !strings.Contains(out, "Cache is empty") {
		t.Fatalf("clear on empty cache: err=%v\n%s", err, out)
	}

	if _, err := runCLI(t, "", "check", "--sample"); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, "", "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared 1 cached entry") {
		t.Errorf("clear output:\n%s", out)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "", "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "taskflow") {
		t.Errorf("completion script does not mention taskflow")
	}

	if _, err := runCLI(t, "", "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", fmt.Errorf("boom"), 1},
		{"cancelled", fmt.Errorf("load: %w", context.Canceled), ExitCancelled},
		{"exit error", errCycles(analysis.ErrCyclic), ExitCycles},
		{"wrapped exit error", fmt.Errorf("run: %w", &ExitError{Code: 7, Err: io.EOF}), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		noun string
		want string
	}{
		{1, "task", "1 task"},
		{0, "task", "0 tasks"},
		{2, "dependency", "2 dependencies"},
		{1, "cached entry", "1 cached entry"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, tt.noun); got != tt.want {
			t.Errorf("plural(%d, %q) = %q, want %q", tt.n, tt.noun, got, tt.want)
		}
	}
}
