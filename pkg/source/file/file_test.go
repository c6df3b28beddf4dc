package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/taskflow/pkg/errors"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

func load(t *testing.T, path string) []tasks.Task {
	t.Helper()
	p, err := New(path)
	require.NoError(t, err)
	ts, err := p.Load(context.Background(), "ignored")
	require.NoError(t, err)
	return ts
}

func TestLoadJSON(t *testing.T) {
	ts := load(t, "testdata/sample.json")

	require.Len(t, ts, 5)
	assert.Equal(t, tasks.Task{
		ID: 5, Name: "Deploy to production", Duration: 2, Unit: "Minutos",
		Priority: "Critical", Dependencies: "4, 3, 1",
	}, ts[4])
	assert.Empty(t, tasks.DetectCycles(ts))
}

func TestLoadTOML(t *testing.T) {
	ts := load(t, "testdata/cyclic.toml")

	require.Len(t, ts, 3)
	assert.Equal(t, "Review migration", ts[1].Name)
	assert.Equal(t, []string{"1 → 3 → 2 → 1"}, tasks.DetectCycles(ts))
}

func TestLoadHCL(t *testing.T) {
	ts := load(t, "testdata/plan.hcl")

	require.Len(t, ts, 4)
	assert.Equal(t, tasks.None, ts[0].Dependencies)
	assert.Equal(t, 5.0, ts[0].Duration)
	assert.Equal(t, "1", ts[1].Dependencies)
	assert.Equal(t, "1, 2", ts[2].Dependencies)
	assert.Equal(t, "3", ts[3].Dependencies)
	assert.Equal(t, []int{1, 2}, ts[2].Deps())
}

func TestDecodeHCL_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"non-integer label", `task "a" {}`},
		{"fractional dependency", `task "1" { dependencies = [1.5] }`},
		{"bool dependency", `task "1" { dependencies = true }`},
		{"unknown attribute", `task "1" { owner = "me" }`},
		{"syntax error", `task "1" {`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(HCL, "bad.hcl", []byte(tt.src))
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "got %v", err)
		})
	}
}

func TestDecodeJSON_Document(t *testing.T) {
	ts, err := Decode(JSON, "doc.json", []byte(`{"tasks":[{"id":1,"dependencies":"1"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"1 → 1"}, tasks.DetectCycles(ts))
}

func TestDecode_InvalidInput(t *testing.T) {
	for _, f := range Formats {
		_, err := Decode(f, "bad."+string(f), []byte("{{{"))
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "%s: got %v", f, err)
	}
}

func TestDecode_EmptyTOMLAndHCL(t *testing.T) {
	for _, f := range []Format{TOML, HCL} {
		ts, err := Decode(f, "empty", nil)
		require.NoError(t, err)
		assert.NotNil(t, ts)
		assert.Empty(t, ts)
	}
}

func TestNew_UnsupportedExtension(t *testing.T) {
	_, err := New("tasks.yaml")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	_, err = New("")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath))
}

func TestLoad_Missing(t *testing.T) {
	p, err := New(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	_, err = p.Load(context.Background(), "")
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLoad_PicksUpEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.JSON")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"dependencies":"Ninguna"}]`), 0o644))

	p, err := New(path)
	require.NoError(t, err)
	ts, err := p.Load(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, ts, 1)

	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"dependencies":"2"},{"id":2,"dependencies":"1"}]`), 0o644))
	ts, err = p.Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"1 → 2 → 1"}, tasks.DetectCycles(ts))
}
