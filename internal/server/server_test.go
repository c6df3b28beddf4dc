package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/taskflow/pkg/analysis"
	"github.com/matzehuels/taskflow/pkg/source"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

func newTestServer(t *testing.T, p source.Provider) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	srv := New(p, analysis.NewRunner(nil, nil, logger), logger, Options{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func sampleServer(t *testing.T) *httptest.Server {
	t.Helper()
	p := source.NewSample()
	cyclic := append(source.SampleTasks(), tasks.Task{ID: 1, Dependencies: "5"})
	require.NoError(t, p.Save(context.Background(), "broken", cyclic))
	return newTestServer(t, p)
}

type reportBody struct {
	analysis.Report
	Cached bool `json:"cached"`
}

type errBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	ts := sampleServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[healthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "static", body.Source)
}

func TestRequestID(t *testing.T) {
	ts := sampleServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)

	const id = "6f1c2f0e-3c52-4b8e-9d4e-2b0c6a1d9e11"
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, id, resp2.Header.Get(RequestIDHeader))
}

func TestAnalyze(t *testing.T) {
	ts := sampleServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/v1/analyze", `[{"id":1,"dependencies":"2"},{"id":2,"dependencies":"1"}]`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[reportBody](t, resp)
	assert.Equal(t, []string{"1 → 2 → 1"}, body.Cycles)
	assert.Equal(t, 1, body.CycleCount)
	assert.False(t, body.Acyclic)
	assert.NotEmpty(t, body.ID)
}

func TestAnalyze_DocumentForm(t *testing.T) {
	ts := sampleServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/v1/analyze", `{"tasks":[{"id":1,"dependencies":"Ninguna"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[reportBody](t, resp)
	assert.True(t, body.Acyclic)
	assert.Equal(t, []string{}, body.Cycles)
}

func TestAnalyze_BadBody(t *testing.T) {
	ts := sampleServer(t)

	for _, payload := range []string{"", "not json", `{"tasks": 3}`} {
		resp := do(t, http.MethodPost, ts.URL+"/v1/analyze", payload)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "payload %q", payload)
		body := decode[errBody](t, resp)
		assert.Equal(t, "INVALID_INPUT", body.Error.Code)
		assert.NotEmpty(t, body.Error.RequestID)
	}
}

func TestProjects(t *testing.T) {
	ts := sampleServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/v1/projects", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Projects []source.Project `json:"projects"`
	}](t, resp)
	assert.Equal(t, []source.Project{
		{ID: source.DefaultProject, TaskCount: 5},
		{ID: "broken", TaskCount: 6},
	}, body.Projects)
}

func TestProjectCycles(t *testing.T) {
	ts := sampleServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/v1/projects/broken/cycles", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[reportBody](t, resp)
	assert.Equal(t, []string{
		"1 → 5 → 4 → 3 → 1",
		"1 → 5 → 4 → 3 → 2 → 1",
		"1 → 5 → 1",
	}, body.Cycles)

	resp = do(t, http.MethodGet, ts.URL+"/v1/projects/default/cycles", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[reportBody](t, resp).Acyclic)
}

func TestProjectErrors(t *testing.T) {
	ts := sampleServer(t)

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/v1/projects/missing/cycles", http.StatusNotFound, "PROJECT_NOT_FOUND"},
		{"/v1/projects/-bad/cycles", http.StatusBadRequest, "INVALID_PROJECT"},
		{"/v1/projects/default/graph.pdf", http.StatusBadRequest, "INVALID_FORMAT"},
		{"/v2/nothing", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+tt.path, "")
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decode[errBody](t, resp).Error.Code)
		})
	}
}

func TestPutTasks(t *testing.T) {
	ts := sampleServer(t)

	resp := do(t, http.MethodPut, ts.URL+"/v1/projects/ops/tasks?strict=true", `[{"id":1,"dependencies":"7"}]`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[reportBody](t, resp)
	assert.True(t, report.Strict)
	assert.Equal(t, []analysis.Reference{{From: 1, To: 7}}, report.Unresolved)

	resp = do(t, http.MethodGet, ts.URL+"/v1/projects/ops/tasks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := decode[tasks.Document](t, resp)
	assert.Equal(t, []tasks.Task{{ID: 1, Dependencies: "7"}}, doc.Tasks)
}

// readOnly hides the Lister and Writer methods of the wrapped provider.
type readOnly struct{ source.Provider }

func TestUnsupportedOperations(t *testing.T) {
	ts := newTestServer(t, readOnly{source.NewSample()})

	resp := do(t, http.MethodGet, ts.URL+"/v1/projects", "")
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)

	resp = do(t, http.MethodPut, ts.URL+"/v1/projects/x/tasks", `[]`)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestGraphDOT(t *testing.T) {
	ts := sampleServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/v1/projects/broken/graph.dot", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "graphviz")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"1" -> "5" [color="#d62728", penwidth=2];`)
}
