package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/taskflow/pkg/analysis"
	"github.com/matzehuels/taskflow/pkg/buildinfo"
	"github.com/matzehuels/taskflow/pkg/cycles"
	"github.com/matzehuels/taskflow/pkg/errors"
	"github.com/matzehuels/taskflow/pkg/render"
	"github.com/matzehuels/taskflow/pkg/source"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

type healthResponse struct {
	Status string         `json:"status"`
	Source string         `json:"source"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Source: s.provider.Name(),
		Build:  buildinfo.Get(),
	})
}

// analyzeResponse is a report plus whether it came from the cache.
type analyzeResponse struct {
	*analysis.Report
	Cached bool `json:"cached"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ts, err := s.decodeTasks(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report, hit, err := s.runner.Analyze(r.Context(), ts, options(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Report: report, Cached: hit})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	l, err := source.AsLister(s.provider)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	projects, err := l.Projects(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if projects == nil {
		projects = []source.Project{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	ts, err := s.runner.Load(r.Context(), s.provider, chi.URLParam(r, "project"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks.Document{Tasks: ts})
}

func (s *Server) handlePutTasks(w http.ResponseWriter, r *http.Request) {
	wr, err := source.AsWriter(s.provider)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ts, err := s.decodeTasks(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	project := chi.URLParam(r, "project")
	if err := wr.Save(r.Context(), project, ts); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("saved project", "project", project, "tasks", len(ts))

	report, hit, err := s.runner.Analyze(r.Context(), ts, options(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Report: report, Cached: hit})
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	report, hit, err := s.runner.AnalyzeProject(r.Context(), s.provider, chi.URLParam(r, "project"), options(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Report: report, Cached: hit})
}

var contentTypes = map[string]string{
	render.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	render.FormatSVG: "image/svg+xml",
	render.FormatPNG: "image/png",
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	ctype, ok := contentTypes[format]
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unsupported graph format %q", format))
		return
	}

	project := chi.URLParam(r, "project")
	ts, err := s.runner.Load(r.Context(), s.provider, project)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	g := tasks.BuildGraph(ts)
	dot := render.ToDOT(g, cycles.Detect(g), render.Options{Labels: render.TaskLabels(ts), Title: project})
	out, err := render.Render(r.Context(), dot, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	_, _ = w.Write(out)
}

// decodeTasks reads a task list body: a bare JSON array or {"tasks": [...]}.
func (s *Server) decodeTasks(w http.ResponseWriter, r *http.Request) ([]tasks.Task, error) {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	ts, err := tasks.DecodeJSON(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid task list")
	}
	if ts == nil {
		ts = []tasks.Task{}
	}
	return ts, nil
}

// options reads ?strict=true.
func options(r *http.Request) analysis.Options {
	strict, _ := strconv.ParseBool(r.URL.Query().Get("strict"))
	return analysis.Options{Strict: strict}
}
