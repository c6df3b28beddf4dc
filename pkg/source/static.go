package source

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/taskflow/pkg/errors"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

// Static keeps projects in memory. It is safe for concurrent use.
type Static struct {
	mu       sync.RWMutex
	projects map[string][]tasks.Task
	order    []string
}

// NewStatic creates an empty in-memory provider.
func NewStatic() *Static {
	return &Static{projects: make(map[string][]tasks.Task)}
}

// NewSample returns a provider whose default project holds [SampleTasks].
func NewSample() *Static {
	s := NewStatic()
	_ = s.Save(context.Background(), DefaultProject, SampleTasks())
	return s
}

// Name returns "static".
func (s *Static) Name() string { return "static" }

// Load returns a copy of the project's tasks. An empty project name selects
// [DefaultProject].
func (s *Static) Load(_ context.Context, project string) ([]tasks.Task, error) {
	if project == "" {
		project = DefaultProject
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts, ok := s.projects[project]
	if !ok {
		return nil, errors.New(errors.ErrCodeProjectNotFound, "project %q not found", project)
	}
	return slices.Clone(ts), nil
}

// Save stores a copy of ts under project.
func (s *Static) Save(_ context.Context, project string, ts []tasks.Task) error {
	if err := errors.ValidateProjectID(project); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[project]; !ok {
		s.order = append(s.order, project)
	}
	s.projects[project] = slices.Clone(ts)
	return nil
}

// Projects lists projects in the order they were first saved.
func (s *Static) Projects(context.Context) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, len(s.order))
	for i, id := range s.order {
		out[i] = Project{ID: id, TaskCount: len(s.projects[id])}
	}
	return out, nil
}

// Close does nothing.
func (s *Static) Close() error { return nil }

// SampleTasks returns a small, acyclic web-project plan.
func SampleTasks() []tasks.Task {
	return []tasks.Task{
		{ID: 1, Name: "Design UI mockups", Duration: 5, Unit: "Horas", Priority: "High", Dependencies: tasks.None},
		{ID: 2, Name: "Implement backend API", Duration: 8, Unit: "Horas", Priority: "High", Dependencies: "1"},
		{ID: 3, Name: "Frontend development", Duration: 12, Unit: "Minutos", Priority: "Medium", Dependencies: "1, 2"},
		{ID: 4, Name: "Testing and QA", Duration: 4, Unit: "Horas", Priority: "High", Dependencies: "3"},
		{ID: 5, Name: "Deploy to production", Duration: 2, Unit: "Minutos", Priority: "Critical", Dependencies: "4, 3, 1"},
	}
}

var (
	_ Provider = (*Static)(nil)
	_ Lister   = (*Static)(nil)
	_ Writer   = (*Static)(nil)
)
