package cli

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taskflow/pkg/analysis"
	"github.com/matzehuels/taskflow/pkg/errors"
	"github.com/matzehuels/taskflow/pkg/source"
	"github.com/matzehuels/taskflow/pkg/source/file"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

// stdinPath is the file argument that reads tasks from standard input.
const stdinPath = "-"

// inputFlags selects where a command reads tasks from.
type inputFlags struct {
	project     string
	sample      bool
	stdinFormat string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "project to load from the configured source")
	cmd.Flags().BoolVar(&f.sample, "sample", false, "use the built-in sample tasks")
	cmd.Flags().StringVar(&f.stdinFormat, "stdin-format", string(file.JSON), "format of tasks read from stdin (json, toml, hcl)")
}

// loadTasks reads tasks for a command and returns them with the name of the
// project they came from.
func (c *CLI) loadTasks(ctx context.Context, r *analysis.Runner, path string, in inputFlags) ([]tasks.Task, string, error) {
	if path == stdinPath {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeSourceUnavailable, err, "read stdin")
		}
		ts, err := file.Decode(file.Format(in.stdinFormat), "<stdin>", data)
		return ts, "stdin", err
	}

	p, err := c.openSource(ctx, path, in.sample)
	if err != nil {
		return nil, "", err
	}
	defer p.Close()

	project := c.project(in.project)
	if path == "" && !in.sample && in.project == "" && c.interactive() {
		if project, err = c.chooseProject(ctx, p, project); err != nil {
			return nil, "", err
		}
	}

	spinner := newSpinner(ctx, "Loading tasks from "+p.Name())
	spinner.Start()
	ts, err := r.Load(ctx, p, project)
	cancelled := spinner.Cancelled()
	spinner.Stop()
	if err != nil {
		if cancelled {
			return nil, "", ctx.Err()
		}
		return nil, "", err
	}
	return ts, project, nil
}

// interactive reports whether stdin is a terminal.
func (c *CLI) interactive() bool {
	f, ok := c.stdin.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// chooseProject lets the user pick a project when the source holds more
// than one. Otherwise it returns fallback.
func (c *CLI) chooseProject(ctx context.Context, p source.Provider, fallback string) (string, error) {
	lister, err := source.AsLister(p)
	if err != nil {
		return fallback, nil
	}
	projects, err := lister.Projects(ctx)
	if err != nil {
		return "", err
	}
	if len(projects) < 2 {
		return fallback, nil
	}

	id, err := pickProject(projects)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", context.Canceled
	}
	return id, nil
}
