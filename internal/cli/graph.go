package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskflow/pkg/cycles"
	"github.com/matzehuels/taskflow/pkg/errors"
	"github.com/matzehuels/taskflow/pkg/render"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

type graphOptions struct {
	input  inputFlags
	format string
	output string
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOptions

	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Render the task dependency graph",
		Long: `Graph renders the dependency graph of a task list as DOT, SVG or PNG.
Edges and tasks on a cycle are highlighted, and references to unknown
tasks are drawn dashed.

Without --format, the format follows the extension of --output, and DOT
is written when there is none.`,
		Example: `  taskflow graph tasks.json -o graph.svg
  taskflow graph --sample --format dot | dot -Tpng > graph.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runGraph(cmd, path, opts)
		},
	}

	opts.input.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, path string, opts graphOptions) error {
	ctx := cmd.Context()

	format, err := graphFormat(opts.format, opts.output)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, true)
	defer runner.Close()

	ts, project, err := c.loadTasks(ctx, runner, path, opts.input)
	if err != nil {
		return err
	}

	g := tasks.BuildGraph(ts)
	dot := render.ToDOT(g, cycles.Detect(g), render.Options{
		Labels: render.TaskLabels(ts),
		Title:  project,
	})
	data, err := render.Render(ctx, dot, format)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.output)
	}
	printSuccess("Rendered %s", plural(g.NodeCount(), "task"))
	printFile(opts.output)
	return nil
}

// graphFormat resolves the output format from the flag or the output
// file's extension.
func graphFormat(flag, output string) (string, error) {
	format := strings.ToLower(flag)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
		if format == "" || format == "gv" {
			format = render.FormatDOT
		}
	}
	if !slices.Contains(render.Formats, format) {
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported format %q (want one of %v)", format, render.Formats)
	}
	return format, nil
}
