package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/taskflow/pkg/analysis"
	"github.com/matzehuels/taskflow/pkg/source"
	"github.com/matzehuels/taskflow/pkg/source/file"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a task file in the configured Redis or MongoDB source",
		Long: `Import reads a JSON, TOML or HCL task file and replaces the tasks of a
project in the configured source, then reports the cycles in what was
stored.`,
		Example: `  taskflow import tasks.json --project web`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			prog := newProgress(logger)

			in, err := file.New(args[0])
			if err != nil {
				return err
			}
			ts, err := in.Load(ctx, "")
			if err != nil {
				return err
			}

			p, err := c.openConfiguredSource(ctx)
			if err != nil {
				return err
			}
			defer p.Close()

			w, err := source.AsWriter(p)
			if err != nil {
				return err
			}

			project = c.project(project)
			spinner := newSpinner(ctx, "Saving tasks to "+p.Name())
			spinner.Start()
			if err := w.Save(ctx, project, ts); err != nil {
				if spinner.Cancelled() {
					spinner.Stop()
					return ctx.Err()
				}
				spinner.StopWithError("Import failed")
				return err
			}
			spinner.StopWithSuccess("Imported %s into %s/%s", plural(len(ts), "task"), p.Name(), project)
			prog.done("import finished")

			report := analysis.Compute(ts, analysis.Options{})
			printReport(report, false)
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "project to replace (default source.project)")

	return cmd
}
