package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskflow/pkg/analysis"
)

type checkOptions struct {
	input       inputFlags
	json        bool
	failOnCycle bool
	strict      bool
	noCache     bool
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Report dependency cycles in a task list",
		Long: `Check loads a task list and reports every circular dependency in it.

Tasks come from a JSON, TOML or HCL file, from stdin ("-"), or from the
configured source. Use --fail-on-cycle in scripts: the command then exits
with status 2 when cycles are found.`,
		Example: `  taskflow check tasks.json
  taskflow check --sample
  taskflow check --project web --json
  cat tasks.toml | taskflow check - --stdin-format toml --fail-on-cycle`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runCheck(cmd, path, opts)
		},
	}

	opts.input.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&opts.failOnCycle, "fail-on-cycle", false, "exit with status 2 when cycles are found")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "also fail on dependencies to unknown tasks (implies --fail-on-cycle)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable report caching")

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, path string, opts checkOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	ts, project, err := c.loadTasks(ctx, runner, path, opts.input)
	if err != nil {
		return err
	}

	report, cached, err := runner.Analyze(ctx, ts, analysis.Options{Strict: opts.strict})
	if err != nil {
		return err
	}
	logger.Debug("checked tasks", "project", project, "report", report.ID, "cached", cached)

	if opts.json {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
	} else {
		printReport(report, cached)
		if !report.Acyclic && path != "" && path != stdinPath {
			fmt.Fprintln(stdout)
			printNextStep("Visualize the cycles", "taskflow graph "+path+" -o graph.svg")
		}
	}

	if opts.failOnCycle || opts.strict {
		if err := report.Err(); err != nil {
			return errCycles(err)
		}
	}
	return nil
}
