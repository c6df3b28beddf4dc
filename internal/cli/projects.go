package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskflow/pkg/source"
)

// projectsCommand creates the projects command.
func (c *CLI) projectsCommand() *cobra.Command {
	var (
		sample bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the projects stored in the configured source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := c.openSource(ctx, "", sample)
			if err != nil {
				return err
			}
			defer p.Close()

			lister, err := source.AsLister(p)
			if err != nil {
				return err
			}
			projects, err := lister.Projects(ctx)
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(projects, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, string(data))
				return nil
			}
			if len(projects) == 0 {
				printInfo("No projects in %s", p.Name())
				printNextStep("Import one", "taskflow import tasks.json --project web")
				return nil
			}
			printProjects(projects)
			return nil
		},
	}

	cmd.Flags().BoolVar(&sample, "sample", false, "list the built-in sample project")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print projects as JSON")

	return cmd
}
