package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/clierr"
	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/workspace"
	"github.com/hacklet1101/roadmap-kit/internal/initializer"
	"github.com/hacklet1101/roadmap-kit/internal/logging"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter roadmap.json for the project",
		Long: `Detect the project environment from its manifest files and write a starter
roadmap.json. An existing roadmap is only replaced with --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return clierr.Usage("init: get force flag: %v", err)
			}
			ws, err := workspace.Resolve(cmd, false)
			if err != nil {
				return err
			}

			res, err := initializer.Init(initializer.Options{
				Root:        ws.Root,
				RoadmapPath: ws.RoadmapPath,
				Force:       force,
				Logger:      logging.FromContext(cmd.Context()),
			})
			if errors.Is(err, initializer.ErrExists) {
				return clierr.Newf(clierr.CodeFailure, "%s already exists (use --force to overwrite)", ws.Describe())
			}
			if err != nil {
				return clierr.Wrap(clierr.CodeFailure, "init", err)
			}

			out := cmd.OutOrStdout()
			green := color.New(color.FgGreen).SprintFunc()
			cyan := color.New(color.FgCyan).SprintFunc()

			_, _ = fmt.Fprintf(out, "Detected %s project\n", res.Environment)
			_, _ = fmt.Fprintf(out, "%s %s\n", green("✔ Roadmap initialized:"), ws.Describe())
			_, _ = fmt.Fprintf(out, "\n%s\n", cyan("Next steps:"))
			_, _ = fmt.Fprintf(out, "  1. Edit %s to add your features and tasks\n", ws.Describe())
			_, _ = fmt.Fprintln(out, `  2. Reference tasks in commits: git commit -m "[task:<id>] [status:in_progress] ..."`)
			_, _ = fmt.Fprintln(out, `  3. Run "roadmap-kit scan" to sync with Git`)
			_, _ = fmt.Fprintln(out, `  4. Run "roadmap-kit status" to view progress`)
			return nil
		},
	}

	workspace.AddFlags(cmd)
	cmd.Flags().BoolP("force", "f", false, "overwrite an existing roadmap")
	return cmd
}
