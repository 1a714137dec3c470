package versions

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/workspace"
)

// NewRestoreCommand replaces the roadmap with a snapshot.
func NewRestoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore the roadmap from a snapshot",
		Long: `Replace roadmap.json with the given snapshot. The current roadmap is
snapshotted first as "Before restore to <id>".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := workspace.Resolve(cmd, true)
			if err != nil {
				return err
			}
			doc, err := ws.Versions().Restore(args[0], ws.Documents(), workspace.Author(cmd))
			if err != nil {
				return storeError("versions restore", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d features, %d tasks)\n",
				color.New(color.FgGreen).Sprint("✔ Restored"), args[0], len(doc.Features), doc.TaskCount())
			return nil
		},
	}

	workspace.AddFlags(cmd)
	workspace.AddAuthorFlag(cmd)
	return cmd
}
