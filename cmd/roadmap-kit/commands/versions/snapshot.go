package versions

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/clierr"
	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/workspace"
)

// NewSnapshotCommand stores the current roadmap as a new snapshot.
func NewSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Snapshot the current roadmap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := cmd.Flags().GetString("message")
			if err != nil {
				return clierr.Usage("versions snapshot: get message flag: %v", err)
			}
			ws, err := workspace.Resolve(cmd, true)
			if err != nil {
				return err
			}
			doc, err := ws.Documents().Load()
			if err != nil {
				return storeError("versions snapshot", err)
			}
			v, err := ws.Versions().Snapshot(doc, workspace.Author(cmd), message)
			if err != nil {
				return storeError("versions snapshot", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.New(color.FgGreen).Sprint("✔ Snapshot created:"), v.ID)
			return nil
		},
	}

	workspace.AddFlags(cmd)
	workspace.AddAuthorFlag(cmd)
	cmd.Flags().StringP("message", "m", "Manual snapshot", "snapshot description")
	return cmd
}
