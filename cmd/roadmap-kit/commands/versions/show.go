package versions

import (
	"github.com/spf13/cobra"

	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/clierr"
	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/workspace"
	"github.com/hacklet1101/roadmap-kit/internal/roadmap"
)

// NewShowCommand prints one snapshot as roadmap JSON.
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a snapshot as roadmap JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := workspace.Resolve(cmd, true)
			if err != nil {
				return err
			}
			v, err := ws.Versions().Get(args[0])
			if err != nil {
				return storeError("versions show", err)
			}
			doc, err := v.Roadmap()
			if err != nil {
				return storeError("versions show", err)
			}
			data, err := roadmap.Encode(doc)
			if err != nil {
				return clierr.Wrap(clierr.CodeFailure, "versions show", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	workspace.AddFlags(cmd)
	return cmd
}
