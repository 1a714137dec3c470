package versions

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/workspace"
)

// NewListCommand lists stored snapshots.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List roadmap snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := workspace.Resolve(cmd, true)
			if err != nil {
				return err
			}
			infos, err := ws.Versions().List()
			if err != nil {
				return storeError("versions list", err)
			}

			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				_, _ = fmt.Fprintln(out, color.New(color.FgHiBlack).Sprint("No snapshots"))
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tCREATED\tAUTHOR\tFEATURES\tTASKS\tDESCRIPTION")
			for _, v := range infos {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
					v.ID, v.Timestamp.Local().Format(time.DateTime), v.UserName, v.FeaturesCount, v.TasksCount, v.Description)
			}
			return tw.Flush()
		},
	}

	workspace.AddFlags(cmd)
	return cmd
}
