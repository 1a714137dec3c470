package commands

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/clierr"
	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/workspace"
	"github.com/hacklet1101/roadmap-kit/internal/report"
	"github.com/hacklet1101/roadmap-kit/internal/store"
)

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show feature and task progress",
		Long: `Summarize the roadmap: per-feature task counts, progress and open technical
debt. Progress is recomputed in memory; the roadmap file is not modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatFlag, err := cmd.Flags().GetString("format")
			if err != nil {
				return clierr.Usage("status: get format flag: %v", err)
			}
			format, err := report.ParseFormat(formatFlag)
			if err != nil {
				return clierr.Usage("status: %v", err)
			}
			outputPath, err := cmd.Flags().GetString("output")
			if err != nil {
				return clierr.Usage("status: get output flag: %v", err)
			}

			ws, err := workspace.Resolve(cmd, true)
			if err != nil {
				return err
			}
			doc, err := ws.Documents().Load()
			if errors.Is(err, store.ErrNotFound) {
				return clierr.Wrap(clierr.CodeFailure, `status: run "roadmap-kit init" first`, err)
			}
			if err != nil {
				return clierr.Wrap(clierr.CodeFailure, "status", err)
			}
			stats := report.Build(doc)

			if outputPath == "" {
				if err := report.Render(cmd.OutOrStdout(), stats, format); err != nil {
					return clierr.Wrap(clierr.CodeFailure, "status: render", err)
				}
				return nil
			}

			if format == report.FormatText {
				color.NoColor = true
			}
			var buf bytes.Buffer
			if err := report.Render(&buf, stats, format); err != nil {
				return clierr.Wrap(clierr.CodeFailure, "status: render", err)
			}
			if err := store.WriteFileAtomic(outputPath, buf.Bytes()); err != nil {
				return clierr.Wrapf(clierr.CodeFailure, err, "status: write output %q", outputPath)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outputPath)
			return nil
		},
	}

	workspace.AddFlags(cmd)
	cmd.Flags().String("format", string(report.FormatText), "output format: text, markdown or json")
	cmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	return cmd
}
