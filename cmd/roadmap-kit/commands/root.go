// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Roadmap Kit - Roadmap Kit keeps a project's roadmap.json in sync with the tagged commits of its Git repository.
It parses commit messages for task, status and technical-debt tags and reconciles them into a persistent feature/task graph.

Copyright (C) 2025  The Roadmap Kit Authors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/commands/versions"
	"github.com/hacklet1101/roadmap-kit/internal/logging"
)

// NewRootCmd constructs the roadmap-kit root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("ROADMAP_KIT_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:   "roadmap-kit",
		Short: "Keep roadmap.json in sync with tagged Git commits",
		Long: `roadmap-kit tracks features and tasks in a roadmap.json file and updates
them from commit messages tagged with [task:<id>], [status:<state>] and [debt:<text>].`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			log, err := logging.New(verbose)
			if err != nil {
				return err
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), log))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.FromContext(cmd.Context()).Sync()
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of roadmap-kit",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "roadmap-kit version %s\n", version)
		},
	})

	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewStatusCommand())
	cmd.AddCommand(versions.NewVersionsCommand())

	return cmd
}
