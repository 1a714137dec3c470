// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Roadmap Kit - Roadmap Kit keeps a project's roadmap.json in sync with the tagged commits of its Git repository.
It parses commit messages for task, status and technical-debt tags and reconciles them into a persistent feature/task graph.

Copyright (C) 2025  The Roadmap Kit Authors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package versions contains the roadmap snapshot subcommands.
package versions

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/clierr"
	"github.com/hacklet1101/roadmap-kit/internal/store"
)

// NewVersionsCommand returns the `roadmap-kit versions` command.
func NewVersionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Manage roadmap snapshots",
		Long: `Snapshots of roadmap.json are kept newest first in versions.json next to the
roadmap. Restoring a snapshot first snapshots the current roadmap.`,
	}

	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewShowCommand())
	cmd.AddCommand(NewSnapshotCommand())
	cmd.AddCommand(NewRestoreCommand())

	return cmd
}

func storeError(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return clierr.Wrap(clierr.CodeFailure, op+`: run "roadmap-kit init" first`, err)
	}
	return clierr.Wrap(clierr.CodeFailure, op, err)
}
