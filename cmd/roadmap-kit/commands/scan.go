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
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/clierr"
	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/workspace"
	"github.com/hacklet1101/roadmap-kit/internal/gitlog"
	"github.com/hacklet1101/roadmap-kit/internal/logging"
	"github.com/hacklet1101/roadmap-kit/internal/scan"
	"github.com/hacklet1101/roadmap-kit/internal/store"
	"github.com/hacklet1101/roadmap-kit/internal/watch"
)

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Update the roadmap from tagged commits since the last sync",
		Long: `Walk the newest commits since the roadmap's last_sync, apply their
[task:<id>], [status:<state>] and [debt:<text>] tags to the matching tasks,
recompute progress and write the roadmap back.

With --watch the scan reruns whenever the repository's branches move.`,
		Args: cobra.NoArgs,
		RunE: runScan,
	}

	workspace.AddFlags(cmd)
	workspace.AddAuthorFlag(cmd)
	cmd.Flags().Int("max-commits", 0, "maximum number of commits to inspect (default from config, 50)")
	cmd.Flags().Bool("snapshot", false, "snapshot the roadmap into versions.json before writing")
	cmd.Flags().BoolP("watch", "w", false, "keep running and rescan when new commits appear")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	maxCommits, err := cmd.Flags().GetInt("max-commits")
	if err != nil {
		return clierr.Usage("scan: get max-commits flag: %v", err)
	}
	if maxCommits < 0 {
		return clierr.Usage("scan: --max-commits must not be negative")
	}
	snapshot, err := cmd.Flags().GetBool("snapshot")
	if err != nil {
		return clierr.Usage("scan: get snapshot flag: %v", err)
	}
	watching, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return clierr.Usage("scan: get watch flag: %v", err)
	}

	ws, err := workspace.Resolve(cmd, true)
	if err != nil {
		return err
	}
	log := logging.FromContext(cmd.Context())

	repo, err := gitlog.Open(ws.Root)
	if err != nil {
		return clierr.Wrap(clierr.CodeFailure, "scan", err)
	}

	opts := scan.Options{
		MaxCommits:  ws.Config.Scan.MaxCommits,
		StatWorkers: ws.Config.Scan.StatWorkers,
		Author:      workspace.Author(cmd),
	}
	if maxCommits > 0 {
		opts.MaxCommits = maxCommits
	}
	if snapshot || ws.Config.Scan.Snapshot {
		opts.Snapshots = ws.Versions()
	}

	out := cmd.OutOrStdout()
	orch := scan.New(repo, ws.Documents(), opts, out, log)
	runOnce := func(ctx context.Context) error {
		_, _ = fmt.Fprintln(out, color.New(color.FgCyan).Sprint("Scanning Git history..."))
		summary, err := orch.Scan(ctx)
		if err != nil {
			return scanError(err, ws)
		}
		printSummary(out, summary)
		return nil
	}

	if !watching {
		return runOnce(cmd.Context())
	}
	return watchAndScan(cmd, repo, ws, runOnce, log)
}

func watchAndScan(cmd *cobra.Command, repo *gitlog.Repo, ws *workspace.Workspace, runOnce func(context.Context) error, log *zap.Logger) error {
	ctx := cmd.Context()
	red := color.New(color.FgRed).SprintFunc()
	errOut := cmd.ErrOrStderr()

	if err := runOnce(ctx); err != nil {
		if errors.Is(err, gitlog.ErrNotRepository) {
			return err
		}
		_, _ = fmt.Fprintln(errOut, red(err.Error()))
	}

	gitDir, err := repo.GitDir(ctx)
	if err != nil {
		return clierr.Wrap(clierr.CodeFailure, "scan --watch", err)
	}
	w, err := watch.New(watch.GitPaths(gitDir), ws.Config.Watch.Debounce, log)
	if err != nil {
		return clierr.Wrap(clierr.CodeFailure, "scan --watch", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.New(color.FgHiBlack).Sprint("Watching for new commits (Ctrl+C to stop)..."))
	return w.Run(ctx, func(ctx context.Context) {
		if err := runOnce(ctx); err != nil && ctx.Err() == nil {
			_, _ = fmt.Fprintln(errOut, red(err.Error()))
		}
	})
}

func scanError(err error, ws *workspace.Workspace) error {
	switch {
	case errors.Is(err, gitlog.ErrNotRepository):
		return clierr.Wrapf(clierr.CodeFailure, err, "%s (initialize Git first: git init)", ws.Root)
	case errors.Is(err, store.ErrNotFound):
		return clierr.Wrap(clierr.CodeFailure, `run "roadmap-kit init" first`, err)
	case errors.Is(err, context.Canceled):
		return clierr.Wrap(clierr.CodeFailure, "scan interrupted, roadmap left unchanged", err)
	default:
		return clierr.Wrap(clierr.CodeFailure, "error scanning Git history", err)
	}
}

func printSummary(out io.Writer, s scan.Summary) {
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	_, _ = fmt.Fprintf(out, "%s\n", green("✔ Roadmap updated successfully"))
	_, _ = fmt.Fprintf(out, "\n%s\n", cyan("Summary:"))
	_, _ = fmt.Fprintf(out, "  • Processed commits: %d\n", s.ProcessedCommits)
	_, _ = fmt.Fprintf(out, "  • Updated tasks: %d\n", s.UpdatedTasks)
	_, _ = fmt.Fprintf(out, "  • New technical debts: %d\n", s.NewDebts)
	_, _ = fmt.Fprintf(out, "  %s\n", green(fmt.Sprintf("• Total progress: %d%%", s.TotalProgress)))
	if len(s.UnmatchedTasks) > 0 {
		_, _ = fmt.Fprintf(out, "  %s\n", yellow("• Unmatched tasks: "+strings.Join(s.UnmatchedTasks, ", ")))
	}
	if s.NeedsTagHint() {
		_, _ = fmt.Fprintf(out, "\n%s\n", yellow("Tip: Use commit tags like [task:id] [status:completed] to track tasks"))
	}
}
