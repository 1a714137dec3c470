// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Roadmap Kit - Roadmap Kit keeps a project's roadmap.json in sync with the tagged commits of its Git repository.
It parses commit messages for task, status and technical-debt tags and reconciles them into a persistent feature/task graph.

Copyright (C) 2025  The Roadmap Kit Authors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package scan reconciles a repository's tagged commit history into its roadmap.
package scan

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hacklet1101/roadmap-kit/internal/gitlog"
	"github.com/hacklet1101/roadmap-kit/internal/logging"
	"github.com/hacklet1101/roadmap-kit/internal/roadmap"
	"github.com/hacklet1101/roadmap-kit/internal/store"
	"github.com/hacklet1101/roadmap-kit/internal/tags"
)

const (
	// DefaultMaxCommits caps how much history a single scan walks.
	DefaultMaxCommits = 50
	// DefaultStatWorkers bounds concurrent diff lookups.
	DefaultStatWorkers = 4
)

// Options tune a scan. Zero values select the defaults.
type Options struct {
	MaxCommits  int
	StatWorkers int

	// Snapshots, when set, receives a copy of the roadmap before a scan
	// that updates tasks writes it back.
	Snapshots store.Snapshotter
	Author    store.Author

	// Now stamps last_sync. Defaults to time.Now.
	Now func() time.Time
}

// Summary reports what one scan did.
type Summary struct {
	ProcessedCommits int
	UpdatedTasks     int
	NewDebts         int
	TotalProgress    int
	// UnmatchedTasks lists task ids referenced by commits but absent from the
	// roadmap, in first-seen order.
	UnmatchedTasks []string
}

// NeedsTagHint reports whether commits were scanned without any of them
// updating a task.
func (s Summary) NeedsTagHint() bool {
	return s.UpdatedTasks == 0 && s.ProcessedCommits > 0
}

// Orchestrator runs scans of one repository against one roadmap document.
type Orchestrator struct {
	history gitlog.History
	docs    store.Documents
	opts    Options
	out     io.Writer
	log     *zap.Logger
}

// New creates an Orchestrator. Warnings for unmatched tasks are written to out.
func New(history gitlog.History, docs store.Documents, opts Options, out io.Writer, log *zap.Logger) *Orchestrator {
	if opts.MaxCommits <= 0 {
		opts.MaxCommits = DefaultMaxCommits
	}
	if opts.StatWorkers < 1 {
		opts.StatWorkers = DefaultStatWorkers
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if out == nil {
		out = io.Discard
	}
	return &Orchestrator{history: history, docs: docs, opts: opts, out: out, log: logging.OrNop(log)}
}

type match struct {
	commit gitlog.Commit
	tags   tags.Set
	task   *roadmap.Task
}

// Scan applies every commit newer than the roadmap's last_sync watermark and
// writes the document back once. A missing repository, a missing or invalid
// roadmap, a failing history read or a cancelled context abort the scan
// without writing anything.
func (o *Orchestrator) Scan(ctx context.Context) (Summary, error) {
	var summary Summary

	ok, err := o.history.IsRepository(ctx)
	if err != nil {
		return summary, fmt.Errorf("checking repository: %w", err)
	}
	if !ok {
		return summary, gitlog.ErrNotRepository
	}

	doc, err := o.docs.Load()
	if err != nil {
		return summary, err
	}
	watermark := doc.ProjectInfo.LastSync

	commits, err := o.history.Log(ctx, o.opts.MaxCommits)
	if err != nil {
		return summary, fmt.Errorf("reading history: %w", err)
	}
	o.log.Debug("history loaded", zap.Int("commits", len(commits)), zap.Timep("last_sync", watermark))

	matches := o.collect(doc, commits, watermark, &summary)

	stats, err := o.prefetchStats(ctx, matches)
	if err != nil {
		return summary, err
	}

	if len(matches) > 0 && o.opts.Snapshots != nil {
		if _, err := o.opts.Snapshots.Snapshot(doc, o.opts.Author, "Before scan"); err != nil {
			o.log.Warn("snapshot before scan failed", zap.Error(err))
		}
	}

	// Commits arrive newest first, so the first status seen for a task is its
	// current one; older status tags only stamp their timestamps.
	statusSet := map[*roadmap.Task]bool{}
	for i, m := range matches {
		roadmap.ApplyCommit(m.task, roadmap.CommitRef{Hash: m.commit.Hash, Date: m.commit.Date}, roadmap.Update{
			Status:     m.tags.Status,
			Superseded: statusSet[m.task],
			Debts:      m.tags.Debts,
			Stats:      stats[i],
		})
		if m.tags.Status != "" {
			statusSet[m.task] = true
		}
		summary.UpdatedTasks++
		summary.NewDebts += len(m.tags.Debts)
	}

	roadmap.Aggregate(doc)
	now := o.opts.Now().UTC()
	doc.ProjectInfo.LastSync = &now
	summary.TotalProgress = doc.ProjectInfo.TotalProgress

	if err := o.docs.Save(doc); err != nil {
		return summary, err
	}
	return summary, nil
}

// collect walks commits newest first, keeps those after the watermark and
// resolves the task references of their subject lines. Bodies are ignored:
// squash merges list the subjects of the commits they fold in. Unmatched references are reported as they
// are found.
func (o *Orchestrator) collect(doc *roadmap.Roadmap, commits []gitlog.Commit, watermark *time.Time, summary *Summary) []match {
	warn := color.New(color.FgYellow).SprintfFunc()
	idx := roadmap.NewIndex(doc)
	seen := map[string]bool{}
	matches := []match{}

	for _, c := range commits {
		if watermark != nil && !c.Date.After(*watermark) {
			continue
		}
		summary.ProcessedCommits++

		set := tags.Parse(c.Subject())
		if !set.HasTask() {
			continue
		}
		_, task, found := idx.Locate(set.TaskID)
		if !found {
			_, _ = fmt.Fprintln(o.out, warn("  ⚠ Task %q not found in roadmap", set.TaskID))
			if !seen[set.TaskID] {
				seen[set.TaskID] = true
				summary.UnmatchedTasks = append(summary.UnmatchedTasks, set.TaskID)
			}
			continue
		}
		o.log.Debug("commit matched task",
			zap.String("commit", shortHash(c.Hash)),
			zap.String("task", set.TaskID),
			zap.String("status", string(set.Status)),
			zap.Int("debts", len(set.Debts)))
		matches = append(matches, match{commit: c, tags: set, task: task})
	}
	return matches
}

// prefetchStats extracts the diff stats of every match with bounded
// concurrency. Results are stored by position so updates can be applied in
// commit order afterwards.
func (o *Orchestrator) prefetchStats(ctx context.Context, matches []match) ([]roadmap.CommitStats, error) {
	stats := make([]roadmap.CommitStats, len(matches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.StatWorkers)
	for i := range matches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stats[i] = ExtractStats(gctx, o.history, matches[i].commit.Hash, o.log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}
	return stats, nil
}
