// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Roadmap Kit - Roadmap Kit keeps a project's roadmap.json in sync with the tagged commits of its Git repository.
It parses commit messages for task, status and technical-debt tags and reconciles them into a persistent feature/task graph.

Copyright (C) 2025  The Roadmap Kit Authors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package gitlog reads commit history and diff summaries through the git CLI.
package gitlog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
	logFormat = "--format=%H%x1f%aI%x1f%an%x1f%ae%x1f%B%x1e"
)

// Repo implements History for a directory using the git executable.
type Repo struct {
	gitPath string
	dir     string
}

var _ History = (*Repo)(nil)

// Open returns a Repo rooted at dir. It fails when git is not on PATH; whether
// dir is a repository is checked separately by IsRepository.
func Open(dir string) (*Repo, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git not found in PATH: %w", err)
	}
	return &Repo{gitPath: gitPath, dir: dir}, nil
}

// Dir returns the directory the repo was opened at.
func (r *Repo) Dir() string { return r.dir }

// IsRepository reports whether the directory is inside a Git work tree.
func (r *Repo) IsRepository(ctx context.Context) (bool, error) {
	out, err := r.run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, err
	}
	return strings.TrimSpace(string(out)) == "true", nil
}

// GitDir returns the absolute path of the repository's .git directory.
func (r *Repo) GitDir(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotRepository, r.dir, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Log returns up to maxCount commits reachable from HEAD, newest first.
// maxCount <= 0 means no limit. A repository without commits has an empty history.
func (r *Repo) Log(ctx context.Context, maxCount int) ([]Commit, error) {
	if _, err := r.run(ctx, "rev-parse", "--verify", "--quiet", "HEAD"); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return []Commit{}, nil
		}
		return nil, err
	}

	args := []string{"log", "--no-color", logFormat}
	if maxCount > 0 {
		args = append(args, "--max-count="+strconv.Itoa(maxCount))
	}
	out, err := r.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("git log failed in %s: %w", r.dir, err)
	}
	return parseLog(string(out))
}

// DiffSummary returns per-file line counts of hash against its first parent.
// It fails for root commits, which have no parent.
func (r *Repo) DiffSummary(ctx context.Context, hash string) (*DiffSummary, error) {
	out, err := r.run(ctx, "diff", "--numstat", "--no-renames", "--no-color", "--no-ext-diff", "-z", hash+"^", hash)
	if err != nil {
		return nil, fmt.Errorf("git diff %s failed: %w", hash, err)
	}
	return parseNumstat(out)
}

func (r *Repo) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.gitPath, append([]string{"-C", r.dir}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

func parseLog(out string) ([]Commit, error) {
	commits := []Commit{}
	for _, record := range strings.Split(out, recordSep) {
		record = strings.TrimLeft(record, "\n")
		if record == "" {
			continue
		}
		fields := strings.SplitN(record, fieldSep, 5)
		if len(fields) != 5 {
			return nil, fmt.Errorf("unexpected git log record %q", record)
		}
		date, err := time.Parse(time.RFC3339, fields[1])
		if err != nil {
			return nil, fmt.Errorf("parsing date of commit %s: %w", fields[0], err)
		}
		commits = append(commits, Commit{
			Hash:        fields[0],
			Date:        date,
			AuthorName:  fields[2],
			AuthorEmail: fields[3],
			Message:     strings.TrimRight(fields[4], "\n"),
		})
	}
	return commits, nil
}

// parseNumstat reads `git diff --numstat -z` output: one
// "<added>\t<deleted>\t<path>" entry per NUL, with "-" counts for binaries.
func parseNumstat(out []byte) (*DiffSummary, error) {
	summary := &DiffSummary{Files: []FileChange{}}
	for _, entry := range strings.Split(string(out), "\x00") {
		entry = strings.TrimLeft(entry, "\n")
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "\t", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("unexpected numstat entry %q", entry)
		}
		fc := FileChange{Path: parts[2]}
		if parts[0] == "-" && parts[1] == "-" {
			fc.Binary = true
		} else {
			var err error
			if fc.Insertions, err = strconv.Atoi(parts[0]); err != nil {
				return nil, fmt.Errorf("numstat insertions for %s: %w", fc.Path, err)
			}
			if fc.Deletions, err = strconv.Atoi(parts[1]); err != nil {
				return nil, fmt.Errorf("numstat deletions for %s: %w", fc.Path, err)
			}
			summary.Insertions += fc.Insertions
			summary.Deletions += fc.Deletions
		}
		summary.Files = append(summary.Files, fc)
	}
	return summary, nil
}
