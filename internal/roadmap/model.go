// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Roadmap Kit - Roadmap Kit keeps a project's roadmap.json in sync with the tagged commits of its Git repository.
It parses commit messages for task, status and technical-debt tags and reconciles them into a persistent feature/task graph.

Copyright (C) 2025  The Roadmap Kit Authors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package roadmap defines the roadmap document and the operations that reconcile
// commit information into it: task lookup, task updates and progress aggregation.
package roadmap

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ParseStatus accepts exactly one of the three task states.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return Status(s), true
	default:
		return "", false
	}
}

// Priority is the relative importance of a feature or task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Roadmap is the root document persisted as roadmap.json.
type Roadmap struct {
	ProjectInfo ProjectInfo `json:"project_info"`
	Features    []Feature   `json:"features"`

	Extra map[string]json.RawMessage `json:"-"`
}

// ProjectInfo holds project metadata plus the derived total progress and the
// last_sync watermark.
type ProjectInfo struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Version       string     `json:"version,omitempty"`
	Stack         []string   `json:"stack,omitzero"`
	TotalProgress int        `json:"total_progress"`
	LastSync      *time.Time `json:"last_sync"`
	LastEditedBy  string     `json:"last_edited_by,omitempty"`
	RestoredFrom  string     `json:"restored_from,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Feature groups related tasks. Progress is derived from its tasks.
type Feature struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	Progress    int      `json:"progress"`
	Tasks       []Task   `json:"tasks"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Task is the unit of work referenced from commit messages by its ID.
type Task struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Status        Status          `json:"status"`
	Priority      Priority        `json:"priority"`
	StartedAt     *time.Time      `json:"started_at"`
	CompletedAt   *time.Time      `json:"completed_at"`
	AffectedFiles []string        `json:"affected_files,omitzero"`
	Metrics       *Metrics        `json:"metrics,omitempty"`
	TechnicalDebt []TechnicalDebt `json:"technical_debt,omitzero"`
	Git           *GitInfo        `json:"git,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Metrics are cumulative over every commit applied to a task.
type Metrics struct {
	LinesAdded      int `json:"lines_added"`
	LinesRemoved    int `json:"lines_removed"`
	FilesCreated    int `json:"files_created"`
	FilesModified   int `json:"files_modified"`
	ComplexityScore int `json:"complexity_score"`

	Extra map[string]json.RawMessage `json:"-"`
}

// TechnicalDebt is one debt record attached to a task. Severity and
// EstimatedEffort are null when the dashboard leaves them unset.
type TechnicalDebt struct {
	Description     string  `json:"description"`
	Severity        *string `json:"severity"`
	EstimatedEffort *string `json:"estimated_effort"`

	Extra map[string]json.RawMessage `json:"-"`
}

// GitInfo links a task to its commits and pull request.
type GitInfo struct {
	Branch     *string  `json:"branch"`
	PRNumber   *int     `json:"pr_number"`
	PRURL      *string  `json:"pr_url"`
	LastCommit *string  `json:"last_commit"`
	Commits    []string `json:"commits"`

	Extra map[string]json.RawMessage `json:"-"`
}

// CommitRef identifies the commit being applied to a task.
type CommitRef struct {
	Hash string
	Date time.Time
}

// CommitStats is the diff summary of a single commit against its parent.
type CommitStats struct {
	LinesAdded    int
	LinesRemoved  int
	FilesCreated  int
	FilesModified int
	Files         []string
}

// TaskCount returns the number of tasks across all features.
func (r *Roadmap) TaskCount() int {
	n := 0
	for _, f := range r.Features {
		n += len(f.Tasks)
	}
	return n
}
