// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Roadmap Kit - Roadmap Kit keeps a project's roadmap.json in sync with the tagged commits of its Git repository.
It parses commit messages for task, status and technical-debt tags and reconciles them into a persistent feature/task graph.

Copyright (C) 2025  The Roadmap Kit Authors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package tags extracts roadmap annotations from commit messages.
//
// The grammar is case-sensitive and order-independent:
//
//	[task:<id>]                             first occurrence wins
//	[status:pending|in_progress|completed]  first occurrence wins, other values are ignored
//	[debt:<text>]                           every occurrence, in message order
package tags

import (
	"regexp"

	"github.com/hacklet1101/roadmap-kit/internal/roadmap"
)

var (
	taskTag   = regexp.MustCompile(`\[task:([^\]]+)\]`)
	statusTag = regexp.MustCompile(`\[status:([^\]]+)\]`)
	debtTag   = regexp.MustCompile(`\[debt:([^\]]+)\]`)
)

// Set is the annotation content of one commit message.
type Set struct {
	// TaskID is empty when the message references no task.
	TaskID string
	// Status is empty when absent or not one of the known states.
	Status roadmap.Status
	Debts  []string
}

// HasTask reports whether the message referenced a task.
func (s Set) HasTask() bool { return s.TaskID != "" }

// Parse extracts the tag set from a commit message.
func Parse(message string) Set {
	set := Set{Debts: []string{}}

	if m := taskTag.FindStringSubmatch(message); m != nil {
		set.TaskID = m[1]
	}
	if m := statusTag.FindStringSubmatch(message); m != nil {
		if status, ok := roadmap.ParseStatus(m[1]); ok {
			set.Status = status
		}
	}
	for _, m := range debtTag.FindAllStringSubmatch(message, -1) {
		set.Debts = append(set.Debts, m[1])
	}
	return set
}
