// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Roadmap Kit - Roadmap Kit keeps a project's roadmap.json in sync with the tagged commits of its Git repository.
It parses commit messages for task, status and technical-debt tags and reconciles them into a persistent feature/task graph.

Copyright (C) 2025  The Roadmap Kit Authors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package report summarizes a roadmap for the status command.
package report

import (
	"encoding/json"
	"time"

	"github.com/hacklet1101/roadmap-kit/internal/roadmap"
)

// Counts tallies tasks by status.
type Counts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Pending    int `json:"pending"`
}

func (c *Counts) add(s roadmap.Status) {
	c.Total++
	switch s {
	case roadmap.StatusCompleted:
		c.Completed++
	case roadmap.StatusInProgress:
		c.InProgress++
	default:
		c.Pending++
	}
}

// FeatureStats is the per-feature line of the report.
type FeatureStats struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Priority roadmap.Priority `json:"priority"`
	Progress int              `json:"progress"`
	Tasks    Counts           `json:"tasks"`
	OpenDebt int              `json:"open_debt"`
}

// Stats is the whole report.
type Stats struct {
	Project       string         `json:"project"`
	Version       string         `json:"version,omitempty"`
	TotalProgress int            `json:"total_progress"`
	Tasks         Counts         `json:"tasks"`
	OpenDebt      int            `json:"open_debt"`
	LastSync      *time.Time     `json:"last_sync"`
	Features      []FeatureStats `json:"features"`
}

// Build recomputes progress on r in memory and tallies it.
func Build(r *roadmap.Roadmap) Stats {
	roadmap.Aggregate(r)

	stats := Stats{
		Project:       r.ProjectInfo.Name,
		Version:       r.ProjectInfo.Version,
		TotalProgress: r.ProjectInfo.TotalProgress,
		LastSync:      r.ProjectInfo.LastSync,
		Features:      make([]FeatureStats, 0, len(r.Features)),
	}
	for _, f := range r.Features {
		fs := FeatureStats{ID: f.ID, Name: f.Name, Priority: f.Priority, Progress: f.Progress}
		for _, t := range f.Tasks {
			fs.Tasks.add(t.Status)
			stats.Tasks.add(t.Status)
			for _, d := range t.TechnicalDebt {
				if debtOpen(d) {
					fs.OpenDebt++
				}
			}
		}
		stats.OpenDebt += fs.OpenDebt
		stats.Features = append(stats.Features, fs)
	}
	return stats
}

// debtOpen treats a debt entry as open unless the dashboard marked it resolved.
func debtOpen(d roadmap.TechnicalDebt) bool {
	raw, ok := d.Extra["status"]
	if !ok {
		return true
	}
	var status string
	if err := json.Unmarshal(raw, &status); err != nil {
		return true
	}
	return status != "resolved"
}
