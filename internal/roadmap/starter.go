package roadmap

import "time"

// Starter returns the document written by init: the given project metadata,
// a fresh last_sync watermark and one example feature showing the tag flow.
func Starter(info ProjectInfo, now time.Time) *Roadmap {
	if info.Name == "" {
		info.Name = "My Project"
	}
	if info.Version == "" {
		info.Version = "1.0.0"
	}
	if info.Stack == nil {
		info.Stack = []string{}
	}
	synced := now.UTC()
	info.LastSync = &synced
	info.TotalProgress = 0

	return &Roadmap{
		ProjectInfo: info,
		Features: []Feature{{
			ID:          "getting-started",
			Name:        "Getting started",
			Description: "Track work from commit messages",
			Priority:    PriorityHigh,
			Status:      StatusPending,
			Tasks: []Task{{
				ID:          "setup-roadmap",
				Name:        "Set up the roadmap",
				Description: "Replace this feature with your own and reference tasks as [task:<id>] in commits",
				Status:      StatusPending,
				Priority:    PriorityMedium,
			}},
		}},
	}
}
