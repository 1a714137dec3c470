package roadmap

const (
	defaultDebtSeverity = "medium"
	defaultDebtEffort   = "TBD"
)

// Update carries everything one commit contributes to a task. An empty Status
// means the commit did not set one.
type Update struct {
	Status Status
	// Superseded marks a status already overridden by a newer commit of the
	// same scan: it still stamps started_at/completed_at but leaves Status.
	Superseded bool
	Debts      []string
	Stats      CommitStats
}

// ComplexityScore bands the total number of changed lines into a 1-10 score.
func ComplexityScore(linesAdded, linesRemoved int) int {
	total := linesAdded + linesRemoved
	switch {
	case total < 50:
		return 1
	case total < 100:
		return 2
	case total < 200:
		return 3
	case total < 500:
		return 5
	case total < 1000:
		return 7
	default:
		return 10
	}
}

// ApplyCommit merges one commit into task. It must be called once per
// (commit, task) pair: commit hashes and affected files are de-duplicated, but
// metric counters and technical debt are additive.
func ApplyCommit(task *Task, commit CommitRef, u Update) {
	if u.Status != "" {
		if !u.Superseded {
			task.Status = u.Status
		}
		switch u.Status {
		case StatusInProgress:
			if task.StartedAt == nil {
				at := commit.Date
				task.StartedAt = &at
			}
		case StatusCompleted:
			if task.CompletedAt == nil {
				at := commit.Date
				task.CompletedAt = &at
			}
		}
	}

	if task.Git == nil {
		task.Git = &GitInfo{Commits: []string{}}
	}
	hash := commit.Hash
	task.Git.LastCommit = &hash
	task.Git.Commits = appendUnique(task.Git.Commits, commit.Hash)

	for _, file := range u.Stats.Files {
		task.AffectedFiles = appendUnique(task.AffectedFiles, file)
	}

	if task.Metrics == nil {
		task.Metrics = &Metrics{}
	}
	m := task.Metrics
	m.LinesAdded += u.Stats.LinesAdded
	m.LinesRemoved += u.Stats.LinesRemoved
	m.FilesCreated += u.Stats.FilesCreated
	m.FilesModified += u.Stats.FilesModified
	m.ComplexityScore = ComplexityScore(m.LinesAdded, m.LinesRemoved)

	for _, desc := range u.Debts {
		severity, effort := defaultDebtSeverity, defaultDebtEffort
		task.TechnicalDebt = append(task.TechnicalDebt, TechnicalDebt{
			Description:     desc,
			Severity:        &severity,
			EstimatedEffort: &effort,
		})
	}
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
