package gitlog

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotRepository is returned when a directory is not inside a Git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Commit is one entry of the commit history.
type Commit struct {
	Hash        string
	Date        time.Time // author date
	AuthorName  string
	AuthorEmail string
	Message     string // subject and body
}

// Subject returns the first line of the message.
func (c Commit) Subject() string {
	subject, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimRight(subject, "\r")
}

// FileChange is the per-file part of a diff summary.
type FileChange struct {
	Path       string
	Insertions int
	Deletions  int
	Binary     bool
}

// DiffSummary summarizes the diff between a commit and its first parent.
// Insertions and Deletions exclude binary files.
type DiffSummary struct {
	Insertions int
	Deletions  int
	Files      []FileChange
}

// History is the read-only view of a repository's commit history.
// Implementations other than Repo exist in tests.
type History interface {
	// IsRepository reports whether the target is a Git work tree.
	IsRepository(ctx context.Context) (bool, error)
	// Log returns at most maxCount commits, newest first.
	Log(ctx context.Context, maxCount int) ([]Commit, error)
	// DiffSummary diffs hash against its first parent.
	DiffSummary(ctx context.Context, hash string) (*DiffSummary, error)
}
