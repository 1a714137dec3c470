package scan

import (
	"context"

	"go.uber.org/zap"

	"github.com/hacklet1101/roadmap-kit/internal/gitlog"
	"github.com/hacklet1101/roadmap-kit/internal/roadmap"
)

// ExtractStats summarizes the diff of hash against its parent. A file with no
// deleted lines counts as created, any other text file as modified; binary
// files are listed but not counted. Any failure, including a root commit
// without a parent, yields zero stats.
func ExtractStats(ctx context.Context, history gitlog.History, hash string, log *zap.Logger) roadmap.CommitStats {
	stats := roadmap.CommitStats{Files: []string{}}

	diff, err := history.DiffSummary(ctx, hash)
	if err != nil {
		if log != nil {
			log.Debug("diff unavailable, using zero stats", zap.String("commit", shortHash(hash)), zap.Error(err))
		}
		return stats
	}

	stats.LinesAdded = diff.Insertions
	stats.LinesRemoved = diff.Deletions
	for _, f := range diff.Files {
		stats.Files = append(stats.Files, f.Path)
		if f.Binary {
			continue
		}
		if f.Deletions == 0 {
			stats.FilesCreated++
		} else {
			stats.FilesModified++
		}
	}
	return stats
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
