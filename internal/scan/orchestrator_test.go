package scan

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hacklet1101/roadmap-kit/internal/gitlog"
	"github.com/hacklet1101/roadmap-kit/internal/roadmap"
	"github.com/hacklet1101/roadmap-kit/internal/store"
)

type fakeHistory struct {
	notRepo  bool
	commits  []gitlog.Commit
	diffs    map[string]*gitlog.DiffSummary
	logErr   error
	maxCount int

	mu        sync.Mutex
	diffCalls []string
}

func (h *fakeHistory) IsRepository(context.Context) (bool, error) { return !h.notRepo, nil }

func (h *fakeHistory) Log(_ context.Context, maxCount int) ([]gitlog.Commit, error) {
	h.maxCount = maxCount
	if h.logErr != nil {
		return nil, h.logErr
	}
	if maxCount > 0 && len(h.commits) > maxCount {
		return h.commits[:maxCount], nil
	}
	return h.commits, nil
}

func (h *fakeHistory) DiffSummary(ctx context.Context, hash string) (*gitlog.DiffSummary, error) {
	h.mu.Lock()
	h.diffCalls = append(h.diffCalls, hash)
	h.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, ok := h.diffs[hash]
	if !ok {
		return nil, errors.New("no parent")
	}
	return d, nil
}

type memDocs struct {
	data  []byte
	saves int
}

func newMemDocs(t *testing.T, r *roadmap.Roadmap) *memDocs {
	t.Helper()
	data, err := roadmap.Encode(r)
	require.NoError(t, err)
	return &memDocs{data: data}
}

func (d *memDocs) Load() (*roadmap.Roadmap, error) {
	if d.data == nil {
		return nil, store.ErrNotFound
	}
	return roadmap.Decode(d.data)
}

func (d *memDocs) Save(r *roadmap.Roadmap) error {
	data, err := roadmap.Encode(r)
	if err != nil {
		return err
	}
	d.data = data
	d.saves++
	return nil
}

func (d *memDocs) roadmap(t *testing.T) *roadmap.Roadmap {
	t.Helper()
	r, err := d.Load()
	require.NoError(t, err)
	return r
}

type recordingSnapshots struct {
	descriptions []string
	statuses     []roadmap.Status
}

func (s *recordingSnapshots) Snapshot(r *roadmap.Roadmap, _ store.Author, description string) (*store.Version, error) {
	s.descriptions = append(s.descriptions, description)
	s.statuses = append(s.statuses, r.Features[0].Tasks[0].Status)
	return &store.Version{ID: "v"}, nil
}

var (
	day1  = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	day2  = time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	day3  = time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC)
	clock = time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
)

func twoTaskRoadmap(lastSync *time.Time) *roadmap.Roadmap {
	return &roadmap.Roadmap{
		ProjectInfo: roadmap.ProjectInfo{Name: "demo", LastSync: lastSync},
		Features: []roadmap.Feature{{
			ID:   "f1",
			Name: "Feature one",
			Tasks: []roadmap.Task{
				{ID: "t1", Status: roadmap.StatusPending},
				{ID: "t2", Status: roadmap.StatusPending},
			},
		}},
	}
}

func newOrchestrator(h gitlog.History, docs store.Documents, out *bytes.Buffer, opts Options) *Orchestrator {
	opts.Now = func() time.Time { return clock }
	return New(h, docs, opts, out, nil)
}

func TestScan_EndToEnd(t *testing.T) {
	h := &fakeHistory{
		commits: []gitlog.Commit{
			{Hash: "c2", Date: day2, Message: "[task:t1] [status:completed] done"},
			{Hash: "c1", Date: day1, Message: "[task:t1] [status:in_progress] wip"},
		},
		diffs: map[string]*gitlog.DiffSummary{
			"c2": {Insertions: 30, Deletions: 5, Files: []gitlog.FileChange{
				{Path: "auth.go", Insertions: 25, Deletions: 5},
				{Path: "auth_test.go", Insertions: 5},
			}},
			"c1": {Insertions: 40, Files: []gitlog.FileChange{
				{Path: "auth.go", Insertions: 40},
				{Path: "logo.png", Binary: true},
			}},
		},
	}
	docs := newMemDocs(t, twoTaskRoadmap(nil))
	var out bytes.Buffer

	summary, err := newOrchestrator(h, docs, &out, Options{}).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{ProcessedCommits: 2, UpdatedTasks: 2, TotalProgress: 50}, summary)
	assert.False(t, summary.NeedsTagHint())
	assert.Equal(t, DefaultMaxCommits, h.maxCount)
	assert.Equal(t, 1, docs.saves)

	r := docs.roadmap(t)
	t1 := r.Features[0].Tasks[0]
	assert.Equal(t, roadmap.StatusCompleted, t1.Status)
	require.NotNil(t, t1.CompletedAt)
	assert.True(t, t1.CompletedAt.Equal(day2))
	require.NotNil(t, t1.StartedAt)
	assert.True(t, t1.StartedAt.Equal(day1))
	assert.Equal(t, []string{"c2", "c1"}, t1.Git.Commits)
	assert.Equal(t, []string{"auth.go", "auth_test.go", "logo.png"}, t1.AffectedFiles)
	assert.Equal(t, &roadmap.Metrics{
		LinesAdded: 70, LinesRemoved: 5, FilesCreated: 2, FilesModified: 1, ComplexityScore: 2,
	}, t1.Metrics)

	assert.Equal(t, roadmap.StatusPending, r.Features[0].Tasks[1].Status)
	assert.Nil(t, r.Features[0].Tasks[1].Git)
	assert.Equal(t, 50, r.Features[0].Progress)
	assert.Equal(t, 50, r.ProjectInfo.TotalProgress)
	require.NotNil(t, r.ProjectInfo.LastSync)
	assert.True(t, r.ProjectInfo.LastSync.Equal(clock))
	assert.Empty(t, out.String())
}

func TestScan_WatermarkBoundaryExcluded(t *testing.T) {
	h := &fakeHistory{
		commits: []gitlog.Commit{
			{Hash: "c3", Date: day3, Message: "[task:t2] [status:in_progress] later"},
			{Hash: "c2", Date: day2, Message: "[task:t1] [status:completed] at watermark"},
			{Hash: "c1", Date: day1, Message: "[task:t1] [status:in_progress] before"},
		},
	}
	watermark := day2
	docs := newMemDocs(t, twoTaskRoadmap(&watermark))

	summary, err := newOrchestrator(h, docs, &bytes.Buffer{}, Options{}).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ProcessedCommits)
	assert.Equal(t, 1, summary.UpdatedTasks)

	r := docs.roadmap(t)
	assert.Equal(t, roadmap.StatusPending, r.Features[0].Tasks[0].Status)
	assert.Equal(t, roadmap.StatusInProgress, r.Features[0].Tasks[1].Status)
	assert.True(t, r.Features[0].Tasks[1].StartedAt.Equal(day3))
	// root-like commit without a diff still applies its tags with zero stats
	assert.Equal(t, 0, r.Features[0].Tasks[1].Metrics.LinesAdded)
	assert.Equal(t, 1, r.Features[0].Tasks[1].Metrics.ComplexityScore)
}

func TestScan_RescanIsNoOp(t *testing.T) {
	h := &fakeHistory{
		commits: []gitlog.Commit{
			{Hash: "c1", Date: day1, Message: "[task:t1] [status:in_progress] [debt:no tests] wip"},
		},
		diffs: map[string]*gitlog.DiffSummary{"c1": {Insertions: 10, Files: []gitlog.FileChange{{Path: "a.go", Insertions: 10}}}},
	}
	docs := newMemDocs(t, twoTaskRoadmap(nil))
	orch := newOrchestrator(h, docs, &bytes.Buffer{}, Options{})

	first, err := orch.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.NewDebts)
	before := docs.roadmap(t)

	second, err := orch.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, second)
	after := docs.roadmap(t)

	assert.Equal(t, before.Features, after.Features)
	assert.Equal(t, 2, docs.saves)
}

func TestScan_ReprocessingAfterWatermarkReset(t *testing.T) {
	h := &fakeHistory{
		commits: []gitlog.Commit{
			{Hash: "c1", Date: day1, Message: "[task:t1] [debt:slow query] wip"},
		},
		diffs: map[string]*gitlog.DiffSummary{"c1": {Insertions: 10, Files: []gitlog.FileChange{{Path: "a.go", Insertions: 10}}}},
	}
	docs := newMemDocs(t, twoTaskRoadmap(nil))
	orch := newOrchestrator(h, docs, &bytes.Buffer{}, Options{})

	_, err := orch.Scan(context.Background())
	require.NoError(t, err)

	r := docs.roadmap(t)
	r.ProjectInfo.LastSync = nil
	require.NoError(t, docs.Save(r))

	_, err = orch.Scan(context.Background())
	require.NoError(t, err)

	task := docs.roadmap(t).Features[0].Tasks[0]
	assert.Equal(t, []string{"c1"}, task.Git.Commits)
	assert.Equal(t, []string{"a.go"}, task.AffectedFiles)
	assert.Equal(t, 20, task.Metrics.LinesAdded)
	assert.Len(t, task.TechnicalDebt, 2)
}

func TestScan_UnmatchedTaskWarns(t *testing.T) {
	h := &fakeHistory{
		commits: []gitlog.Commit{
			{Hash: "c3", Date: day3, Message: "[task:does-not-exist] [status:completed] oops"},
			{Hash: "c2", Date: day2, Message: "chore: untagged"},
			{Hash: "c1", Date: day1, Message: "[task:does-not-exist] again"},
		},
	}
	docs := newMemDocs(t, twoTaskRoadmap(nil))
	var out bytes.Buffer

	summary, err := newOrchestrator(h, docs, &out, Options{}).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ProcessedCommits)
	assert.Equal(t, 0, summary.UpdatedTasks)
	assert.Equal(t, []string{"does-not-exist"}, summary.UnmatchedTasks)
	assert.True(t, summary.NeedsTagHint())
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte(`Task "does-not-exist" not found in roadmap`)))
	assert.Empty(t, h.diffCalls)

	for _, task := range docs.roadmap(t).Features[0].Tasks {
		assert.Equal(t, roadmap.StatusPending, task.Status)
		assert.Nil(t, task.Git)
	}
}

func TestScan_TagsInBodyAreIgnored(t *testing.T) {
	h := &fakeHistory{
		commits: []gitlog.Commit{
			{Hash: "c2", Date: day2, Message: "Squash merge feature (#12)\n\n* [task:t2] [status:completed] old subject\n* [debt:stale] note"},
			{Hash: "c1", Date: day1, Message: "[task:t1] [status:in_progress] wip\n\n[task:t2] [status:completed]"},
		},
	}
	docs := newMemDocs(t, twoTaskRoadmap(nil))
	var out bytes.Buffer

	summary, err := newOrchestrator(h, docs, &out, Options{}).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.ProcessedCommits)
	assert.Equal(t, 1, summary.UpdatedTasks)
	assert.Equal(t, 0, summary.NewDebts)
	assert.Equal(t, []string{"c1"}, h.diffCalls)

	tasks := docs.roadmap(t).Features[0].Tasks
	assert.Equal(t, roadmap.StatusInProgress, tasks[0].Status)
	assert.Equal(t, roadmap.StatusPending, tasks[1].Status)
	assert.Nil(t, tasks[1].Git)
}

func TestScan_MaxCommitsAndWorkers(t *testing.T) {
	h := &fakeHistory{}
	for i := 0; i < 10; i++ {
		h.commits = append(h.commits, gitlog.Commit{
			Hash:    string(rune('a' + i)),
			Date:    day1.Add(time.Duration(10-i) * time.Hour),
			Message: "[task:t1] [debt:x]",
		})
	}
	docs := newMemDocs(t, twoTaskRoadmap(nil))

	summary, err := newOrchestrator(h, docs, &bytes.Buffer{}, Options{MaxCommits: 6, StatWorkers: 3}).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, h.maxCount)
	assert.Equal(t, 6, summary.ProcessedCommits)
	assert.Equal(t, 6, summary.NewDebts)
	assert.Len(t, h.diffCalls, 6)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, docs.roadmap(t).Features[0].Tasks[0].Git.Commits)
}

func TestScan_SnapshotsBeforeWriting(t *testing.T) {
	h := &fakeHistory{
		commits: []gitlog.Commit{{Hash: "c1", Date: day1, Message: "[task:t1] [status:completed]"}},
	}
	docs := newMemDocs(t, twoTaskRoadmap(nil))
	snaps := &recordingSnapshots{}

	_, err := newOrchestrator(h, docs, &bytes.Buffer{}, Options{Snapshots: snaps}).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Before scan"}, snaps.descriptions)
	assert.Equal(t, []roadmap.Status{roadmap.StatusPending}, snaps.statuses)

	// nothing to apply, nothing to snapshot
	_, err = newOrchestrator(h, docs, &bytes.Buffer{}, Options{Snapshots: snaps}).Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, snaps.descriptions, 1)
}

func TestScan_FatalErrorsWriteNothing(t *testing.T) {
	t.Run("not a repository", func(t *testing.T) {
		docs := newMemDocs(t, twoTaskRoadmap(nil))
		_, err := newOrchestrator(&fakeHistory{notRepo: true}, docs, &bytes.Buffer{}, Options{}).Scan(context.Background())
		assert.ErrorIs(t, err, gitlog.ErrNotRepository)
		assert.Zero(t, docs.saves)
	})

	t.Run("missing roadmap", func(t *testing.T) {
		docs := &memDocs{}
		_, err := newOrchestrator(&fakeHistory{}, docs, &bytes.Buffer{}, Options{}).Scan(context.Background())
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Zero(t, docs.saves)
	})

	t.Run("unparsable roadmap", func(t *testing.T) {
		docs := &memDocs{data: []byte("{")}
		_, err := newOrchestrator(&fakeHistory{}, docs, &bytes.Buffer{}, Options{}).Scan(context.Background())
		assert.Error(t, err)
		assert.Zero(t, docs.saves)
	})

	t.Run("history failure", func(t *testing.T) {
		docs := newMemDocs(t, twoTaskRoadmap(nil))
		_, err := newOrchestrator(&fakeHistory{logErr: errors.New("boom")}, docs, &bytes.Buffer{}, Options{}).Scan(context.Background())
		assert.ErrorContains(t, err, "boom")
		assert.Zero(t, docs.saves)
	})

	t.Run("cancelled", func(t *testing.T) {
		h := &fakeHistory{commits: []gitlog.Commit{{Hash: "c1", Date: day1, Message: "[task:t1]"}}}
		docs := newMemDocs(t, twoTaskRoadmap(nil))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newOrchestrator(h, docs, &bytes.Buffer{}, Options{}).Scan(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, docs.saves)
	})
}

func TestExtractStats(t *testing.T) {
	h := &fakeHistory{diffs: map[string]*gitlog.DiffSummary{
		"abc": {Insertions: 12, Deletions: 3, Files: []gitlog.FileChange{
			{Path: "new.go", Insertions: 10},
			{Path: "old.go", Insertions: 2, Deletions: 3},
			{Path: "img.png", Binary: true},
		}},
	}}

	got := ExtractStats(context.Background(), h, "abc", nil)
	assert.Equal(t, roadmap.CommitStats{
		LinesAdded: 12, LinesRemoved: 3, FilesCreated: 1, FilesModified: 1,
		Files: []string{"new.go", "old.go", "img.png"},
	}, got)

	zero := ExtractStats(context.Background(), h, "root", nil)
	assert.Equal(t, roadmap.CommitStats{Files: []string{}}, zero)
}
