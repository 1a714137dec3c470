package commands

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/clierr"
	"github.com/hacklet1101/roadmap-kit/internal/gitlog"
	"github.com/hacklet1101/roadmap-kit/internal/roadmap"
	"github.com/hacklet1101/roadmap-kit/internal/store"
)

const fixtureRoadmap = `{
  "project_info": {"name": "demo", "description": "", "total_progress": 0, "last_sync": null},
  "features": [
    {
      "id": "f1", "name": "Feature one", "description": "", "priority": "high", "status": "pending", "progress": 0,
      "tasks": [
        {"id": "t1", "name": "Task one", "description": "", "status": "pending", "priority": "high", "started_at": null, "completed_at": null},
        {"id": "t2", "name": "Task two", "description": "", "status": "pending", "priority": "low", "started_at": null, "completed_at": null}
      ]
    }
  ]
}
`

func runGit(t *testing.T, dir, date string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	if date != "" {
		cmd.Env = append(cmd.Env, "GIT_AUTHOR_DATE="+date, "GIT_COMMITTER_DATE="+date)
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func initRepo(t *testing.T, dir string) {
	t.Helper()

	runGit(t, dir, "", "init")
	runGit(t, dir, "", "config", "user.email", "test@example.com")
	runGit(t, dir, "", "config", "user.name", "Test User")
	runGit(t, dir, "", "config", "commit.gpgsign", "false")
}

func commitFile(t *testing.T, dir, name, content, date, message string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	runGit(t, dir, "", "add", "-A")
	runGit(t, dir, date, "commit", "-m", message)
}

func writeRoadmap(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "roadmap.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureRoadmap), 0o644))
	return path
}

func TestCLIInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/widget\n\ngo 1.22\n"), 0o644))

	out, err := execute(t, "init", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Detected go project")
	assert.Contains(t, out, "Roadmap initialized")

	doc, err := store.NewFileStore(filepath.Join(dir, "roadmap.json")).Load()
	require.NoError(t, err)
	assert.Equal(t, "widget", doc.ProjectInfo.Name)
	assert.Equal(t, []string{"Go"}, doc.ProjectInfo.Stack)

	_, err = execute(t, "init", "--path", dir)
	require.Error(t, err)
	assert.Equal(t, clierr.CodeFailure, clierr.ExitCodeOf(err))
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "init", "--path", dir, "--force")
	assert.NoError(t, err)
}

func TestCLIScanAndStatus(t *testing.T) {
	dir := t.TempDir()
	initRepo(t, dir)
	roadmapPath := writeRoadmap(t, dir)

	commitFile(t, dir, "README.md", "demo\n", "2025-01-01T10:00:00Z", "chore: scaffold")
	commitFile(t, dir, "a.go", "package a\n", "2025-01-02T10:00:00Z", "[task:t1] [status:in_progress] start")
	commitFile(t, dir, "a.go", "package a\n\nfunc A() {}\n", "2025-01-03T10:00:00Z", "[task:t1] [status:completed] [debt:Missing tests] finish")
	commitFile(t, dir, "b.go", "package b\n", "2025-01-04T10:00:00Z", "[task:ghost] typo")
	commitFile(t, dir, "c.go", "package c\n", "2025-01-05T10:00:00Z", "Squash merge (#3)\n\n* [task:t2] [status:completed] old subject")

	out, err := execute(t, "scan", "--path", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Roadmap updated successfully")
	assert.Contains(t, out, "Processed commits: 5")
	assert.Contains(t, out, "Updated tasks: 2")
	assert.Contains(t, out, "New technical debts: 1")
	assert.Contains(t, out, "Total progress: 50%")
	assert.Contains(t, out, `Task "ghost" not found in roadmap`)

	doc, err := store.NewFileStore(roadmapPath).Load()
	require.NoError(t, err)
	task := &doc.Features[0].Tasks[0]
	assert.Equal(t, roadmap.StatusCompleted, task.Status)
	require.NotNil(t, task.StartedAt)
	require.NotNil(t, task.CompletedAt)
	require.NotNil(t, doc.ProjectInfo.LastSync)
	assert.Equal(t, 50, doc.Features[0].Progress)
	assert.Equal(t, roadmap.StatusPending, doc.Features[0].Tasks[1].Status, "tags in the body are ignored")

	out, err = execute(t, "scan", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Processed commits: 0")
	assert.NotContains(t, out, "Tip:")

	out, err = execute(t, "status", "--path", dir, "--format", "json")
	require.NoError(t, err)
	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, "demo", stats["project"])
	assert.EqualValues(t, 50, stats["total_progress"])

	report := filepath.Join(dir, "docs", "ROADMAP.md")
	out, err = execute(t, "status", "--path", dir, "--format", "markdown", "--output", report)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+report)
	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Roadmap status: demo")
}

func TestCLIVersionsFlow(t *testing.T) {
	dir := t.TempDir()
	writeRoadmap(t, dir)

	out, err := execute(t, "versions", "list", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No snapshots")

	out, err = execute(t, "versions", "snapshot", "--path", dir, "-m", "baseline", "--author", "ana")
	require.NoError(t, err)
	fields := strings.Fields(strings.TrimSpace(out))
	require.NotEmpty(t, fields)
	id := fields[len(fields)-1]

	out, err = execute(t, "versions", "list", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "baseline")
	assert.Contains(t, out, "ana")

	out, err = execute(t, "versions", "show", id, "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"project_info"`)

	out, err = execute(t, "versions", "restore", id, "--path", dir, "--author", "bo")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored "+id+" (1 features, 2 tasks)")

	out, err = execute(t, "versions", "list", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Before restore to "+id)

	_, err = execute(t, "versions", "restore", "missing-id", "--path", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrVersionNotFound)
	assert.Equal(t, clierr.CodeFailure, clierr.ExitCodeOf(err))
}

func TestCLIErrors(t *testing.T) {
	t.Run("scan outside a repository", func(t *testing.T) {
		dir := t.TempDir()
		writeRoadmap(t, dir)

		_, err := execute(t, "scan", "--path", dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, gitlog.ErrNotRepository)
		assert.Equal(t, clierr.CodeFailure, clierr.ExitCodeOf(err))
	})

	t.Run("scan without roadmap", func(t *testing.T) {
		dir := t.TempDir()
		initRepo(t, dir)

		_, err := execute(t, "scan", "--path", dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Contains(t, err.Error(), "roadmap-kit init")
	})

	t.Run("negative max-commits", func(t *testing.T) {
		_, err := execute(t, "scan", "--path", t.TempDir(), "--max-commits", "-1")
		require.Error(t, err)
		assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))
	})

	t.Run("unknown status format", func(t *testing.T) {
		_, err := execute(t, "status", "--path", t.TempDir(), "--format", "yaml")
		require.Error(t, err)
		assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))
	})

	t.Run("status without roadmap", func(t *testing.T) {
		_, err := execute(t, "status", "--path", t.TempDir())
		require.Error(t, err)
		assert.Equal(t, clierr.CodeFailure, clierr.ExitCodeOf(err))
	})

	t.Run("path is not a directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o644))

		_, err := execute(t, "status", "--path", file)
		require.Error(t, err)
		assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))
	})
}
