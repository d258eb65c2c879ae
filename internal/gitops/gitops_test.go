package gitops

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func newRepo(t *testing.T) Committer {
	t.Helper()
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir, io.Discard))
	return Committer{Dir: dir, AuthorName: "Daybook", AuthorEmail: "daybook@example.com"}
}

func lastCommit(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return strings.TrimSpace(string(out))
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir, io.Discard))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommit(t *testing.T) {
	c := newRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir, "daybook.yaml"), []byte("business: {}\n"), 0o644))

	hash, err := c.Commit("init: daybook")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.Equal(t, "init: daybook", lastCommit(t, c.Dir, "%s"))
	assert.Equal(t, "Daybook <daybook@example.com>", lastCommit(t, c.Dir, "%an <%ae>"))

	hash, err = c.Commit("again")
	require.NoError(t, err)
	assert.Empty(t, hash, "nothing to commit")
}

func TestCommitDay(t *testing.T) {
	c := newRepo(t)
	dayDir := filepath.Join(c.Dir, "2025", "01", "15")
	require.NoError(t, os.MkdirAll(dayDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dayDir, "day.yaml"), []byte("phase: closed\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(c.Dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir, "logs", "activity-log.csv"), []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir, "scratch.txt"), []byte("x"), 0o644))

	hash, err := c.CommitDay("close", "2025-01-15", dayDir)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.Equal(t, "close: 2025-01-15", lastCommit(t, c.Dir, "%s"))

	cmd := exec.Command("git", "ls-files")
	cmd.Dir = c.Dir
	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "2025/01/15/day.yaml")
	assert.Contains(t, string(out), "logs/activity-log.csv")
	assert.NotContains(t, string(out), "scratch.txt", "only the day and its log are committed")
}
