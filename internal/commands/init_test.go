package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/daybook/internal/commands"
	"github.com/cleared-dev/daybook/internal/config"
)

func runDaybook(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func gitLog(t *testing.T, dir string) string {
	t.Helper()
	out, err := exec.Command("git", "-C", dir, "log", "--format=%s").Output()
	require.NoError(t, err)
	return string(out)
}

func TestInit_CreatesStructure(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()

	out, err := runDaybook(t, "init", dir, "--name", "Test Shop")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized daybook for Test Shop")

	for _, d := range []string{"logs", "import", filepath.Join("import", "processed"), ".git"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
	_, err = os.Stat(filepath.Join(dir, "import", ".gitkeep"))
	assert.NoError(t, err)
}

func TestInit_Config(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, err := runDaybook(t, "init", dir, "--name", "My Shop")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	contents := string(data)
	assert.Contains(t, contents, "name: My Shop")
	assert.Contains(t, contents, "backend: file")
	assert.Contains(t, contents, "default_role: user")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestInit_GitCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, err := runDaybook(t, "init", dir, "--name", "Test Shop")
	require.NoError(t, err)

	assert.Equal(t, "init: Initialize Test Shop", strings.TrimSpace(gitLog(t, dir)))

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), ".env")
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runDaybook(t, "init", t.TempDir())
	assert.Error(t, err)
}

func TestInit_RefusesExistingRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, err := runDaybook(t, "init", dir, "--name", "Test Shop")
	require.NoError(t, err)

	_, err = runDaybook(t, "init", dir, "--name", "Other Shop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
