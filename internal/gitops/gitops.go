// Package gitops records daybook changes as git commits in a file-backed repo.
package gitops

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Init initializes a new git repository at dir. git's own output goes to out.
func Init(dir string, out io.Writer) error {
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Committer commits files under Dir as a fixed author. The author is also
// used as committer so commits work without a global git identity.
type Committer struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Commit stages paths (relative to Dir, all changes when empty) and commits
// them. It returns the short hash, or "" when there was nothing to commit.
func (c Committer) Commit(message string, paths ...string) (string, error) {
	addArgs := []string{"add", "-A", "--"}
	if len(paths) == 0 {
		addArgs = append(addArgs, ".")
	} else {
		addArgs = append(addArgs, paths...)
	}
	if out, err := c.git(addArgs...).CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// Nothing staged means the day was already committed as is.
	if err := c.git("diff", "--cached", "--quiet").Run(); err == nil {
		return "", nil
	}

	author := fmt.Sprintf("%s <%s>", c.AuthorName, c.AuthorEmail)
	if out, err := c.git("commit", "--quiet", "-m", message, "--author", author).CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := c.git("rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CommitDay commits one date's directory and the activity log with a
// message like "close: 2025-01-15".
func (c Committer) CommitDay(action, date, dayDir string) (string, error) {
	rel, err := filepath.Rel(c.Dir, dayDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dayDir, err)
	}
	paths := []string{rel}
	if _, err := os.Stat(filepath.Join(c.Dir, "logs")); err == nil {
		paths = append(paths, "logs")
	}
	return c.Commit(fmt.Sprintf("%s: %s", action, date), paths...)
}

func (c Committer) git(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+c.AuthorName,
		"GIT_COMMITTER_EMAIL="+c.AuthorEmail,
	)
	return cmd
}
