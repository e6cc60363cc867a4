// Package gitrepo commits weekly notes when the workspace is a git
// repository.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrInProgress is returned while a merge, rebase, cherry-pick or revert is
// unfinished in the repository holding the notes.
var ErrInProgress = errors.New("git operation in progress")

// Committer records note writes as git commits. Notes outside a repository
// are left alone.
type Committer struct {
	// Git is the git binary; empty means "git" from PATH.
	Git string
}

func NewCommitter() *Committer {
	return &Committer{Git: "git"}
}

// CheckWritable refuses writes under dir while the enclosing repository is in
// the middle of a history operation.
func (c *Committer) CheckWritable(dir string) error {
	gitDir, ok, err := FindGitDir(dir)
	if err != nil || !ok {
		return err
	}
	if kind := inProgressKind(gitDir); kind != "" {
		return fmt.Errorf("%w: finish the %s first", ErrInProgress, kind)
	}
	return nil
}

// CommitNote stages path and commits it on its own, leaving anything else the
// user has staged untouched. It reports false when path is not inside a
// repository or has no changes.
func (c *Committer) CommitNote(ctx context.Context, path, message string) (bool, error) {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if _, ok, err := FindGitDir(dir); err != nil || !ok {
		return false, err
	}

	root, err := c.run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return false, err
	}
	root = strings.TrimSpace(root)
	rel, err := relTo(root, path)
	if err != nil {
		return false, err
	}

	if _, err := c.run(ctx, root, "add", "--", rel); err != nil {
		return false, err
	}
	staged, err := c.run(ctx, root, "diff", "--cached", "--name-only", "--", rel)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(staged) == "" {
		return false, nil
	}

	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = fmt.Sprintf("planner: update %s (%s)", filepath.Base(path), time.Now().UTC().Format(time.RFC3339))
	}
	if _, err := c.run(ctx, root, "commit", "-m", msg, "--", rel); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Committer) run(ctx context.Context, dir string, args ...string) (string, error) {
	bin := c.Git
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return string(out), nil
}

// relTo returns path relative to root. Temp dirs on macOS sit behind
// symlinks (/var -> /private/var) while git reports the resolved root, so
// both sides are resolved first.
func relTo(root, path string) (string, error) {
	if v, err := filepath.EvalSymlinks(root); err == nil {
		root = v
	}
	dir, base := filepath.Split(path)
	if v, err := filepath.EvalSymlinks(dir); err == nil {
		path = filepath.Join(v, base)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside repository %s", path, root)
	}
	return filepath.ToSlash(rel), nil
}
