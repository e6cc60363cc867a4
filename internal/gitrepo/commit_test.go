package gitrepo

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestCommitNote_NonRepo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "2024-W05.md")
	writeFile(t, path, "# Week 05\n")

	c := NewCommitter()
	committed, err := c.CommitNote(context.Background(), path, "")
	if err != nil {
		t.Fatalf("CommitNote: %v", err)
	}
	if committed {
		t.Fatalf("expected nothing to be committed outside a repo")
	}
	if err := c.CheckWritable(dir); err != nil {
		t.Fatalf("expected non-repo to be writable; got %v", err)
	}
}

func TestCommitNote_CommitsOnlyTheNote(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	t.Parallel()

	ctx := context.Background()
	repo := initRepo(t)
	weekly := filepath.Join(repo, "_periodic", "weekly")
	note := filepath.Join(weekly, "2024-W05.md")
	writeFile(t, note, "# Week 05\n\n## Habits\n\n- [ ] Read\n")
	writeFile(t, filepath.Join(repo, "other.md"), "unrelated\n")
	run(t, repo, "git", "add", "other.md")

	c := NewCommitter()
	committed, err := c.CommitNote(ctx, note, "planner: habits 2024-W05")
	if err != nil {
		t.Fatalf("CommitNote: %v", err)
	}
	if !committed {
		t.Fatalf("expected a commit")
	}

	files := runOut(t, repo, "git", "show", "--name-only", "--format=%s", "HEAD")
	if !strings.Contains(files, "planner: habits 2024-W05") || !strings.Contains(files, "_periodic/weekly/2024-W05.md") {
		t.Fatalf("unexpected HEAD:\n%s", files)
	}
	if strings.Contains(files, "other.md") {
		t.Fatalf("expected other staged files to stay out of the commit:\n%s", files)
	}

	committed, err = c.CommitNote(ctx, note, "")
	if err != nil {
		t.Fatalf("CommitNote (unchanged): %v", err)
	}
	if committed {
		t.Fatalf("expected no commit for an unchanged note")
	}
}

func TestCheckWritable_RefusesDuringMerge(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	t.Parallel()

	repo := initRepo(t)
	writeFile(t, filepath.Join(repo, ".git", "MERGE_HEAD"), "deadbeef\n")

	err := NewCommitter().CheckWritable(filepath.Join(repo, "_periodic", "weekly"))
	if !errors.Is(err, ErrInProgress) {
		t.Fatalf("expected ErrInProgress; got %v", err)
	}
	if !strings.Contains(err.Error(), "merge") {
		t.Fatalf("expected the operation to be named; got %v", err)
	}
}

func TestFindGitDir_FollowsGitdirFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	real := filepath.Join(root, "real.git")
	if err := os.MkdirAll(real, 0o755); err != nil {
		t.Fatal(err)
	}
	wt := filepath.Join(root, "worktree")
	writeFile(t, filepath.Join(wt, ".git"), "gitdir: ../real.git\n")

	got, ok, err := FindGitDir(filepath.Join(wt, "nested"))
	if err != nil || !ok {
		t.Fatalf("FindGitDir: ok=%v err=%v", ok, err)
	}
	if got != real {
		t.Fatalf("expected %s; got %s", real, got)
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	repo := t.TempDir()
	run(t, repo, "git", "init")
	run(t, repo, "git", "config", "user.email", "test@example.com")
	run(t, repo, "git", "config", "user.name", "Test")
	writeFile(t, filepath.Join(repo, "README.md"), "notes\n")
	run(t, repo, "git", "add", ".")
	run(t, repo, "git", "commit", "-m", "base")
	return repo
}

func run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	_ = runOut(t, dir, name, args...)
}

func runOut(t *testing.T, dir string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("%s %s: %v\n%s", name, strings.Join(args, " "), err, out)
	}
	return string(out)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
