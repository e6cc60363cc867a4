package gitrepo

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// FindGitDir walks up from start and returns the git directory (e.g.
// /repo/.git, or the target of a worktree's .git file). It does not run git.
func FindGitDir(start string) (gitDir string, ok bool, err error) {
	dir := filepath.Clean(strings.TrimSpace(start))
	if dir == "" || dir == "." {
		return "", false, errors.New("empty start dir")
	}

	for {
		candidate := filepath.Join(dir, ".git")
		st, statErr := os.Stat(candidate)
		switch {
		case statErr == nil && st.IsDir():
			return candidate, true, nil
		case statErr == nil:
			target, err := readGitdirFile(candidate)
			if err != nil {
				return "", false, err
			}
			if target != "" {
				return target, true, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// readGitdirFile reads a "gitdir: <path>" pointer file.
func readGitdirFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ln := strings.TrimSpace(sc.Text())
		if ln == "" {
			continue
		}
		const prefix = "gitdir:"
		if len(ln) < len(prefix) || !strings.EqualFold(ln[:len(prefix)], prefix) {
			break
		}
		p := strings.TrimSpace(ln[len(prefix):])
		if p == "" {
			return "", nil
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(filepath.Dir(path), p)
		}
		return filepath.Clean(p), nil
	}
	return "", sc.Err()
}

// inProgressKind reports which history operation, if any, has left marker
// files in gitDir: merge, rebase, cherry-pick or revert.
func inProgressKind(gitDir string) string {
	markers := []struct{ kind, name string }{
		{"merge", "MERGE_HEAD"},
		{"rebase", "rebase-apply"},
		{"rebase", "rebase-merge"},
		{"cherry-pick", "CHERRY_PICK_HEAD"},
		{"revert", "REVERT_HEAD"},
	}
	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(gitDir, m.name)); err == nil {
			return m.kind
		}
	}
	return ""
}
