package ktb

import (
	"fmt"
	"sort"

	git "github.com/go-git/go-git/v5"
)

// ChangedFiles lists the worktree paths that differ from HEAD: staged and
// unstaged modifications, additions, renames, and untracked files, sorted.
// Deleted files are left out since there is nothing on disk left to lint.
// The result feeds a Restriction, so a changed-only invocation touches only
// what the developer touched.
func ChangedFiles(repoDir string) ([]string, error) {
	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("worktree status: %w", err)
	}

	var files []string
	for path, st := range status {
		if st.Staging == git.Deleted || st.Worktree == git.Deleted {
			continue
		}
		if st.Staging == git.Unmodified && st.Worktree == git.Unmodified {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}
