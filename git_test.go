package ktb

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func setupRepo(t *testing.T) (string, *git.Worktree) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"committed.kt", "removed.kt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("class Example\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := wt.Add(name); err != nil {
			t.Fatal(err)
		}
	}
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return dir, wt
}

func TestChangedFiles(t *testing.T) {
	dir, _ := setupRepo(t)

	got, err := ChangedFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("clean tree reported changes: %v", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "committed.kt"), []byte("class Example { }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "untracked.kt"), []byte("class New\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, "removed.kt")); err != nil {
		t.Fatal(err)
	}

	got, err = ChangedFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"committed.kt", "untracked.kt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ChangedFiles() = %v, want %v", got, want)
	}
}

func TestChangedFilesNotARepo(t *testing.T) {
	if _, err := ChangedFiles(t.TempDir()); err == nil {
		t.Fatal("want error outside a git repository")
	}
}
