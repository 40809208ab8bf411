package ktb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ManifestStore persists per-task argument manifests: exactly the files
// passed to the engine on the last attempt, one path per line, so external
// tooling can assert what a task operated on.
type ManifestStore struct {
	dir string
}

// NewManifestStore returns a store rooted at dir. The directory is created
// on first write.
func NewManifestStore(dir string) *ManifestStore {
	return &ManifestStore{dir: dir}
}

func (s *ManifestStore) path(task string) string {
	return filepath.Join(s.dir, task+".txt")
}

// Save writes the manifest for task atomically.
func (s *ManifestStore) Save(task string, files []string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(f)
		sb.WriteByte('\n')
	}

	path := s.path(task)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load returns the manifest for task, or nil when it is absent.
func (s *ManifestStore) Load(task string) []string {
	content, err := os.ReadFile(s.path(task))
	if err != nil {
		return nil
	}
	var files []string
	for _, line := range strings.Split(string(content), "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files
}
