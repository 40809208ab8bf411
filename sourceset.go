package ktb

import (
	"os"
	"path/filepath"
	"strings"
)

// Category classifies a source root and decides its extension filter.
type Category string

const (
	// CategorySource covers regular Kotlin sources (.kt).
	CategorySource Category = "source"
	// CategoryScript covers Kotlin build scripts (.kts).
	CategoryScript Category = "script"
)

// Extensions returns the file extensions the category matches.
func (c Category) Extensions() []string {
	if c == CategoryScript {
		return []string{".kts"}
	}
	return []string{".kt"}
}

// ScriptRootName is the reserved name of the project-level script root.
const ScriptRootName = "script"

// SourceRoot declares where one named group of Kotlin files lives. All paths
// are relative to the resolver's base directory.
type SourceRoot struct {
	Name     string
	Category Category

	// Dirs are searched recursively.
	Dirs []string

	// TopLevel directories contribute only their immediate files, not
	// their subtrees.
	TopLevel []string

	// Extra entries are additional registered paths: a file is taken as
	// is, a directory is searched recursively.
	Extra []string
}

// Resolver expands source roots into concrete candidate files.
type Resolver struct {
	// BaseDir anchors relative root paths and the returned file paths.
	BaseDir string
}

// Resolve returns the files belonging to root, relative to BaseDir with
// forward slashes. Directories are visited in declaration order and a file
// reachable twice is reported once (first occurrence wins). Missing
// directories contribute nothing; an empty result is not an error.
func (r Resolver) Resolve(root SourceRoot) []string {
	exts := root.Category.Extensions()
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		rel, err := filepath.Rel(r.BaseDir, path)
		Must(err) // Should never fail - every path is under BaseDir.
		// Normalize to forward slashes for cross-platform consistency.
		rel = filepath.ToSlash(rel)
		if !seen[rel] {
			seen[rel] = true
			files = append(files, rel)
		}
	}

	for _, dir := range root.Dirs {
		r.walk(filepath.Join(r.BaseDir, filepath.FromSlash(dir)), exts, add)
	}
	for _, dir := range root.TopLevel {
		r.listTop(filepath.Join(r.BaseDir, filepath.FromSlash(dir)), exts, add)
	}
	for _, extra := range root.Extra {
		path := filepath.Join(r.BaseDir, filepath.FromSlash(extra))
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.IsDir() {
			r.walk(path, exts, add)
			continue
		}
		add(path)
	}
	return files
}

// walk collects the files under dir matching exts.
func (r Resolver) walk(dir string, exts []string, add func(string)) {
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // Intentionally continue walking when directory is inaccessible.
		}

		// Skip hidden directories and common vendor directories, but
		// never the directory the walk started from.
		if d.IsDir() {
			if path == dir {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}

		if hasExtension(d.Name(), exts) {
			add(path)
		}
		return nil
	})
}

// listTop collects the immediate files of dir matching exts.
func (r Resolver) listTop(dir string, exts []string, add func(string)) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if hasExtension(entry.Name(), exts) {
			add(filepath.Join(dir, entry.Name()))
		}
	}
}

func hasExtension(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
