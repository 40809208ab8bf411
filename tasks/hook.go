package tasks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goyek/goyek/v3"
)

// hookMarker identifies hooks written by ktb, so a hand-written hook is
// never clobbered.
const hookMarker = "# installed by ktb"

const checkHookScript = `#!/bin/sh
` + hookMarker + `
files=$(git diff --name-only --cached --relative -- '*.kt' '*.kts')
if [ -z "$files" ]; then
  exit 0
fi
./ktb -changed-files="$files" ktlint-check
`

const formatHookScript = `#!/bin/sh
` + hookMarker + `
files=$(git diff --name-only --cached --relative -- '*.kt' '*.kts')
if [ -z "$files" ]; then
  exit 0
fi
./ktb -changed-files="$files" ktlint-format
echo "$files" | xargs git add
`

// hookAction installs script as the repository's pre-commit hook.
func (t *Tasks) hookAction(script string) func(*goyek.A) {
	return func(a *goyek.A) {
		path := filepath.Join(t.cfg.ResolveBaseDir(), ".git", "hooks", "pre-commit")
		if err := writeHook(path, script); err != nil {
			a.Fatal(err)
		}
		a.Logf("wrote %s", path)
	}
}

// writeHook installs script as the pre-commit hook. An existing hook is
// replaced only when it carries the ktb marker.
func writeHook(path, script string) error {
	existing, err := os.ReadFile(path)
	switch {
	case err == nil && !strings.Contains(string(existing), hookMarker):
		return fmt.Errorf("pre-commit hook %s exists and was not written by ktb", path)
	case err != nil && !os.IsNotExist(err):
		return fmt.Errorf("read hook %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create hooks dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return fmt.Errorf("write hook %s: %w", path, err)
	}
	return nil
}
