package tasks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteHook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".git", "hooks", "pre-commit")

	if err := writeHook(path, checkHookScript); err != nil {
		t.Fatalf("writeHook(): %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read hook: %v", err)
	}
	if string(data) != checkHookScript {
		t.Errorf("hook content = %q, want check script", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat hook: %v", err)
	}
	if info.Mode()&0o100 == 0 {
		t.Errorf("hook mode = %v, want owner-executable", info.Mode())
	}

	// A hook we wrote ourselves may be replaced.
	if err := writeHook(path, formatHookScript); err != nil {
		t.Fatalf("writeHook() over own hook: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("read hook: %v", err)
	}
	if string(data) != formatHookScript {
		t.Errorf("hook content = %q, want format script", data)
	}
}

func TestWriteHookRefusesForeign(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".git", "hooks", "pre-commit")
	foreign := "#!/bin/sh\nexit 1\n"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(foreign), 0o755); err != nil {
		t.Fatal(err)
	}

	err := writeHook(path, checkHookScript)
	if err == nil {
		t.Fatal("writeHook() = nil error for a foreign hook")
	}
	if !strings.Contains(err.Error(), "not written by ktb") {
		t.Errorf("error = %q, want mention of foreign hook", err)
	}
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if string(data) != foreign {
		t.Error("foreign hook was modified")
	}
}

func TestHookScripts(t *testing.T) {
	for name, script := range map[string]string{"check": checkHookScript, "format": formatHookScript} {
		if !strings.Contains(script, hookMarker) {
			t.Errorf("%s script lacks the install marker", name)
		}
		if !strings.HasPrefix(script, "#!/bin/sh\n") {
			t.Errorf("%s script lacks a shebang", name)
		}
	}
	// Flags must precede the task name: flag parsing stops at the first
	// non-flag argument.
	if !strings.Contains(checkHookScript, `-changed-files="$files" ktlint-check`) {
		t.Error("check script does not restrict the check aggregate to staged files")
	}
	if !strings.Contains(formatHookScript, `-changed-files="$files" ktlint-format`) {
		t.Error("format script does not restrict the format aggregate to staged files")
	}
	if !strings.Contains(formatHookScript, "git add") {
		t.Error("format script does not restage corrected files")
	}
}
