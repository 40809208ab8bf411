// Package enginetest provides an in-process lint engine for tests, so
// executor and task behavior can be exercised without a ktlint binary. It
// implements a single auto-correctable rule: no run of multiple spaces after
// the indentation.
package enginetest

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/hallgrim/ktb"
)

// RuleName and Message mirror the real linter's reporting for the rule the
// fake implements.
const (
	RuleName = "no-multi-spaces"
	Message  = "Unnecessary space(s)"
)

var multiSpace = regexp.MustCompile("  +")

// Engine records every request it serves. Lint reports violations without
// touching files; Format collapses the offending space runs in place.
type Engine struct {
	mu      sync.Mutex
	Lints   []ktb.EngineRequest
	Formats []ktb.EngineRequest

	// Err, when set, fails every invocation.
	Err error
}

var _ ktb.Engine = (*Engine)(nil)

func (e *Engine) Lint(ctx context.Context, req ktb.EngineRequest) ([]ktb.Violation, error) {
	e.mu.Lock()
	e.Lints = append(e.Lints, req)
	e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	return e.scan(req, false)
}

func (e *Engine) Format(ctx context.Context, req ktb.EngineRequest) ([]ktb.Violation, error) {
	e.mu.Lock()
	e.Formats = append(e.Formats, req)
	e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	return e.scan(req, true)
}

// scan reports one violation per line containing a run of multiple spaces
// after the indentation. With rewrite set, the runs are collapsed in place.
func (e *Engine) scan(req ktb.EngineRequest, rewrite bool) ([]ktb.Violation, error) {
	var violations []ktb.Violation
	for _, file := range req.Files {
		path := filepath.Join(req.BaseDir, filepath.FromSlash(file))
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		lines := strings.Split(string(content), "\n")
		changed := false
		for i, line := range lines {
			indent := len(line) - len(strings.TrimLeft(line, " \t"))
			rest := line[indent:]
			loc := multiSpace.FindStringIndex(rest)
			if loc == nil {
				continue
			}
			violations = append(violations, ktb.Violation{
				File:           file,
				Line:           i + 1,
				Col:            indent + loc[0] + 1,
				Rule:           RuleName,
				Message:        Message,
				CanAutoCorrect: true,
			})
			if rewrite {
				lines[i] = line[:indent] + multiSpace.ReplaceAllString(rest, " ")
				changed = true
			}
		}
		if rewrite && changed {
			if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
				return nil, err
			}
		}
	}
	return violations, nil
}

// WriteClean writes a well-formatted Kotlin source under dir.
func WriteClean(t *testing.T, dir, name string) {
	t.Helper()
	write(t, dir, name, "class Example {\n    fun greet(name: String): String {\n        return \"Hello, \" + name\n    }\n}\n")
}

// WriteFailing writes a Kotlin source with an extra space before a brace.
func WriteFailing(t *testing.T, dir, name string) {
	t.Helper()
	write(t, dir, name, "class Example  {\n    fun greet(name: String): String {\n        return \"Hello, \" + name\n    }\n}\n")
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
