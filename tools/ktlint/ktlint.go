// Package ktlint runs the ktlint binary as the lint engine.
package ktlint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hallgrim/ktb"
)

// Name is the binary name for ktlint.
const Name = "ktlint"

// DefaultVersion is the ktlint version installed when none is configured.
// renovate: datasource=github-releases depName=pinterest/ktlint
const DefaultVersion = "0.45.2"

// Engine invokes ktlint as a subprocess and decodes its JSON reporter
// output.
type Engine struct {
	// Binary is the path to the installed ktlint executable.
	Binary string
}

var _ ktb.Engine = (*Engine)(nil)

// Lint reports violations without modifying files.
func (e *Engine) Lint(ctx context.Context, req ktb.EngineRequest) ([]ktb.Violation, error) {
	return e.run(ctx, req, false)
}

// Format rewrites what ktlint can auto-correct and reports every violation
// it found.
func (e *Engine) Format(ctx context.Context, req ktb.EngineRequest) ([]ktb.Violation, error) {
	return e.run(ctx, req, true)
}

func (e *Engine) run(ctx context.Context, req ktb.EngineRequest, format bool) ([]ktb.Violation, error) {
	cmd := e.command(ctx, buildArgs(req, format), req.BaseDir)

	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil && !isLintExit(err) {
		return nil, fmt.Errorf("%s: %w\n%s", Name, err, errOut.String())
	}

	violations, err := ParseReport(out.Bytes())
	if err != nil {
		return nil, err
	}

	// Some ktlint versions echo absolute paths; report them relative to
	// the base directory like the rest of the pipeline.
	for i, v := range violations {
		if filepath.IsAbs(filepath.FromSlash(v.File)) {
			if rel, relErr := filepath.Rel(req.BaseDir, filepath.FromSlash(v.File)); relErr == nil {
				violations[i].File = filepath.ToSlash(rel)
			}
		}
	}
	return violations, nil
}

// buildArgs maps a request onto the ktlint command line. Files come last,
// in request order.
func buildArgs(req ktb.EngineRequest, format bool) []string {
	args := []string{"--reporter=json"}
	if format {
		args = append(args, "-F")
	}
	if req.ExperimentalRules {
		args = append(args, "--experimental")
	}
	if req.Android {
		args = append(args, "--android")
	}
	if len(req.DisabledRules) > 0 {
		args = append(args, "--disabled_rules="+strings.Join(req.DisabledRules, ","))
	}
	if req.EditorConfig != "" {
		args = append(args, "--editorconfig="+req.EditorConfig)
	}
	for _, f := range req.Files {
		args = append(args, filepath.FromSlash(f))
	}
	return args
}

type reportError struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
	Rule    string `json:"rule"`
}

type reportEntry struct {
	File   string        `json:"file"`
	Errors []reportError `json:"errors"`
}

// ParseReport decodes ktlint's JSON reporter output. Empty output means a
// clean run.
func ParseReport(data []byte) ([]ktb.Violation, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var entries []reportEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode ktlint report: %w", err)
	}

	var violations []ktb.Violation
	for _, entry := range entries {
		for _, e := range entry.Errors {
			violations = append(violations, ktb.Violation{
				File:           ktb.NormalizePath(entry.File),
				Line:           e.Line,
				Col:            e.Column,
				Rule:           e.Rule,
				Message:        e.Message,
				CanAutoCorrect: !strings.Contains(e.Message, "cannot be auto-corrected"),
			})
		}
	}
	return violations, nil
}

// ApplyToIDEA exports the ktlint code style into IDEA settings: the
// project's .idea directory by default, the user-level settings when
// global is set.
func (e *Engine) ApplyToIDEA(ctx context.Context, baseDir string, global, android bool) error {
	sub := "applyToIDEAProject"
	if global {
		sub = "applyToIDEA"
	}
	args := []string{sub, "-y"}
	if android {
		args = append(args, "--android")
	}

	cmd := e.command(ctx, args, baseDir)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w\n%s", Name, sub, err, buf.String())
	}
	return nil
}
