package ktb

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// ReportWriter persists check diagnostics, one plain-text and one JSON
// report per task.
type ReportWriter struct {
	dir string
}

// NewReportWriter returns a writer rooted at dir.
func NewReportWriter(dir string) *ReportWriter {
	return &ReportWriter{dir: dir}
}

// Write persists the diagnostics for task. An empty list writes empty
// reports, clearing stale findings from an earlier attempt.
func (w *ReportWriter) Write(task string, violations []Violation) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	var sb strings.Builder
	for _, v := range violations {
		sb.WriteString(formatViolation(v))
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(filepath.Join(w.dir, task+".txt"), []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}

	if violations == nil {
		violations = []Violation{}
	}
	content, err := json.MarshalIndent(violations, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, task+".json"), content, 0o644); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	return nil
}

// formatViolation renders one finding as file:line:col message (rule).
func formatViolation(v Violation) string {
	s := fmt.Sprintf("%s:%d:%d %s (%s)", v.File, v.Line, v.Col, v.Message, v.Rule)
	if !v.CanAutoCorrect {
		s += " [cannot be auto-corrected]"
	}
	return s
}

// FprintViolations renders diagnostics for a terminal: location in bold,
// rule id dimmed, the not-auto-correctable annotation in yellow. Color is
// dropped automatically on non-terminal writers and under NO_COLOR.
func FprintViolations(w io.Writer, violations []Violation) {
	location := color.New(color.Bold)
	rule := color.New(color.Faint)
	warn := color.New(color.FgYellow)

	for _, v := range violations {
		line := location.Sprintf("%s:%d:%d", v.File, v.Line, v.Col) +
			" " + v.Message + " " + rule.Sprintf("(%s)", v.Rule)
		if !v.CanAutoCorrect {
			line += warn.Sprint(" [cannot be auto-corrected]")
		}
		fmt.Fprintln(w, line)
	}
}
