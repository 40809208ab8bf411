package ktb

import "context"

// Violation is one finding reported by the lint engine.
type Violation struct {
	// File is relative to the request base directory, slash separated.
	File           string `json:"file"`
	Line           int    `json:"line"`
	Col            int    `json:"column"`
	Rule           string `json:"rule"`
	Message        string `json:"message"`
	CanAutoCorrect bool   `json:"canAutoCorrect"`
}

// EngineRequest carries one node's invocation: the files to process and the
// version-resolved flags.
type EngineRequest struct {
	// Files are slash paths relative to BaseDir.
	Files   []string
	BaseDir string

	Resolution        Resolution
	ExperimentalRules bool
	DisabledRules     []string
	Android           bool
	EditorConfig      string
}

// Engine is the boundary to the external linter. Lint reports violations
// without touching files; Format corrects what it can in place and reports
// every violation it found, corrected or not.
type Engine interface {
	Lint(ctx context.Context, req EngineRequest) ([]Violation, error)
	Format(ctx context.Context, req EngineRequest) ([]Violation, error)
}
