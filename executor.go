package ktb

import (
	"context"
	"fmt"
	"strings"
)

// Result is the outcome of one node attempt.
type Result struct {
	Outcome     Outcome
	Diagnostics []Violation

	// Ran lists the files actually passed to the engine, matching what
	// the manifest records.
	Ran []string
}

// Executor decides per node whether to skip, narrow, or fully re-run, then
// delegates to the engine and persists what happened. Engine, Resolver and
// the stores are required; the rest is optional configuration.
type Executor struct {
	Engine   Engine
	Resolver Resolver
	Filter   Filter

	// Restriction narrows every node's candidates; nil means unrestricted.
	Restriction *Restriction

	Resolution        Resolution
	ExperimentalRules bool
	DisabledRules     []string
	Android           bool
	EditorConfig      string
	IgnoreFailures    bool

	Records   *RecordStore
	Manifests *ManifestStore
	Reports   *ReportWriter
	Baseline  *Baseline

	Fingerprints *Fingerprinter
}

// Run executes one node. Engine failures and unreadable inputs are returned
// as errors; violations are not errors, they surface as a Failure outcome
// with diagnostics.
func (e *Executor) Run(ctx context.Context, node Node) (Result, error) {
	candidates := e.Resolver.Resolve(node.Root)
	files := e.Filter.Apply(candidates, e.Restriction)
	if len(files) == 0 {
		// The prior record stays in place so a re-appearing source
		// forces re-execution.
		return Result{Outcome: OutcomeNoSource}, nil
	}

	fp := e.Fingerprints
	if fp == nil {
		fp = NewFingerprinter()
	}
	// Fingerprints are taken before the engine runs. A format attempt that
	// rewrites files therefore records pre-rewrite content, runs once more
	// as a no-op, and only then reaches Skipped.
	prints, err := fp.Files(ctx, e.Resolver.BaseDir, files)
	if err != nil {
		return Result{}, fmt.Errorf("fingerprint inputs: %w", err)
	}
	setHash := SetFingerprint(prints)
	configHash := e.configHash()

	prev := e.Records.Load(node.Name)
	if prev.Matches(setHash, configHash) && prev.Outcome == OutcomeSuccess {
		return Result{Outcome: OutcomeSkipped}, nil
	}

	run := files
	if canNarrow(prev, configHash) {
		run = changedFiles(files, prints, prev.Files)
	}

	result := Result{Outcome: OutcomeSuccess, Ran: run}
	if len(run) > 0 {
		req := EngineRequest{
			Files:             run,
			BaseDir:           e.Resolver.BaseDir,
			Resolution:        e.Resolution,
			ExperimentalRules: e.ExperimentalRules,
			DisabledRules:     e.DisabledRules,
			Android:           e.Android,
			EditorConfig:      e.EditorConfig,
		}

		var violations []Violation
		switch node.ID.Kind {
		case KindFormat:
			violations, err = e.Engine.Format(ctx, req)
		default:
			violations, err = e.Engine.Lint(ctx, req)
		}
		if err != nil {
			return Result{}, fmt.Errorf("ktlint %s: %w", node.ID.Kind, err)
		}

		// Persistence failures are deliberately non-fatal: a missing
		// record only costs a re-run next time.
		_ = e.Manifests.Save(node.Name, run)

		if node.ID.Kind == KindCheck {
			violations = e.withoutBaselined(violations)
			result.Diagnostics = violations
			_ = e.Reports.Write(node.Name, violations)
			if len(violations) > 0 && !e.IgnoreFailures {
				result.Outcome = OutcomeFailure
			}
		} else {
			result.Diagnostics = violations
		}
	} else {
		// Only removals since the last run: nothing to hand the engine,
		// but the record below still catches up with the shrunken set.
		_ = e.Manifests.Save(node.Name, nil)
	}

	_ = e.Records.Save(&ExecutionRecord{
		Task:       node.Name,
		Files:      prints,
		SetHash:    setHash,
		ConfigHash: configHash,
		Outcome:    result.Outcome,
	})
	return result, nil
}

// configHash snapshots everything besides file contents that affects a
// node's outcome. The restriction is deliberately absent: it already shapes
// the recorded file set, and files it kept out count as changed next time.
func (e *Executor) configHash() string {
	return ConfigFingerprint(
		"version="+e.Resolution.Version.Raw,
		fmt.Sprintf("experimental=%t", e.ExperimentalRules),
		fmt.Sprintf("android=%t", e.Android),
		"disabled="+strings.Join(e.DisabledRules, ","),
		"include="+strings.Join(e.Filter.include, ","),
		"exclude="+strings.Join(e.Filter.exclude, ","),
		fmt.Sprintf("ignoreFailures=%t", e.IgnoreFailures),
		"editorconfig="+e.EditorConfig,
		"baseline="+e.Baseline.Fingerprint(),
	)
}

// withoutBaselined drops violations the baseline tolerates.
func (e *Executor) withoutBaselined(violations []Violation) []Violation {
	if e.Baseline.Len() == 0 {
		return violations
	}
	var kept []Violation
	for _, v := range violations {
		if !e.Baseline.Contains(v) {
			kept = append(kept, v)
		}
	}
	return kept
}

// canNarrow reports whether the previous record can soundly narrow the
// input set: only off a successful attempt under the same configuration,
// because files unchanged since then are known clean.
func canNarrow(prev *ExecutionRecord, configHash string) bool {
	return prev != nil && prev.Outcome == OutcomeSuccess && prev.ConfigHash == configHash
}

// changedFiles keeps the files that are new or whose content changed since
// the previous record, preserving candidate order.
func changedFiles(files []string, prints, previous map[string]string) []string {
	var changed []string
	for _, f := range files {
		if previous[f] != prints[f] {
			changed = append(changed, f)
		}
	}
	return changed
}
