package tasks

import (
	"path/filepath"

	"github.com/goyek/goyek/v3"
	"github.com/hallgrim/ktb"
)

// nodeAction runs one leaf node through the incremental executor.
func (t *Tasks) nodeAction(node ktb.Node) func(*goyek.A) {
	return func(a *goyek.A) {
		exec, err := t.executor()
		if err != nil {
			a.Fatal(err)
		}

		result, err := exec.Run(a.Context(), node)
		if err != nil {
			a.Fatal(err)
		}

		switch result.Outcome {
		case ktb.OutcomeNoSource:
			a.Logf("%s: no relevant source", node.Name)
		case ktb.OutcomeSkipped:
			a.Logf("%s: up to date", node.Name)
		case ktb.OutcomeFailure:
			ktb.FprintViolations(a.Output(), result.Diagnostics)
			a.Errorf("ktlint found %d violation(s)", len(result.Diagnostics))
		default:
			// A format run reports what it corrected; an ignored check
			// failure reports what it tolerated.
			if len(result.Diagnostics) > 0 {
				ktb.FprintViolations(a.Output(), result.Diagnostics)
			}
			a.Logf("%s: processed %d file(s)", node.Name, len(result.Ran))
		}
	}
}

// executor assembles the incremental executor for the current invocation.
// Built per action so flag-driven restrictions and the baseline are read
// when the task runs, not when it is defined.
func (t *Tasks) executor() (*ktb.Executor, error) {
	baseDir := t.cfg.ResolveBaseDir()
	workDir := t.cfg.ResolveWorkDir()

	filter, err := ktb.NewFilter(t.cfg.Filter.Include, t.cfg.Filter.Exclude)
	if err != nil {
		return nil, err
	}

	restriction, err := t.restriction(baseDir)
	if err != nil {
		return nil, err
	}

	var baseline *ktb.Baseline
	if t.cfg.Baseline != "" {
		baseline, err = ktb.LoadBaseline(filepath.Join(baseDir, filepath.FromSlash(t.cfg.Baseline)))
		if err != nil {
			return nil, err
		}
	}

	return &ktb.Executor{
		Engine:            t.activeEngine(),
		Resolver:          ktb.Resolver{BaseDir: baseDir},
		Filter:            filter,
		Restriction:       restriction,
		Resolution:        t.Resolution,
		ExperimentalRules: t.cfg.ExperimentalRules,
		DisabledRules:     t.cfg.DisabledRules,
		Android:           t.cfg.Android,
		IgnoreFailures:    t.cfg.IgnoreFailures,
		Records:           ktb.NewRecordStore(filepath.Join(workDir, ktb.RecordsDirName)),
		Manifests:         ktb.NewManifestStore(filepath.Join(workDir, ktb.ManifestsDirName)),
		Reports:           ktb.NewReportWriter(filepath.Join(workDir, ktb.ReportsDirName, "ktlint")),
		Baseline:          baseline,
		Fingerprints:      t.prints,
	}, nil
}

// restriction derives the "only these paths" set from flags. An empty git
// change set restricts to nothing, which every node reports as no source.
func (t *Tasks) restriction(repoDir string) (*ktb.Restriction, error) {
	if *changedFiles != "" {
		return ktb.ParseRestriction(*changedFiles), nil
	}
	if *changedOnly {
		files, err := ktb.ChangedFiles(repoDir)
		if err != nil {
			return nil, err
		}
		return ktb.NewRestriction(files), nil
	}
	return nil, nil
}
