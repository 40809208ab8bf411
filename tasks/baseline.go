package tasks

import (
	"path/filepath"

	"github.com/goyek/goyek/v3"
	"github.com/hallgrim/ktb"
)

// baselineAction scans every check node and records the current violations
// as the baseline. Records and manifests are left alone: generating a
// baseline is a read-only pass over the sources.
func (t *Tasks) baselineAction(a *goyek.A) {
	baseDir := t.cfg.ResolveBaseDir()

	filter, err := ktb.NewFilter(t.cfg.Filter.Include, t.cfg.Filter.Exclude)
	if err != nil {
		a.Fatal(err)
	}

	engine := t.activeEngine()
	resolver := ktb.Resolver{BaseDir: baseDir}

	var all []ktb.Violation
	for _, node := range t.Graph.Nodes {
		if node.ID.Kind != ktb.KindCheck {
			continue
		}
		files := filter.Apply(resolver.Resolve(node.Root), nil)
		if len(files) == 0 {
			continue
		}
		violations, err := engine.Lint(a.Context(), ktb.EngineRequest{
			Files:             files,
			BaseDir:           baseDir,
			Resolution:        t.Resolution,
			ExperimentalRules: t.cfg.ExperimentalRules,
			DisabledRules:     t.cfg.DisabledRules,
			Android:           t.cfg.Android,
		})
		if err != nil {
			a.Fatal(err)
		}
		all = append(all, violations...)
	}

	rel := t.cfg.Baseline
	if rel == "" {
		rel = ktb.DefaultBaselineFile
	}
	path := filepath.Join(baseDir, filepath.FromSlash(rel))
	if err := ktb.WriteBaseline(path, all); err != nil {
		a.Fatal(err)
	}
	a.Logf("recorded %d violation(s) in %s", len(all), rel)
}
