package tasks

import (
	"context"

	"github.com/goyek/goyek/v3"
)

// styleExporter is the optional engine surface behind the apply-to-idea
// tasks.
type styleExporter interface {
	ApplyToIDEA(ctx context.Context, baseDir string, global, android bool) error
}

// exportAction exports the ktlint code style into IDEA settings.
func (t *Tasks) exportAction(global bool) func(*goyek.A) {
	return func(a *goyek.A) {
		exporter, ok := t.activeEngine().(styleExporter)
		if !ok {
			a.Fatal("the configured engine cannot export editor styles")
		}
		if err := exporter.ApplyToIDEA(a.Context(), t.cfg.ResolveBaseDir(), global, t.cfg.Android); err != nil {
			a.Fatal(err)
		}
		if global {
			a.Log("applied the ktlint style to the global IDEA configuration")
			return
		}
		a.Log("applied the ktlint style to the project IDEA configuration")
	}
}
