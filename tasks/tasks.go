// Package tasks defines the goyek task surface for ktlint.
// Import it from .ktb/main.go and wire the returned tasks into the flow.
package tasks

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/goyek/goyek/v3"
	"github.com/hallgrim/ktb"
	"github.com/hallgrim/ktb/tools/ktlint"
)

// Names of the plumbing tasks defined next to the graph's surface.
const (
	InstallName    = "ktlint-install"
	InventoryName  = "ktlint-tasks"
	BaselineName   = "ktlint-baseline"
	CheckHookName  = "ktlint-install-git-hook-check"
	FormatHookName = "ktlint-install-git-hook-format"
)

// Flags shared by every invocation; parsed by the goyek bootstrap.
var (
	changedFiles = flag.String("changed-files", "", "restrict linting to this comma or newline separated path list")
	changedOnly  = flag.Bool("changed-only", false, "restrict linting to files the git worktree reports changed")
	listAll      = flag.Bool("all", false, "include per-root tasks in the "+InventoryName+" listing")
)

// Tasks holds the goyek tasks registered for one configuration.
type Tasks struct {
	// Check runs every check leaf.
	Check *goyek.DefinedTask

	// Format runs every format leaf.
	Format *goyek.DefinedTask

	// ApplyToIDEA and ApplyToIDEAGlobal export the ktlint code style to
	// the project respectively user-level IDEA settings.
	ApplyToIDEA       *goyek.DefinedTask
	ApplyToIDEAGlobal *goyek.DefinedTask

	// Install fetches the resolved ktlint distribution.
	Install *goyek.DefinedTask

	// Inventory lists the task surface.
	Inventory *goyek.DefinedTask

	// GenerateBaseline records current violations as the baseline.
	GenerateBaseline *goyek.DefinedTask

	// InstallCheckHook and InstallFormatHook write pre-commit hooks.
	InstallCheckHook  *goyek.DefinedTask
	InstallFormatHook *goyek.DefinedTask

	// Leaves maps leaf task names to their definitions.
	Leaves map[string]*goyek.DefinedTask

	// Graph is the task surface the goyek definitions mirror.
	Graph ktb.Graph

	// Resolution is the version the configuration resolved to.
	Resolution ktb.Resolution

	cfg    ktb.Config
	engine ktb.Engine
	prints *ktb.Fingerprinter
}

// Option adjusts how New builds the task set.
type Option func(*Tasks)

// WithEngine substitutes the lint engine. Intended for tests and
// non-standard ktlint installations; the install task becomes a no-op.
func WithEngine(engine ktb.Engine) Option {
	return func(t *Tasks) { t.engine = engine }
}

// New defines the ktlint tasks for cfg. Configuration problems (a malformed
// value, an unsupported ktlint version, a capability the version lacks)
// fail here, before any task is registered.
func New(cfg ktb.Config, opts ...Option) (*Tasks, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	version := cfg.Version
	if version == "" {
		version = ktlint.DefaultVersion
	}
	res, err := ktb.NewPolicy(nil).Resolve(version, capabilityWants(cfg)...)
	if err != nil {
		return nil, err
	}

	t := &Tasks{
		Leaves:     make(map[string]*goyek.DefinedTask),
		Graph:      ktb.BuildGraph(cfg.Roots()),
		Resolution: res,
		cfg:        cfg,
		prints:     ktb.NewFingerprinter(),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.Install = goyek.Define(goyek.Task{
		Name:   InstallName,
		Usage:  "install the pinned ktlint version",
		Action: t.installAction,
	})

	for _, node := range t.Graph.Nodes {
		t.Leaves[node.Name] = goyek.Define(goyek.Task{
			Name:   node.Name,
			Usage:  leafUsage(node),
			Action: t.nodeAction(node),
			Deps:   goyek.Deps{t.Install},
		})
	}

	for _, agg := range t.Graph.Aggregates {
		deps := make(goyek.Deps, 0, len(agg.Deps))
		for _, name := range agg.Deps {
			deps = append(deps, t.Leaves[name])
		}
		switch agg.Name {
		case ktb.CheckAllName:
			t.Check = goyek.Define(goyek.Task{Name: agg.Name, Usage: agg.Usage, Deps: deps})
		case ktb.FormatAllName:
			t.Format = goyek.Define(goyek.Task{Name: agg.Name, Usage: agg.Usage, Deps: deps})
		case ktb.ApplyToIDEAName:
			t.ApplyToIDEA = goyek.Define(goyek.Task{
				Name: agg.Name, Usage: agg.Usage,
				Action: t.exportAction(false),
				Deps:   goyek.Deps{t.Install},
			})
		case ktb.ApplyToIDEAGlobalName:
			t.ApplyToIDEAGlobal = goyek.Define(goyek.Task{
				Name: agg.Name, Usage: agg.Usage,
				Action: t.exportAction(true),
				Deps:   goyek.Deps{t.Install},
			})
		}
	}

	t.Inventory = goyek.Define(goyek.Task{
		Name:   InventoryName,
		Usage:  "list the ktlint task surface",
		Action: t.inventoryAction,
	})
	t.GenerateBaseline = goyek.Define(goyek.Task{
		Name:   BaselineName,
		Usage:  "record current violations as the baseline",
		Action: t.baselineAction,
		Deps:   goyek.Deps{t.Install},
	})
	t.InstallCheckHook = goyek.Define(goyek.Task{
		Name:   CheckHookName,
		Usage:  "install a pre-commit hook that checks staged Kotlin files",
		Action: t.hookAction(checkHookScript),
	})
	t.InstallFormatHook = goyek.Define(goyek.Task{
		Name:   FormatHookName,
		Usage:  "install a pre-commit hook that formats staged Kotlin files",
		Action: t.hookAction(formatHookScript),
	})

	return t, nil
}

// capabilityWants lists the optional ktlint behaviors the config relies on.
func capabilityWants(cfg ktb.Config) []ktb.Capability {
	var wants []ktb.Capability
	if cfg.ExperimentalRules {
		wants = append(wants, ktb.CapExperimentalRules)
	}
	if len(cfg.DisabledRules) > 0 {
		wants = append(wants, ktb.CapDisabledRules)
	}
	if cfg.Baseline != "" {
		wants = append(wants, ktb.CapBaseline)
	}
	return wants
}

func leafUsage(node ktb.Node) string {
	verb := "check"
	if node.ID.Kind == ktb.KindFormat {
		verb = "format"
	}
	if node.ID.Category == ktb.CategoryScript {
		return fmt.Sprintf("%s the build scripts with ktlint", verb)
	}
	return fmt.Sprintf("%s the %s sources with ktlint", verb, node.ID.Root)
}

func (t *Tasks) installAction(a *goyek.A) {
	if t.engine != nil {
		return // An injected engine brings its own binary.
	}
	binary, err := ktlint.Install(a.Context(), t.Resolution, t.toolsDir())
	if err != nil {
		a.Fatal(err)
	}
	a.Logf("ktlint %s at %s", t.Resolution.Version.Raw, binary)
}

func (t *Tasks) inventoryAction(a *goyek.A) {
	for _, name := range t.Graph.Names(*listAll) {
		fmt.Fprintln(a.Output(), name)
	}
}

// toolsDir is where ktlint versions are installed. Only called from task
// actions, after flags are parsed and a git root must exist.
func (t *Tasks) toolsDir() string {
	return filepath.Join(t.cfg.ResolveWorkDir(), ktb.ToolsDirName, ktlint.Name)
}

// activeEngine returns the injected engine or the installed binary engine.
func (t *Tasks) activeEngine() ktb.Engine {
	if t.engine != nil {
		return t.engine
	}
	return &ktlint.Engine{Binary: ktlint.BinaryPath(t.toolsDir(), t.Resolution.Version.Raw)}
}
