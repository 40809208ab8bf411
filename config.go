package ktb

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the optional project configuration file,
// looked up in the base directory.
const ConfigFileName = ".ktb.yml"

// Config defines the ktlint configuration for a project using ktb.
type Config struct {
	// Version pins the ktlint version to install and run.
	// When empty, tools/ktlint.DefaultVersion is used.
	//
	// Example:
	//
	//	Version: "0.45.2",
	Version string `yaml:"version"`

	// ExperimentalRules enables the experimental rule set.
	// Requires ktlint 0.31.0 or newer.
	ExperimentalRules bool `yaml:"experimentalRules"`

	// DisabledRules lists rule ids to turn off.
	// Requires ktlint 0.34.2 or newer.
	DisabledRules []string `yaml:"disabledRules"`

	// Android enables the Android Kotlin style guide.
	Android bool `yaml:"android"`

	// IgnoreFailures reports violations without failing the check tasks.
	IgnoreFailures bool `yaml:"ignoreFailures"`

	// Baseline is the path to a baseline file, relative to the base
	// directory. Violations recorded there are tolerated by check tasks.
	// Requires ktlint 0.41.0 or newer.
	Baseline string `yaml:"baseline"`

	// Filter narrows the resolved files with ant-style glob patterns.
	//
	// Example:
	//
	//	Filter: ktb.FilterConfig{
	//	    Exclude: []string{"**/generated/**"},
	//	},
	Filter FilterConfig `yaml:"filter"`

	// SourceRoots maps root names to the directories searched recursively
	// for .kt files. When nil, the standard Gradle layout applies.
	//
	// Example:
	//
	//	SourceRoots: map[string][]string{
	//	    "main": {"src/main/kotlin"},
	//	    "test": {"src/test/kotlin"},
	//	},
	SourceRoots map[string][]string `yaml:"sourceRoots"`

	// AdditionalScriptPaths registers extra .kts locations beyond the
	// base directory itself: a file is taken as is, a directory is
	// searched recursively.
	AdditionalScriptPaths []string `yaml:"additionalScriptPaths"`

	// BaseDir anchors the source roots. Default: the git root.
	BaseDir string `yaml:"-"`

	// WorkDir holds records, manifests, reports and installed tools.
	// Default: <base>/.ktb.
	WorkDir string `yaml:"-"`
}

// FilterConfig holds the include and exclude glob patterns of a Config.
// Patterns use forward slashes; `**` crosses directory boundaries.
type FilterConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// WithDefaults returns a copy of the config with default values applied.
func (c Config) WithDefaults() Config {
	// Default to the standard Gradle source layout if no roots are given.
	if c.SourceRoots == nil {
		c.SourceRoots = map[string][]string{
			"main": {"src/main/kotlin"},
			"test": {"src/test/kotlin"},
		}
	}
	return c
}

var rootNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Validate rejects configurations that cannot be executed. Every error
// names the offending value.
func (c Config) Validate() error {
	if c.Version != "" {
		if _, err := ParseVersion(c.Version); err != nil {
			return err
		}
	}
	for name := range c.SourceRoots {
		if name == ScriptRootName {
			return fmt.Errorf("source root name %q is reserved for build scripts", ScriptRootName)
		}
		if !rootNamePattern.MatchString(name) {
			return fmt.Errorf("invalid source root name %q: want lowercase letters, digits and dashes", name)
		}
	}
	if _, err := NewFilter(c.Filter.Include, c.Filter.Exclude); err != nil {
		return err
	}
	return nil
}

// Roots returns the source roots declared by the config: the named roots
// sorted by name, then the build-script root. The script root covers the
// top-level *.kts files of the base directory plus AdditionalScriptPaths.
func (c Config) Roots() []SourceRoot {
	names := make([]string, 0, len(c.SourceRoots))
	for name := range c.SourceRoots {
		names = append(names, name)
	}
	sort.Strings(names)

	roots := make([]SourceRoot, 0, len(names)+1)
	for _, name := range names {
		roots = append(roots, SourceRoot{
			Name:     name,
			Category: CategorySource,
			Dirs:     c.SourceRoots[name],
		})
	}
	roots = append(roots, SourceRoot{
		Name:     ScriptRootName,
		Category: CategoryScript,
		TopLevel: []string{"."},
		Extra:    c.AdditionalScriptPaths,
	})
	return roots
}

// ResolveBaseDir returns the configured base directory, defaulting to the
// git root.
func (c Config) ResolveBaseDir() string {
	if c.BaseDir != "" {
		return c.BaseDir
	}
	return GitRoot()
}

// ResolveWorkDir returns the configured working directory, defaulting to
// the .ktb directory under the base directory.
func (c Config) ResolveWorkDir() string {
	if c.WorkDir != "" {
		return c.WorkDir
	}
	return filepath.Join(c.ResolveBaseDir(), DirName)
}

// LoadConfig reads a config file. A missing file yields the zero config,
// so a project without one still gets the default tasks. Fields set here
// can be overridden afterwards in Go code before the tasks are defined.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}
