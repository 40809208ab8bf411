package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		if err := runInit(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "update":
		if err := runUpdate(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ktb - bootstrap and update ktb in your project

Usage:
  ktb init      Initialize .ktb/ in current directory
  ktb update    Update ktb dependency and wrapper script

Examples:
  go run github.com/hallgrim/ktb/cmd/ktb@latest init
  go run github.com/hallgrim/ktb/cmd/ktb@latest update`)
}

func runInit() error {
	// The task runner resolves every path from the git root, so init must
	// run there.
	if _, err := os.Stat(".git"); err != nil {
		return fmt.Errorf("not at a git repository root (no .git found)")
	}

	// Check .ktb doesn't already exist
	if _, err := os.Stat(".ktb"); err == nil {
		return fmt.Errorf(".ktb/ already exists")
	}

	fmt.Println("Initializing ktb...")

	// Create .ktb directory
	if err := os.MkdirAll(".ktb", 0o755); err != nil {
		return fmt.Errorf("creating .ktb/: %w", err)
	}

	// The host project is a Kotlin project, so the build module name is
	// derived from the directory rather than a go.mod.
	buildModule, err := buildModuleName()
	if err != nil {
		return err
	}
	fmt.Printf("  Creating .ktb/go.mod (%s)\n", buildModule)
	if err := runCommand(".ktb", "go", "mod", "init", buildModule); err != nil {
		return fmt.Errorf("go mod init: %w", err)
	}

	// Get dependencies
	deps := []string{
		"github.com/hallgrim/ktb@latest",
		"github.com/goyek/goyek/v3@latest",
		"github.com/goyek/x@latest",
	}
	for _, dep := range deps {
		fmt.Printf("  Adding %s\n", dep)
		if err := runCommand(".ktb", "go", "get", dep); err != nil {
			return fmt.Errorf("go get %s: %w", dep, err)
		}
	}

	// Create config.go
	fmt.Println("  Creating .ktb/config.go")
	if err := os.WriteFile(".ktb/config.go", []byte(configTemplate), 0o644); err != nil {
		return fmt.Errorf("creating config.go: %w", err)
	}

	// Create main.go
	fmt.Println("  Creating .ktb/main.go")
	if err := os.WriteFile(".ktb/main.go", []byte(mainTemplate), 0o644); err != nil {
		return fmt.Errorf("creating main.go: %w", err)
	}

	// Create .gitignore
	fmt.Println("  Creating .ktb/.gitignore")
	if err := os.WriteFile(".ktb/.gitignore", []byte(gitignoreTemplate), 0o644); err != nil {
		return fmt.Errorf("creating .gitignore: %w", err)
	}

	// Run go mod tidy
	fmt.Println("  Running go mod tidy")
	if err := runCommand(".ktb", "go", "mod", "tidy"); err != nil {
		return fmt.Errorf("go mod tidy: %w", err)
	}

	// Create wrapper script
	fmt.Println("  Creating ./ktb (wrapper script)")
	if err := os.WriteFile("ktb", []byte(wrapperBashTemplate), 0o755); err != nil {
		return fmt.Errorf("creating ktb wrapper: %w", err)
	}

	fmt.Println()
	fmt.Println("Done! You can now run:")
	fmt.Println("  ./ktb -h              # list available tasks")
	fmt.Println("  ./ktb                 # check all Kotlin sources")
	fmt.Println("  ./ktb ktlint-format   # format all Kotlin sources")
	fmt.Println("  ./ktb ktlint-tasks    # list the ktlint task family")

	return nil
}

func buildModuleName() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Base(wd) + "-build", nil
}

func runCommand(dir, name string, args ...string) error {
	cmd := exec.CommandContext(context.Background(), name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func runUpdate() error {
	// Check .ktb exists
	if _, err := os.Stat(".ktb"); os.IsNotExist(err) {
		return fmt.Errorf(".ktb/ not found - run 'ktb init' first")
	}

	fmt.Println("Updating ktb...")

	// Update ktb dependency
	fmt.Println("  Updating github.com/hallgrim/ktb@latest")
	if err := runCommand(".ktb", "go", "get", "-u", "github.com/hallgrim/ktb@latest"); err != nil {
		return fmt.Errorf("go get -u: %w", err)
	}

	// Run go mod tidy
	fmt.Println("  Running go mod tidy")
	if err := runCommand(".ktb", "go", "mod", "tidy"); err != nil {
		return fmt.Errorf("go mod tidy: %w", err)
	}

	// Update wrapper script
	fmt.Println("  Updating ./ktb (wrapper script)")
	if err := os.WriteFile("ktb", []byte(wrapperBashTemplate), 0o755); err != nil {
		return fmt.Errorf("updating ktb wrapper: %w", err)
	}

	fmt.Println("Done!")
	return nil
}

const configTemplate = `package main

import "github.com/hallgrim/ktb"

// Customize adjusts the configuration loaded from .ktb.yml at the
// repository root. Values set here override the file.
func Customize(cfg ktb.Config) ktb.Config {
	// cfg.Version = "0.45.2"
	// cfg.SourceRoots = map[string][]string{
	// 	"main": {"src/main/kotlin"},
	// 	"test": {"src/test/kotlin"},
	// }
	return cfg
}
`

const mainTemplate = `package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/goyek/goyek/v3"
	"github.com/goyek/x/boot"
	"github.com/hallgrim/ktb"
	"github.com/hallgrim/ktb/tasks"
)

var update = goyek.Define(goyek.Task{
	Name:  "update",
	Usage: "update ktb and the wrapper script",
	Action: func(a *goyek.A) {
		cmd := exec.CommandContext(a.Context(), "go", "run", "github.com/hallgrim/ktb/cmd/ktb@latest", "update")
		cmd.Dir = ktb.GitRoot()
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			a.Fatalf("ktb update: %v", err)
		}
	},
})

func main() {
	cfg, err := ktb.LoadConfig(ktb.FromGitRoot(ktb.ConfigFileName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	t, err := tasks.New(Customize(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	goyek.SetDefault(t.Check)
	boot.Main()
}
`

const gitignoreTemplate = `# Downloaded ktlint binaries
bin/
tools/

# Execution records, manifests and reports
records/
manifests/
reports/
`

const wrapperBashTemplate = `#!/bin/bash
set -e
go run -C .ktb . -v "$@"
`
