package main

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
