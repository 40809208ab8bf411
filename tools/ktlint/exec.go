package ktlint

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"golang.org/x/term"
)

// WaitDelay is the time to wait after sending SIGINT before sending SIGKILL.
const WaitDelay = 5 * time.Second

var (
	colorEnvOnce sync.Once
	colorEnvVars []string
)

// colorForceEnvVars are the environment variables set to force color output.
var colorForceEnvVars = []string{
	"FORCE_COLOR=1",       // Node.js, chalk, many modern tools
	"CLICOLOR_FORCE=1",    // BSD/macOS convention
	"COLORTERM=truecolor", // Indicates color support
}

// initColorEnv detects if stdout is a TTY and prepares env vars to force colors.
func initColorEnv() {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		colorEnvVars = colorForceEnvVars
	}
}

// command builds the ktlint invocation. The release asset is a
// self-executing jar; Windows cannot exec it directly and goes through
// java instead.
func (e *Engine) command(ctx context.Context, args []string, dir string) *exec.Cmd {
	colorEnvOnce.Do(initColorEnv)

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "java", append([]string{"-jar", e.Binary}, args...)...)
	} else {
		cmd = exec.CommandContext(ctx, e.Binary, args...)
	}
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), colorEnvVars...)
	cmd.WaitDelay = WaitDelay
	return cmd
}

// isLintExit reports whether err is the exit status ktlint uses to signal
// violations rather than a startup failure.
func isLintExit(err error) bool {
	var exit *exec.ExitError
	return errors.As(err, &exit) && exit.ExitCode() == 1
}
