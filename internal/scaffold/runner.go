package scaffold

import (
	"context"
	"os"
	"os/exec"
	"strings"
)

// Runner executes local commands.
type Runner interface {
	// Run executes name in dir and returns its combined output.
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	// Attach executes name in dir with the terminal attached.
	Attach(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	// #nosec G204 - commands are assembled from the operator's own configuration
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Attach implements Runner.
func (ExecRunner) Attach(ctx context.Context, dir, name string, args ...string) error {
	// #nosec G204 - the editor comes from the operator's environment
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// CommandError reports a local command that failed.
type CommandError struct {
	Command string
	Dir     string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := "command " + e.Command + " failed"
	if e.Dir != "" {
		msg += " in " + e.Dir
	}
	msg += ": " + e.Err.Error()
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\nOutput: " + out
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
