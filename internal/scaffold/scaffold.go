package scaffold

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultBranch is the branch the initial commit is pushed to.
	DefaultBranch = "main"
	commitMessage = "Initial Commit"
)

// Options describes one scaffold.
type Options struct {
	// TemplateURL is cloned into Dir.
	TemplateURL string
	// Dir is the project directory. It is created if missing and must be empty.
	Dir string
	// InstallCommand installs dependencies, e.g. ["npm", "install"]. Empty skips it.
	InstallCommand []string
	// RemoteURL is the clone URL of the created repository. Empty skips the push.
	RemoteURL string
	// Editor is an EDITOR-style command line. Empty skips opening the project.
	Editor string
}

// Logger receives progress lines.
type Logger interface {
	Printf(format string, v ...any)
}

// Scaffolder performs the scaffold steps in order and stops at the first failure.
type Scaffolder struct {
	runner Runner
	log    Logger
}

// New creates a Scaffolder.
func New(runner Runner, log Logger) *Scaffolder {
	return &Scaffolder{runner: runner, log: log}
}

// Scaffold clones, installs, pushes and opens the project described by opts.
func (s *Scaffolder) Scaffold(ctx context.Context, opts Options) error {
	if opts.TemplateURL == "" {
		return fmt.Errorf("no template repository configured")
	}
	if opts.Dir == "" {
		return fmt.Errorf("no project directory configured")
	}

	if err := ensureEmptyDir(opts.Dir); err != nil {
		return err
	}

	s.log.Printf("[scaffold] Cloning %s into %s", opts.TemplateURL, opts.Dir)
	if err := s.run(ctx, opts.Dir, "git", "clone", opts.TemplateURL, "."); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(opts.Dir, ".git")); err != nil {
		return fmt.Errorf("failed to remove template history: %w", err)
	}

	if len(opts.InstallCommand) > 0 {
		s.log.Printf("[scaffold] Installing dependencies (%s)", strings.Join(opts.InstallCommand, " "))
		if err := s.run(ctx, opts.Dir, opts.InstallCommand[0], opts.InstallCommand[1:]...); err != nil {
			return err
		}
	}

	if opts.RemoteURL != "" {
		s.log.Printf("[scaffold] Pushing initial commit to %s", opts.RemoteURL)
		steps := [][]string{
			{"init", "--initial-branch=" + DefaultBranch},
			{"add", "-A"},
			{"commit", "-m", commitMessage},
			{"remote", "add", "origin", opts.RemoteURL},
			{"push", "--set-upstream", "origin", DefaultBranch},
		}
		for _, args := range steps {
			if err := s.run(ctx, opts.Dir, "git", args...); err != nil {
				return err
			}
		}
	}

	if fields := strings.Fields(opts.Editor); len(fields) > 0 {
		args := append(fields[1:], opts.Dir)
		s.log.Printf("[scaffold] Opening %s", opts.Dir)
		if err := s.runner.Attach(ctx, opts.Dir, fields[0], args...); err != nil {
			return &CommandError{Command: commandLine(fields[0], args), Dir: opts.Dir, Err: err}
		}
	}

	return nil
}

func (s *Scaffolder) run(ctx context.Context, dir, name string, args ...string) error {
	out, err := s.runner.Run(ctx, dir, name, args...)
	if err != nil {
		return &CommandError{Command: commandLine(name, args), Dir: dir, Output: string(out), Err: err}
	}
	return nil
}

// ensureEmptyDir creates dir or verifies that an existing dir is empty.
func ensureEmptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create project directory %s: %w", dir, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read project directory %s: %w", dir, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("project directory %s is not empty", dir)
	}
	return nil
}
