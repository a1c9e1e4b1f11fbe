package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrCommandNotFound is returned when the command is not on PATH.
var ErrCommandNotFound = errors.New("command not found")

// Runner runs external commands.
type Runner struct {
	stdout  io.Writer
	stderr  io.Writer
	env     []string
	spinner bool

	// For mocking in tests
	commandFunc func(name string, args ...string) *exec.Cmd
}

// Options configures a Runner.
type Options struct {
	Stdout  io.Writer // Defaults to os.Stdout
	Stderr  io.Writer // Defaults to os.Stderr
	Env     []string  // Additional environment variables
	Spinner bool      // Show a spinner instead of streaming output
}

// NewRunner creates a runner. A nil opts streams to stdout and stderr.
func NewRunner(opts *Options) *Runner {
	if opts == nil {
		opts = &Options{}
	}
	r := &Runner{
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		env:         opts.Env,
		spinner:     opts.Spinner,
		commandFunc: exec.Command,
	}
	if r.stdout == nil {
		r.stdout = os.Stdout
	}
	if r.stderr == nil {
		r.stderr = os.Stderr
	}
	return r
}

// Run executes name with args in dir, streaming output with each line
// prefixed so it stands apart from plover's own output. Cancelling ctx
// kills the process.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) error {
	stdout := NewPrefixWriter(r.stdout, "  │ ")
	stderr := NewPrefixWriter(r.stderr, "  │ ")
	defer stdout.Flush()
	defer stderr.Flush()

	return r.run(ctx, dir, stdout, stderr, name, args...)
}

// RunWithSpinner executes the command behind a spinner. Output is
// captured; on failure the tail of stderr is included in the error.
func (r *Runner) RunWithSpinner(ctx context.Context, message, dir, name string, args ...string) error {
	var stderr bytes.Buffer
	return withSpinner(r.stderr, message, func() error {
		err := r.run(ctx, dir, io.Discard, &stderr, name, args...)
		if err != nil && stderr.Len() > 0 {
			return fmt.Errorf("%w\n%s", err, tail(stderr.String(), 10))
		}
		return err
	})
}

func (r *Runner) run(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := r.commandFunc(name, args...)
	cmd.Dir = dir
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		if isCommandNotFound(err) {
			return fmt.Errorf("%w: %s (install it and try again)", ErrCommandNotFound, name)
		}
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-errCh
		return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s failed: %w", name, err)
		}
		return nil
	}
}

// isCommandNotFound checks if an error indicates a command was not found
func isCommandNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		strings.Contains(err.Error(), "executable file not found") ||
		strings.Contains(err.Error(), "no such file or directory")
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
