// Package maven runs the external Maven build against a generated POM.
package maven

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// DefaultBinary is the Maven executable looked up on PATH.
const DefaultBinary = "mvn"

// Stages that trigger a build.
const (
	StagePackage = "package"
	StageDeploy  = "deploy"
)

// GoalsFor maps a manifest stage to Maven goals. The second result is false
// for stages that run no build.
func GoalsFor(stage string) ([]string, bool) {
	switch stage {
	case StagePackage:
		return []string{"clean", "package"}, true
	case StageDeploy:
		return []string{"clean", "deploy"}, true
	default:
		return nil, false
	}
}

// Runner executes Maven goals against a POM file inside dir.
type Runner interface {
	Run(ctx context.Context, dir, pomFile string, goals []string) error
}

// ExitError reports a Maven process that exited with a non-zero status.
type ExitError struct {
	Code int
	Args []string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("maven %s exited with status %d", strings.Join(e.Args, " "), e.Code)
}

// ExitCode returns the process exit status carried by err: 0 for nil, the
// Maven status for an *ExitError and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Invoker runs the real Maven binary.
type Invoker struct {
	// Binary defaults to DefaultBinary when empty.
	Binary string

	// ExtraArgs are placed before the goals, e.g. -B or -q.
	ExtraArgs []string

	Stdout io.Writer
	Stderr io.Writer
}

// NewInvoker creates an invoker streaming to the process's own stdout/stderr.
func NewInvoker(binary string, extraArgs []string) *Invoker {
	return &Invoker{
		Binary:    binary,
		ExtraArgs: extraArgs,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Args returns the argument list passed to the binary.
func (i *Invoker) Args(pomFile string, goals []string) []string {
	args := make([]string, 0, len(i.ExtraArgs)+len(goals)+2)
	args = append(args, i.ExtraArgs...)
	args = append(args, goals...)
	return append(args, "-f", pomFile)
}

// Run executes `<binary> <extra args> <goals> -f <pomFile>` with dir as the
// working directory. Cancelling ctx kills the process.
func (i *Invoker) Run(ctx context.Context, dir, pomFile string, goals []string) error {
	binary := i.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	args := i.Args(pomFile, goals)

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	cmd.Stdout = i.Stdout
	cmd.Stderr = i.Stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("maven %s: %w", strings.Join(args, " "), ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitStatus(exitErr), Args: args}
		}
		return fmt.Errorf("failed to run %s: %w", binary, err)
	}

	return nil
}

// exitStatus returns the shell-style status of a finished process: its exit
// code, or 128 plus the signal number when a signal killed it.
func exitStatus(err *exec.ExitError) int {
	if code := err.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}
