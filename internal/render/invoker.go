// Package render launches the external render tool as a subprocess inside the
// project directory, with a project-local virtualenv activated when present.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Sentinel errors for render invocation.
var (
	ErrToolNotFound = errors.New("render tool not found on PATH")
	ErrRenderFailed = errors.New("render tool exited with an error")
)

// ExitError carries the child's exit code so the CLI can surface it verbatim.
type ExitError struct {
	Tool string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s render failed with exit code %d", e.Tool, e.Code)
}

// Unwrap lets errors.Is match ErrRenderFailed.
func (e *ExitError) Unwrap() error { return ErrRenderFailed }

// Outcome reports the result of one subprocess invocation.
type Outcome struct {
	ExitCode int
}

// LookPathFunc resolves a binary name to an executable path.
type LookPathFunc func(string) (string, error)

// Invoker runs `<bin> <subcommand> <document> [args...]` in Dir, streaming the
// child's output through Stdout and Stderr in real time.
type Invoker struct {
	Bin        string
	Subcommand string
	Dir        string // working directory for the subprocess (the project dir)
	Env        []string
	Stdout     io.Writer
	Stderr     io.Writer
	LookPath   LookPathFunc // defaults to exec.LookPath
}

// Render blocks until the subprocess terminates. A missing binary is
// ErrToolNotFound; a non-zero exit is an *ExitError wrapping ErrRenderFailed.
// Other launch failures are returned as-is. The context cancels the child.
func (inv *Invoker) Render(ctx context.Context, docRel string, passThrough []string) (Outcome, error) {
	lookPath := inv.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	path, err := lookPath(inv.Bin)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %s", ErrToolNotFound, inv.Bin)
	}

	args := append([]string{inv.Subcommand, docRel}, passThrough...)
	cmd := exec.CommandContext(ctx, path, args...) // #nosec G204 -- pass-through args are the tool's contract
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			return Outcome{ExitCode: code}, &ExitError{Tool: inv.Bin, Code: code}
		}
		return Outcome{ExitCode: -1}, fmt.Errorf("running %s: %w", inv.Bin, err)
	}

	return Outcome{ExitCode: 0}, nil
}

// CommandLine returns the invocation as it will be announced to the user.
func (inv *Invoker) CommandLine(docRel string, passThrough []string) string {
	line := inv.Bin + " " + inv.Subcommand + " " + docRel
	for _, arg := range passThrough {
		line += " " + arg
	}
	return line
}
