package main

import (
	"errors"
	"os"

	"github.com/quartoext/quarto-render/internal/artifact"
	"github.com/quartoext/quarto-render/internal/config"
	"github.com/quartoext/quarto-render/internal/render"
	"github.com/quartoext/quarto-render/internal/resources"
	"github.com/quartoext/quarto-render/internal/stage"
)

// Exit codes for the quarto-render CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
// A failed render exits with the render tool's own exit code.
const (
	ExitSuccess  = 0 // Successful render and relocation
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or environment
	ExitIO       = 3 // Missing files, path resolution, staging failures
	ExitTool     = 4 // Render tool not found on PATH
	ExitNoOutput = 5 // Render succeeded but no output was discovered
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Surface the child's exit code verbatim.
	var exitErr *render.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}

	// Usage/config/environment errors (exit 2)
	if errors.Is(err, ErrNoDocument) ||
		errors.Is(err, config.ErrEnvVarMissing) ||
		errors.Is(err, config.ErrProjectDirInvalid) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, resources.ErrBadPattern) {
		return ExitUsage
	}

	// I/O, path resolution, and staging errors (exit 3)
	if errors.Is(err, ErrDocumentNotFound) ||
		errors.Is(err, stage.ErrOutsideWorkDir) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	if errors.Is(err, render.ErrToolNotFound) {
		return ExitTool
	}
	if errors.Is(err, artifact.ErrOutputNotFound) {
		return ExitNoOutput
	}

	return ExitGeneral
}
