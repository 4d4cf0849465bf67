package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/quartoext/quarto-render/internal/artifact"
	"github.com/quartoext/quarto-render/internal/config"
	"github.com/quartoext/quarto-render/internal/fileutil"
	"github.com/quartoext/quarto-render/internal/render"
	"github.com/quartoext/quarto-render/internal/resources"
	"github.com/quartoext/quarto-render/internal/stage"
)

// ErrDocumentNotFound reports a document path that is absent or not a file.
var ErrDocumentNotFound = errors.New("document does not exist or is not a regular file")

// run executes one render: resolve → collect → stage → invoke → relocate,
// with cleanup deferred so it covers every exit path, including failures and
// signal-driven cancellation.
func run(ctx context.Context, flags *renderFlags, document string, passThrough []string, env *Environment) error {
	workDir, err := env.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	// Environment is read exactly once, here; everything downstream gets
	// explicit values.
	if err := config.LoadDotenv(workDir); err != nil {
		fmt.Fprintf(env.Stderr, "warning: %v\n", err)
	}
	config.WarnUnknownEnvVars(env.Stderr, env.Environ())
	envVals := config.FromEnv(env.Getenv)

	cfg := config.DefaultConfig()
	configName := flags.config
	if configName == "" {
		configName = envVals.ConfigName
	}
	if configName != "" {
		cfg, err = config.LoadConfig(configName)
		if err != nil {
			return err
		}
	}

	paths, err := envVals.Resolve(workDir)
	if err != nil {
		return err
	}

	docAbs := document
	if !filepath.IsAbs(docAbs) {
		docAbs = filepath.Join(workDir, docAbs)
	}
	if !fileutil.FileExists(docAbs) {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, document)
	}

	// Config-file patterns come first so CLI patterns can override ordering.
	patterns := append(append([]string{}, cfg.Resources...), flags.resources...)
	files, emptyPatterns, err := resources.Collect(workDir, patterns)
	if err != nil {
		return err
	}
	for _, pattern := range emptyPatterns {
		fmt.Fprintf(env.Stderr, "warning: resource %q matched no files, skipping\n", pattern)
	}

	plan, err := stage.BuildPlan(workDir, paths.ProjectDir, document, files)
	if err != nil {
		return err
	}

	stager := stage.NewStager(paths.ProjectDir)
	defer stager.Cleanup(env.Stderr)

	if !flags.quiet {
		for _, entry := range plan.Entries() {
			fmt.Fprintf(env.Stdout, "Copying %s to %s\n", entry.Rel, entry.Dest)
		}
	}
	if err := stager.Stage(plan); err != nil {
		return err
	}

	bin := cfg.Tool.Bin
	if envVals.Bin != "" {
		bin = envVals.Bin
	}

	procEnv := env.Environ()
	if venv, ok := render.DetectVenv(paths.ProjectDir, cfg.Venv.Dirs); ok {
		procEnv = venv.Activate(procEnv)
		if flags.verbose {
			fmt.Fprintf(env.Stderr, "Activated project environment %s\n", venv.Root)
		}
	}

	invoker := &render.Invoker{
		Bin:        bin,
		Subcommand: cfg.Tool.Subcommand,
		Dir:        paths.ProjectDir,
		Env:        procEnv,
		Stdout:     env.Stdout,
		Stderr:     env.Stderr,
		LookPath:   env.LookPath,
	}

	docRel := plan.DocumentRel()
	if !flags.quiet {
		fmt.Fprintf(env.Stdout, "Executing: %s\n", invoker.CommandLine(docRel, passThrough))
	}

	// Truncate to second granularity so coarse filesystem mtimes still
	// qualify as "modified during the render".
	start := env.Now().Truncate(time.Second)
	if _, err := invoker.Render(ctx, docRel, passThrough); err != nil {
		return err
	}

	relDir := filepath.Dir(docRel)
	stem := strings.TrimSuffix(filepath.Base(docRel), filepath.Ext(docRel))

	// Front-matter hints outrank the configured extension preference.
	prefer := append(artifact.FormatHints(docAbs), cfg.Discovery.PreferExtensions...)

	probe := artifact.Probe{
		Dir:       filepath.Join(paths.ProjectDir, paths.OutputDir, relDir),
		Stem:      stem,
		Since:     start,
		PreferExt: prefer,
	}
	found, err := probe.Find()
	if err != nil {
		return err
	}

	// If relocation fails midway, cleanup still removes what stayed behind.
	stager.Discard(found)
	if filesDir := artifact.FilesDir(found); filesDir != "" {
		stager.Discard(filesDir)
	}

	dest, err := artifact.Relocate(found, filepath.Join(workDir, relDir))
	if err != nil {
		return err
	}

	if !flags.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", dest)
	}
	return nil
}
