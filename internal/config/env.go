package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Sentinel errors for environment resolution.
var (
	ErrEnvVarMissing     = errors.New("required environment variable not set")
	ErrProjectDirInvalid = errors.New("project directory does not exist or is not a directory")
)

// Environment variable names understood by quarto-render.
const (
	EnvProjectDir = "QUARTO_RENDER_PROJECT_DIR"
	EnvOutputDir  = "QUARTO_RENDER_OUTPUT_DIR"
	EnvBin        = "QUARTO_RENDER_BIN"
	EnvConfig     = "QUARTO_RENDER_CONFIG"
)

// knownEnvVars lists valid QUARTO_RENDER_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	EnvProjectDir: true,
	EnvOutputDir:  true,
	EnvBin:        true,
	EnvConfig:     true,
}

// EnvValues holds raw values read from the process environment.
// This is the only place the environment is read; everything downstream
// receives explicit values.
type EnvValues struct {
	ProjectDir string // QUARTO_RENDER_PROJECT_DIR: template project directory
	OutputDir  string // QUARTO_RENDER_OUTPUT_DIR: output dir relative to the project
	Bin        string // QUARTO_RENDER_BIN: render tool binary override
	ConfigName string // QUARTO_RENDER_CONFIG: config file name or path
}

// Paths holds the resolved, validated directory layout for one invocation.
type Paths struct {
	ProjectDir string // absolute
	OutputDir  string // relative to ProjectDir
	WorkDir    string // absolute, the caller's working directory
}

// LoadDotenv loads a .env file from the working directory if one exists.
// Real environment variables always win over .env entries.
func LoadDotenv(workDir string) error {
	path := filepath.Join(workDir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// FromEnv reads the QUARTO_RENDER_* variables through the given getter.
func FromEnv(getenv func(string) string) EnvValues {
	return EnvValues{
		ProjectDir: getenv(EnvProjectDir),
		OutputDir:  getenv(EnvOutputDir),
		Bin:        getenv(EnvBin),
		ConfigName: getenv(EnvConfig),
	}
}

// WarnUnknownEnvVars logs warnings for unrecognized QUARTO_RENDER_* variables.
// Helps catch typos like QUARTO_RENDER_PROJECT instead of QUARTO_RENDER_PROJECT_DIR.
func WarnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, "QUARTO_RENDER_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// Resolve validates the environment values and produces the invocation paths.
// The project directory must exist and be a directory; the output directory is
// kept relative to it.
func (e EnvValues) Resolve(workDir string) (*Paths, error) {
	if e.ProjectDir == "" {
		return nil, fmt.Errorf("%w: %s", ErrEnvVarMissing, EnvProjectDir)
	}
	if e.OutputDir == "" {
		return nil, fmt.Errorf("%w: %s", ErrEnvVarMissing, EnvOutputDir)
	}

	projectDir, err := filepath.Abs(e.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}
	info, err := os.Stat(projectDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrProjectDirInvalid, projectDir)
	}

	absWork, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	return &Paths{
		ProjectDir: projectDir,
		OutputDir:  filepath.Clean(e.OutputDir),
		WorkDir:    absWork,
	}, nil
}
