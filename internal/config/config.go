// Package config resolves quarto-render configuration: required environment
// variables, an optional .env bootstrap, and an optional YAML config file.
// Precedence: CLI flags > environment > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quartoext/quarto-render/internal/fileutil"
	"github.com/quartoext/quarto-render/internal/yamlutil"
)

// Sentinel errors for config file operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Config holds the optional file-based configuration.
type Config struct {
	Tool      ToolConfig      `yaml:"tool"`
	Resources []string        `yaml:"resources"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Venv      VenvConfig      `yaml:"venv"`
}

// ToolConfig identifies the external render tool.
type ToolConfig struct {
	Bin        string `yaml:"bin"`        // binary name or path (default: "quarto")
	Subcommand string `yaml:"subcommand"` // render verb (default: "render")
}

// DiscoveryConfig tunes output artifact discovery.
type DiscoveryConfig struct {
	// PreferExtensions orders extensions used to break ties between
	// same-stem output candidates. Front-matter hints are consulted first.
	PreferExtensions []string `yaml:"preferExtensions"`
}

// VenvConfig controls project-local environment detection.
type VenvConfig struct {
	Dirs []string `yaml:"dirs"` // candidate directory names (default: .venv, venv)
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Tool: ToolConfig{Bin: "quarto", Subcommand: "render"},
		Discovery: DiscoveryConfig{
			PreferExtensions: []string{"html", "pdf", "docx", "tex"},
		},
		Venv: VenvConfig{Dirs: []string{".venv", "venv"}},
	}
}

// normalize fills zero-valued fields from defaults after a file load.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Tool.Bin == "" {
		c.Tool.Bin = def.Tool.Bin
	}
	if c.Tool.Subcommand == "" {
		c.Tool.Subcommand = def.Tool.Subcommand
	}
	if len(c.Discovery.PreferExtensions) == 0 {
		c.Discovery.PreferExtensions = def.Discovery.PreferExtensions
	}
	if len(c.Venv.Dirs) == 0 {
		c.Venv.Dirs = def.Venv.Dirs
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns an error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	cfg.normalize()

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/quarto-render/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "quarto-render", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
