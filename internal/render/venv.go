package render

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Venv describes a detected project-local Python environment.
type Venv struct {
	Root   string // e.g. /proj/.venv
	BinDir string // e.g. /proj/.venv/bin
}

// DetectVenv scans the project directory for a virtualenv under one of the
// conventional directory names, first match wins.
func DetectVenv(projectDir string, names []string) (Venv, bool) {
	for _, name := range names {
		root := filepath.Join(projectDir, name)
		binDir := filepath.Join(root, venvBinDirName())
		if info, err := os.Stat(binDir); err == nil && info.IsDir() {
			return Venv{Root: root, BinDir: binDir}, true
		}
	}
	return Venv{}, false
}

// Activate returns a copy of env adjusted so subprocesses resolve executables
// from the venv first: its bin dir is prepended to PATH and VIRTUAL_ENV is
// exported, mirroring what the venv's own activate script does.
func (v Venv) Activate(env []string) []string {
	out := make([]string, 0, len(env)+2)
	pathSeen := false

	for _, kv := range env {
		switch {
		case strings.HasPrefix(kv, "PATH="):
			out = append(out, "PATH="+v.BinDir+string(os.PathListSeparator)+kv[len("PATH="):])
			pathSeen = true
		case strings.HasPrefix(kv, "VIRTUAL_ENV="):
			// replaced below
		default:
			out = append(out, kv)
		}
	}
	if !pathSeen {
		out = append(out, "PATH="+v.BinDir)
	}
	out = append(out, "VIRTUAL_ENV="+v.Root)
	return out
}

// venvBinDirName returns the executable directory name used by virtualenvs
// on the current platform.
func venvBinDirName() string {
	if runtime.GOOS == "windows" {
		return "Scripts"
	}
	return "bin"
}
