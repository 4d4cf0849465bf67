package render_test

// Notes:
// - DetectVenv looks for the platform's executable directory, so tests create
//   both bin and Scripts layouts and pick via runtime.GOOS.

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/quartoext/quarto-render/internal/render"
)

func binDirName() string {
	if runtime.GOOS == "windows" {
		return "Scripts"
	}
	return "bin"
}

func mkVenv(t *testing.T, projectDir, name string) string {
	t.Helper()
	binDir := filepath.Join(projectDir, name, binDirName())
	if err := os.MkdirAll(binDir, 0o750); err != nil {
		t.Fatal(err)
	}
	return binDir
}

// ---------------------------------------------------------------------------
// TestDetectVenv - Conventional directory scan
// ---------------------------------------------------------------------------

func TestDetectVenv(t *testing.T) {
	t.Parallel()

	names := []string{".venv", "venv"}

	t.Run("no venv present", func(t *testing.T) {
		t.Parallel()

		_, ok := render.DetectVenv(t.TempDir(), names)
		if ok {
			t.Error("DetectVenv() = true for an empty project")
		}
	})

	t.Run("finds .venv", func(t *testing.T) {
		t.Parallel()

		project := t.TempDir()
		binDir := mkVenv(t, project, ".venv")

		v, ok := render.DetectVenv(project, names)
		if !ok {
			t.Fatal("DetectVenv() = false, want true")
		}
		if v.Root != filepath.Join(project, ".venv") {
			t.Errorf("Root = %q, want %q", v.Root, filepath.Join(project, ".venv"))
		}
		if v.BinDir != binDir {
			t.Errorf("BinDir = %q, want %q", v.BinDir, binDir)
		}
	})

	t.Run("first name wins", func(t *testing.T) {
		t.Parallel()

		project := t.TempDir()
		mkVenv(t, project, ".venv")
		mkVenv(t, project, "venv")

		v, ok := render.DetectVenv(project, names)
		if !ok {
			t.Fatal("DetectVenv() = false, want true")
		}
		if v.Root != filepath.Join(project, ".venv") {
			t.Errorf("Root = %q, want .venv to win", v.Root)
		}
	})

	t.Run("root without executable dir is skipped", func(t *testing.T) {
		t.Parallel()

		project := t.TempDir()
		if err := os.MkdirAll(filepath.Join(project, ".venv"), 0o750); err != nil {
			t.Fatal(err)
		}

		_, ok := render.DetectVenv(project, names)
		if ok {
			t.Error("DetectVenv() = true for a venv root with no executable dir")
		}
	})
}

// ---------------------------------------------------------------------------
// TestVenvActivate - Environment rewriting
// ---------------------------------------------------------------------------

func TestVenvActivate(t *testing.T) {
	t.Parallel()

	v := render.Venv{
		Root:   filepath.Join("proj", ".venv"),
		BinDir: filepath.Join("proj", ".venv", "bin"),
	}
	sep := string(os.PathListSeparator)

	t.Run("prepends bin dir to PATH", func(t *testing.T) {
		t.Parallel()

		env := v.Activate([]string{"PATH=/usr/bin", "HOME=/home/user"})

		wantPath := "PATH=" + v.BinDir + sep + "/usr/bin"
		if !contains(env, wantPath) {
			t.Errorf("env = %v, want entry %q", env, wantPath)
		}
		if !contains(env, "HOME=/home/user") {
			t.Errorf("env = %v, unrelated entry dropped", env)
		}
		if !contains(env, "VIRTUAL_ENV="+v.Root) {
			t.Errorf("env = %v, want VIRTUAL_ENV=%s", env, v.Root)
		}
	})

	t.Run("replaces existing VIRTUAL_ENV", func(t *testing.T) {
		t.Parallel()

		env := v.Activate([]string{"PATH=/usr/bin", "VIRTUAL_ENV=/old"})

		if contains(env, "VIRTUAL_ENV=/old") {
			t.Errorf("env = %v, stale VIRTUAL_ENV kept", env)
		}
		if !contains(env, "VIRTUAL_ENV="+v.Root) {
			t.Errorf("env = %v, want VIRTUAL_ENV=%s", env, v.Root)
		}
		if countPrefix(env, "VIRTUAL_ENV=") != 1 {
			t.Errorf("env = %v, want exactly one VIRTUAL_ENV entry", env)
		}
	})

	t.Run("missing PATH gets one", func(t *testing.T) {
		t.Parallel()

		env := v.Activate([]string{"HOME=/home/user"})

		if !contains(env, "PATH="+v.BinDir) {
			t.Errorf("env = %v, want PATH=%s", env, v.BinDir)
		}
	})
}

func contains(env []string, entry string) bool {
	for _, kv := range env {
		if kv == entry {
			return true
		}
	}
	return false
}

func countPrefix(env []string, prefix string) int {
	n := 0
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			n++
		}
	}
	return n
}
