// Package artifact discovers the file the render tool actually produced and
// relocates it back to the caller's working directory. The produced format
// depends on document front matter and project configuration, so the artifact
// is found, never assumed.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/quartoext/quarto-render/internal/fileutil"
)

// ErrOutputNotFound reports a successful render with no discoverable output.
var ErrOutputNotFound = errors.New("no rendered output found")

// Probe locates render output for one document.
type Probe struct {
	Dir       string    // directory mirroring the document's relative path inside the output dir
	Stem      string    // document filename without extension
	Since     time.Time // only files modified at or after this instant qualify
	PreferExt []string  // extension ranking for tie-breaks, front-matter hints first
}

type candidate struct {
	path  string
	exact bool
	rank  int
}

// Find returns the best-matching artifact path. Exact stem matches win over
// prefix matches; among equals the extension preference list decides, then
// lexicographic order. Returns ErrOutputNotFound when nothing qualifies.
func (p Probe) Find() (string, error) {
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutputNotFound, p.Dir)
	}

	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		exact := stem == p.Stem
		if !exact && !strings.HasPrefix(stem, p.Stem) {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().Before(p.Since) {
			continue
		}

		candidates = append(candidates, candidate{
			path:  filepath.Join(p.Dir, name),
			exact: exact,
			rank:  p.extRank(filepath.Ext(name)),
		})
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no file with stem %q under %s", ErrOutputNotFound, p.Stem, p.Dir)
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.exact != b.exact {
			return a.exact
		}
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		return a.path < b.path
	})

	return candidates[0].path, nil
}

// extRank returns the position of ext in the preference list, or a rank worse
// than any listed extension when absent.
func (p Probe) extRank(ext string) int {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	for i, preferred := range p.PreferExt {
		if ext == strings.TrimPrefix(strings.ToLower(preferred), ".") {
			return i
		}
	}
	return len(p.PreferExt)
}

// FilesDir returns the renderer's sibling resource directory for an artifact
// ("<stem>_files" next to it), or "" when none was emitted.
func FilesDir(artifactPath string) string {
	stem := strings.TrimSuffix(filepath.Base(artifactPath), filepath.Ext(artifactPath))
	dir := filepath.Join(filepath.Dir(artifactPath), stem+"_files")
	if fileutil.DirExists(dir) {
		return dir
	}
	return ""
}

// Relocate moves the artifact (and its files directory, when present) under
// destDir, creating intermediate directories as needed. It returns the final
// artifact path.
func Relocate(artifactPath, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, fileutil.DirPermissions); err != nil {
		return "", fmt.Errorf("creating %s: %w", destDir, err)
	}

	dest := filepath.Join(destDir, filepath.Base(artifactPath))
	if err := fileutil.MoveFile(artifactPath, dest); err != nil {
		return "", fmt.Errorf("relocating %s: %w", artifactPath, err)
	}

	if filesDir := FilesDir(artifactPath); filesDir != "" {
		destFiles := filepath.Join(destDir, filepath.Base(filesDir))
		if err := fileutil.MoveDir(filesDir, destFiles); err != nil {
			return "", fmt.Errorf("relocating %s: %w", filesDir, err)
		}
	}

	return dest, nil
}
