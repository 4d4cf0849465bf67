// Package resources expands resource glob patterns into a concrete, ordered,
// deduplicated set of files to stage alongside a document.
package resources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrBadPattern reports a malformed glob pattern.
var ErrBadPattern = errors.New("malformed resource pattern")

// Collect expands glob patterns relative to workDir into matched file paths,
// also relative to workDir, preserving first-seen order and deduplicating by
// cleaned path. A `**` segment matches any number of directories, including
// none. A matched directory is recursed into; only regular files are
// collected. Patterns matching nothing are returned in empty; that is a
// warning for the caller, never an error.
func Collect(workDir string, patterns []string) (files, empty []string, err error) {
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := glob(workDir, pattern)
		if err != nil {
			if errors.Is(err, filepath.ErrBadPattern) {
				return nil, nil, fmt.Errorf("%w: %q: %v", ErrBadPattern, pattern, err)
			}
			return nil, nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			empty = append(empty, pattern)
			continue
		}

		for _, match := range matches {
			expanded, err := expandMatch(match)
			if err != nil {
				return nil, nil, err
			}
			for _, path := range expanded {
				rel, err := filepath.Rel(workDir, path)
				if err != nil {
					return nil, nil, fmt.Errorf("resolving %s: %w", path, err)
				}
				if seen[rel] {
					continue
				}
				seen[rel] = true
				files = append(files, rel)
			}
		}
	}

	return files, empty, nil
}

// glob expands one pattern relative to workDir. filepath.Glob has no notion
// of `**`, so patterns containing it are matched segment-wise against a walk
// of the working tree instead.
func glob(workDir, pattern string) ([]string, error) {
	if !strings.Contains(pattern, "**") {
		return filepath.Glob(filepath.Join(workDir, pattern))
	}

	segments := strings.Split(filepath.ToSlash(pattern), "/")
	for _, segment := range segments {
		if segment == "**" {
			continue
		}
		if _, err := filepath.Match(segment, "x"); err != nil {
			return nil, err
		}
	}

	var matches []string
	err := filepath.WalkDir(workDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == workDir {
			return nil
		}
		rel, err := filepath.Rel(workDir, path)
		if err != nil {
			return err
		}
		if matchSegments(segments, strings.Split(filepath.ToSlash(rel), "/")) {
			matches = append(matches, path)
		}
		return nil
	})
	return matches, err
}

// matchSegments matches path segments against pattern segments, with `**`
// standing in for zero or more of them.
func matchSegments(pattern, name []string) bool {
	if len(pattern) == 0 {
		return len(name) == 0
	}
	if pattern[0] == "**" {
		for skip := 0; skip <= len(name); skip++ {
			if matchSegments(pattern[1:], name[skip:]) {
				return true
			}
		}
		return false
	}
	if len(name) == 0 {
		return false
	}
	if ok, err := filepath.Match(pattern[0], name[0]); err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], name[1:])
}

// expandMatch turns a single glob match into the regular files it denotes:
// the file itself, or every file under it when it is a directory.
func expandMatch(match string) ([]string, error) {
	info, err := os.Stat(match)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", match, err)
	}

	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			return nil, nil
		}
		return []string{match}, nil
	}

	var files []string
	err = filepath.WalkDir(match, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}
