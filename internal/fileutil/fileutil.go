// Package fileutil provides file and path utility functions shared by the
// stager and the result relocator.
package fileutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirPermissions is used for every directory this tool creates.
const DirPermissions = 0o750 // rwxr-x---: owner full, group read+execute

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a
// name. A string containing path separators (/, \) is treated as a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// CopyFile copies src to dst, overwriting any existing file at dst and
// carrying the source's permission bits over, so a staged executable stays
// executable. The destination directory must already exist.
func CopyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- caller-resolved path
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", src, err)
	}
	mode := info.Mode().Perm()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode) // #nosec G304
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}

	// OpenFile's mode only applies to newly created files.
	if err := os.Chmod(dst, mode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", dst, err)
	}
	return nil
}

// MoveFile moves src to dst, overwriting any existing file at dst.
// Falls back to copy-and-remove when rename crosses filesystems.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing %s after copy: %w", src, err)
	}
	return nil
}

// MoveDir moves the directory src to dst, merging into an existing dst.
// Falls back to a recursive copy-and-remove when rename is not possible.
func MoveDir(src, dst string) error {
	if !DirExists(dst) {
		if err := os.MkdirAll(filepath.Dir(dst), DirPermissions); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
		}
		if err := os.Rename(src, dst); err == nil {
			return nil
		}
	}

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, DirPermissions)
		}
		return CopyFile(path, target)
	})
	if err != nil {
		return fmt.Errorf("copying directory %s: %w", src, err)
	}
	return os.RemoveAll(src)
}
