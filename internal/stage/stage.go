// Package stage copies a document and its resources into the render project
// directory, mirroring their working-directory-relative layout, and removes
// everything it wrote once the invocation is over.
package stage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/quartoext/quarto-render/internal/fileutil"
)

// ErrOutsideWorkDir reports a source path that cannot be expressed relative to
// the working directory. Staging such a path would place it outside the
// project directory and break the cleanup contract.
var ErrOutsideWorkDir = errors.New("source path not expressible relative to working directory")

// Entry maps one source file to its destination inside the project directory.
type Entry struct {
	Source string // absolute source path
	Rel    string // path relative to the working directory
	Dest   string // absolute destination inside the project directory
}

// Plan is the injective staged-file map for one invocation: the document
// first, then every collected resource, deduplicated by destination.
type Plan struct {
	entries []Entry
	docRel  string
}

// BuildPlan computes destinations for the document and each resource path.
// Resource paths are relative to workDir (as produced by the collector); the
// document may be relative or absolute.
func BuildPlan(workDir, projectDir, document string, resources []string) (*Plan, error) {
	plan := &Plan{}
	byDest := make(map[string]bool)

	add := func(source string) error {
		rel, err := relToWorkDir(workDir, source)
		if err != nil {
			return err
		}
		dest := filepath.Join(projectDir, rel)
		if byDest[dest] {
			return nil
		}
		byDest[dest] = true
		plan.entries = append(plan.entries, Entry{
			Source: filepath.Join(workDir, rel),
			Rel:    rel,
			Dest:   dest,
		})
		return nil
	}

	if err := add(document); err != nil {
		return nil, err
	}
	plan.docRel = plan.entries[0].Rel

	for _, res := range resources {
		if err := add(res); err != nil {
			return nil, err
		}
	}

	return plan, nil
}

// Entries returns the staged-file map in staging order.
func (p *Plan) Entries() []Entry { return p.entries }

// DocumentRel returns the document's path relative to the working directory,
// which is also its path relative to the project directory once staged.
func (p *Plan) DocumentRel() string { return p.docRel }

// relToWorkDir expresses source relative to workDir, rejecting paths that
// escape it.
func relToWorkDir(workDir, source string) (string, error) {
	abs := source
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(workDir, abs)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(workDir, abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkDir, source)
	}
	if rel == ".." || (len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkDir, source)
	}
	return rel, nil
}

// Stager executes a Plan and records everything it writes so Cleanup can
// undo it on every exit path.
type Stager struct {
	projectDir  string
	written     []string // staged files, in write order
	createdDirs []string // directories this stager created, parent-first
	discarded   []string // render outputs to remove if still present
}

// NewStager returns a Stager rooted at the project directory.
func NewStager(projectDir string) *Stager {
	return &Stager{projectDir: projectDir}
}

// Stage copies every planned file into the project directory, overwriting
// pre-existing destinations and creating intermediate directories as needed.
func (s *Stager) Stage(plan *Plan) error {
	for _, entry := range plan.Entries() {
		if err := s.ensureDir(filepath.Dir(entry.Dest)); err != nil {
			return err
		}
		if err := fileutil.CopyFile(entry.Source, entry.Dest); err != nil {
			return fmt.Errorf("staging %s: %w", entry.Rel, err)
		}
		s.written = append(s.written, entry.Dest)
	}
	return nil
}

// Written returns the destinations staged so far.
func (s *Stager) Written() []string { return s.written }

// Discard registers a render output path to be removed during Cleanup if it
// still exists. A fully relocated artifact is already gone by then; a
// half-relocated one is not.
func (s *Stager) Discard(path string) {
	s.discarded = append(s.discarded, path)
}

// ensureDir creates dir and records which ancestors had to be created, so
// Cleanup can prune exactly those and nothing else.
func (s *Stager) ensureDir(dir string) error {
	var missing []string
	for d := dir; d != s.projectDir && d != string(filepath.Separator) && d != "."; d = filepath.Dir(d) {
		if fileutil.DirExists(d) {
			break
		}
		missing = append(missing, d)
	}
	if len(missing) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, fileutil.DirPermissions); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	// Record parent-first so Cleanup can prune in reverse.
	for i := len(missing) - 1; i >= 0; i-- {
		s.createdDirs = append(s.createdDirs, missing[i])
	}
	return nil
}

// Cleanup removes every staged file, every discarded output still present,
// and every directory this stager created that ended up empty. Failures are
// reported on w and never escalated: a failed cleanup must not mask the
// primary outcome.
func (s *Stager) Cleanup(w io.Writer) {
	for _, path := range s.written {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(w, "warning: cleanup: removing %s: %v\n", path, err)
		}
	}
	for _, path := range s.discarded {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			fmt.Fprintf(w, "warning: cleanup: removing %s: %v\n", path, err)
		}
	}
	// Child directories were recorded after their parents; remove in reverse.
	for i := len(s.createdDirs) - 1; i >= 0; i-- {
		dir := s.createdDirs[i]
		if !dirEmpty(dir) {
			continue
		}
		if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(w, "warning: cleanup: removing %s: %v\n", dir, err)
		}
	}
}

func dirEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) == 0
}
