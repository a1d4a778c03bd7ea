// Package workspace implements the sandboxed per-project file store.
//
// A Workspace is a plain value identifying one (owner, project) pair and
// the directory tree it owns. Every path handed to a Workspace method is
// resolved against the workspace root and rejected with a SandboxError if
// it escapes it, symlinks included. Nothing in this package touches state
// outside the owning subtree.
//
// There is no locking: concurrent writes to the same file race with
// last-write-wins semantics. Callers that need stronger guarantees must
// serialize externally.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Workspace is the sandboxed directory tree owned by one (owner, project)
// pair. The zero value is not usable; construct with New.
type Workspace struct {
	owner   string
	project string
	root    string
}

// New creates a Workspace rooted at base/owner/project. Owner and project
// are single path segments; anything containing a separator or dot-dot
// would widen the sandbox and is rejected.
func New(base, owner, project string) (*Workspace, error) {
	for _, id := range []string{owner, project} {
		if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
			return nil, &InvalidOperationError{Path: id, Reason: "identifier must be a single path segment"}
		}
	}
	abs, err := filepath.Abs(filepath.Join(base, owner, project))
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	return &Workspace{owner: owner, project: project, root: abs}, nil
}

// Owner returns the owner identifier.
func (w *Workspace) Owner() string { return w.owner }

// Project returns the project identifier.
func (w *Workspace) Project() string { return w.project }

// Root returns the absolute workspace root directory.
func (w *Workspace) Root() string { return w.root }

// Exists reports whether the workspace root directory exists.
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.root)
	return err == nil && info.IsDir()
}

// ResolvePath resolves rel against the workspace root and returns the
// absolute path. It fails with a SandboxError when the resolved path is
// not a strict descendant of the root: dot-dot traversal, absolute-path
// injection, and symlinks pointing outside the tree are all rejected.
// Symlinks are resolved before the containment check. The root itself is
// not a valid target; empty and self-cancelling paths ("", ".", "a/..")
// fail with an InvalidOperationError so no operation ever acts on or
// beside the root directory.
func (w *Workspace) ResolvePath(rel string) (string, error) {
	if filepath.IsAbs(rel) || filepath.IsAbs(filepath.FromSlash(rel)) {
		return "", &SandboxError{Path: rel}
	}
	candidate := filepath.Join(w.root, filepath.FromSlash(rel))
	if candidate == w.root {
		return "", &InvalidOperationError{Path: rel, Reason: "path must name an entry inside the workspace"}
	}

	rootReal, err := resolveExisting(w.root)
	if err != nil {
		return "", fmt.Errorf("resolve workspace root: %w", err)
	}
	real, err := resolveExisting(candidate)
	if err != nil {
		return "", &SandboxError{Path: rel}
	}
	if !strings.HasPrefix(real, rootReal+string(filepath.Separator)) {
		return "", &SandboxError{Path: rel}
	}
	return candidate, nil
}

// resolveExisting evaluates symlinks on the deepest existing ancestor of
// path and rejoins the non-existing remainder, so containment can be
// checked before the target is created.
func resolveExisting(path string) (string, error) {
	path = filepath.Clean(path)
	var pending []string
	for {
		resolved, err := filepath.EvalSymlinks(path)
		if err == nil {
			for i := len(pending) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, pending[i])
			}
			return filepath.Clean(resolved), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", err
		}
		pending = append(pending, filepath.Base(path))
		path = parent
	}
}

// Read returns the content of the file at rel. It fails with a
// NotFoundError when the path is absent or names a directory.
func (w *Workspace) Read(rel string) ([]byte, error) {
	path, err := w.ResolvePath(rel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, &NotFoundError{Path: rel}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return data, nil
}

// Write stores content at rel, creating parent directories as needed. The
// write goes through a temp file in the same directory followed by a
// rename, so concurrent readers never observe a partially written file.
// Existing content is overwritten; there is no conflict detection.
func (w *Workspace) Write(rel string, content []byte) error {
	path, err := w.ResolvePath(rel)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	// Temp names start with "." so an in-flight write never shows up in
	// a tree scan.
	tmp, err := os.CreateTemp(dir, ".penfold-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

// Delete removes the file at rel. It fails with a NotFoundError when the
// path is absent and with an InvalidOperationError when it names a
// directory; directories are never deleted through this interface.
func (w *Workspace) Delete(rel string) error {
	path, err := w.ResolvePath(rel)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return &NotFoundError{Path: rel}
	}
	if info.IsDir() {
		return &InvalidOperationError{Path: rel, Reason: "cannot delete a directory"}
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete %s: %w", rel, err)
	}
	return nil
}

// MkdirAll creates the directory at rel (and parents) inside the
// workspace. Creating an already existing directory is not an error.
func (w *Workspace) MkdirAll(rel string) error {
	path, err := w.ResolvePath(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", rel, err)
	}
	return nil
}
