package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Node is one entry in a workspace tree scan. Paths are relative to the
// workspace root with forward-slash separators.
type Node struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	IsDir    bool   `json:"is_dir"`
	Children []Node `json:"children,omitempty"`
}

// ListTree scans the whole workspace and returns its entries, directories
// before files and each group sorted by name. Hidden entries (leading
// dot) are excluded, which also covers the version-control metadata
// directory. A missing workspace root yields an empty tree, not an error.
// The scan always reflects current on-disk state; nothing is cached.
func (w *Workspace) ListTree() ([]Node, error) {
	if !w.Exists() {
		return nil, nil
	}
	return w.scanDir("")
}

// ListDir returns the direct children of one directory, same ordering
// and hidden-entry rules as ListTree but without recursion. A missing
// directory fails with NotFoundError.
func (w *Workspace) ListDir(rel string) ([]Node, error) {
	if rel != "" && filepath.Clean(rel) == "." {
		rel = ""
	}
	abs := w.root
	if rel != "" {
		var err error
		abs, err = w.ResolvePath(rel)
		if err != nil {
			return nil, err
		}
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, &NotFoundError{Path: rel}
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", rel, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})
	var nodes []Node
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		childRel := name
		if rel != "" {
			childRel = strings.TrimSuffix(rel, "/") + "/" + name
		}
		nodes = append(nodes, Node{
			Name:  name,
			Path:  filepath.ToSlash(childRel),
			IsDir: entry.IsDir(),
		})
	}
	return nodes, nil
}

func (w *Workspace) scanDir(rel string) ([]Node, error) {
	abs := w.root
	if rel != "" {
		var err error
		abs, err = w.ResolvePath(rel)
		if err != nil {
			return nil, err
		}
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", rel, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	var nodes []Node
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}
		node := Node{
			Name:  name,
			Path:  filepath.ToSlash(childRel),
			IsDir: entry.IsDir(),
		}
		if entry.IsDir() {
			children, err := w.scanDir(childRel)
			if err != nil {
				return nil, err
			}
			node.Children = children
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
