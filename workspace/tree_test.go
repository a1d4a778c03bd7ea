package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTreeMissingRoot(t *testing.T) {
	w, err := New(t.TempDir(), "carol", "ghost")
	require.NoError(t, err)
	tree, err := w.ListTree()
	require.NoError(t, err)
	assert.Empty(t, tree)
}

func TestListTreeFreshInit(t *testing.T) {
	w := newTestWorkspace(t)
	tree, err := w.ListTree()
	require.NoError(t, err)

	var names []string
	for _, n := range tree {
		names = append(names, n.Name)
	}
	// Directories before files, alphabetical within each group.
	assert.Equal(t, []string{
		"01_settings",
		"02_characters",
		"03_outline",
		"04_style_guide",
		"05_chapters",
		"README.md",
	}, names)

	for _, n := range tree {
		if n.Name == "05_chapters" {
			assert.Empty(t, n.Children, "fresh workspace has no chapters")
		}
		if n.Name == "02_characters" {
			require.Len(t, n.Children, 2)
			assert.Equal(t, "main_characters", n.Children[0].Name)
			assert.Equal(t, "supporting_characters", n.Children[1].Name)
			assert.Equal(t, "02_characters/main_characters", n.Children[0].Path)
		}
	}
}

func TestListTreeExcludesHiddenAndGit(t *testing.T) {
	w := newTestWorkspace(t)
	require.NoError(t, os.MkdirAll(filepath.Join(w.Root(), ".git", "objects"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(w.Root(), ".hidden"), []byte("x"), 0o644))

	tree, err := w.ListTree()
	require.NoError(t, err)
	for _, n := range tree {
		assert.NotEqual(t, ".git", n.Name)
		assert.NotEqual(t, ".hidden", n.Name)
	}
}

func TestListTreeOrdering(t *testing.T) {
	w := newTestWorkspace(t)
	require.NoError(t, w.Write("zz_notes.md", []byte("n")))
	require.NoError(t, w.MkdirAll("zz_extra"))

	tree, err := w.ListTree()
	require.NoError(t, err)

	lastDir := -1
	firstFile := len(tree)
	for i, n := range tree {
		if n.IsDir && i > lastDir {
			lastDir = i
		}
		if !n.IsDir && i < firstFile {
			firstFile = i
		}
	}
	assert.Less(t, lastDir, firstFile, "every directory sorts before every file")
}
