package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldviewAndStyleGuideAccessors(t *testing.T) {
	w := newTestWorkspace(t)

	require.NoError(t, w.WriteWorldview([]byte("# World")))
	got, err := w.ReadWorldview()
	require.NoError(t, err)
	assert.Equal(t, "# World", string(got))

	require.NoError(t, w.WriteStyleGuide([]byte("terse")))
	got, err = w.ReadStyleGuide()
	require.NoError(t, err)
	assert.Equal(t, "terse", string(got))

	require.NoError(t, w.WriteMainOutline([]byte("1. start")))
	got, err = w.ReadMainOutline()
	require.NoError(t, err)
	assert.Equal(t, "1. start", string(got))
}

func TestCharacterNameValidation(t *testing.T) {
	w := newTestWorkspace(t)

	require.NoError(t, w.WriteCharacter("jane_doe2", []byte("card")))
	got, err := w.ReadCharacter("jane_doe2")
	require.NoError(t, err)
	assert.Equal(t, "card", string(got))

	var inv *InvalidOperationError
	for _, bad := range []string{"", "a/b", "a.b", "../x", "jane doe"} {
		err := w.WriteCharacter(bad, []byte("x"))
		assert.ErrorAs(t, err, &inv, "name %q", bad)
	}
}

func TestChapterRange(t *testing.T) {
	w := newTestWorkspace(t)

	var inv *InvalidOperationError
	for _, n := range []int{0, -1, 501, 10000} {
		err := w.WriteChapter(n, []byte("x"))
		assert.ErrorAs(t, err, &inv, "chapter %d", n)
		_, err = w.ReadChapter(n)
		assert.ErrorAs(t, err, &inv, "chapter %d", n)
	}

	require.NoError(t, w.WriteChapter(1, []byte("# First")))
	require.NoError(t, w.WriteChapter(500, []byte("# Last")))
	got, err := w.ReadChapter(500)
	require.NoError(t, err)
	assert.Equal(t, "# Last", string(got))
}

func TestChapterPathsAreZeroPadded(t *testing.T) {
	assert.Equal(t, "05_chapters/ch007.md", ChapterPath(7))
	assert.Equal(t, "05_chapters/ch042.md", ChapterPath(42))
	assert.Equal(t, "05_chapters/ch500.md", ChapterPath(500))
	assert.Equal(t, "03_outline/detailed/ch003.md", DetailedOutlinePath(3))
}

func TestDetailedOutlineRoundTrip(t *testing.T) {
	w := newTestWorkspace(t)
	require.NoError(t, w.WriteDetailedOutline(12, []byte("beats")))
	got, err := w.ReadDetailedOutline(12)
	require.NoError(t, err)
	assert.Equal(t, "beats", string(got))
}

func TestListChapters(t *testing.T) {
	w := newTestWorkspace(t)

	chapters, err := w.ListChapters()
	require.NoError(t, err)
	assert.Empty(t, chapters)

	require.NoError(t, w.WriteChapter(2, []byte("# The Storm\n\ntext")))
	require.NoError(t, w.WriteChapter(1, []byte("plain first line\nmore")))
	require.NoError(t, w.WriteChapter(10, []byte("")))
	require.NoError(t, w.Write("05_chapters/notes.md", []byte("not a chapter")))

	chapters, err = w.ListChapters()
	require.NoError(t, err)
	require.Len(t, chapters, 3)

	assert.Equal(t, 1, chapters[0].Number)
	assert.Equal(t, "plain first line", chapters[0].Title)
	assert.Equal(t, 2, chapters[1].Number)
	assert.Equal(t, "The Storm", chapters[1].Title)
	assert.Equal(t, 10, chapters[2].Number)
	assert.Equal(t, "Chapter 10", chapters[2].Title, "empty file falls back to numbered title")
}
