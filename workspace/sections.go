package workspace

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Well-known file locations inside the fixed layout.
const (
	worldviewPath   = "01_settings/worldview.md"
	mainOutlinePath = "03_outline/main_outline.md"
	styleGuidePath  = "04_style_guide/writing_style.md"
	chaptersDir     = "05_chapters"
	detailedDir     = "03_outline/detailed"
)

// Chapter and detailed-outline numbers share one valid range. Filenames
// are zero-padded to three digits so lexical and numeric order agree.
const (
	MinChapter = 1
	MaxChapter = 500
)

// ReadWorldview returns the worldview settings document.
func (w *Workspace) ReadWorldview() ([]byte, error) { return w.Read(worldviewPath) }

// WriteWorldview stores the worldview settings document.
func (w *Workspace) WriteWorldview(content []byte) error { return w.Write(worldviewPath, content) }

// ReadMainOutline returns the main outline.
func (w *Workspace) ReadMainOutline() ([]byte, error) { return w.Read(mainOutlinePath) }

// WriteMainOutline stores the main outline.
func (w *Workspace) WriteMainOutline(content []byte) error { return w.Write(mainOutlinePath, content) }

// ReadStyleGuide returns the writing style guide.
func (w *Workspace) ReadStyleGuide() ([]byte, error) { return w.Read(styleGuidePath) }

// WriteStyleGuide stores the writing style guide.
func (w *Workspace) WriteStyleGuide(content []byte) error { return w.Write(styleGuidePath, content) }

// validCharacterName restricts character card names to letters, digits
// and underscores so a name can never smuggle path syntax.
func validCharacterName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

func characterPath(name string) string {
	return "02_characters/main_characters/" + name + ".md"
}

// ReadCharacter returns a main-character card by name.
func (w *Workspace) ReadCharacter(name string) ([]byte, error) {
	if !validCharacterName(name) {
		return nil, &InvalidOperationError{Path: name, Reason: "character name may contain only letters, digits and underscores"}
	}
	return w.Read(characterPath(name))
}

// WriteCharacter stores a main-character card by name.
func (w *Workspace) WriteCharacter(name string, content []byte) error {
	if !validCharacterName(name) {
		return &InvalidOperationError{Path: name, Reason: "character name may contain only letters, digits and underscores"}
	}
	return w.Write(characterPath(name), content)
}

func checkChapterNum(n int) error {
	if n < MinChapter || n > MaxChapter {
		return &InvalidOperationError{Reason: fmt.Sprintf("chapter number %d out of range %d-%d", n, MinChapter, MaxChapter)}
	}
	return nil
}

// ChapterPath returns the workspace-relative path of chapter n.
func ChapterPath(n int) string {
	return fmt.Sprintf("%s/ch%03d.md", chaptersDir, n)
}

// DetailedOutlinePath returns the workspace-relative path of the detailed
// outline for chapter n.
func DetailedOutlinePath(n int) string {
	return fmt.Sprintf("%s/ch%03d.md", detailedDir, n)
}

// ReadChapter returns the manuscript of chapter n.
func (w *Workspace) ReadChapter(n int) ([]byte, error) {
	if err := checkChapterNum(n); err != nil {
		return nil, err
	}
	return w.Read(ChapterPath(n))
}

// WriteChapter stores the manuscript of chapter n.
func (w *Workspace) WriteChapter(n int, content []byte) error {
	if err := checkChapterNum(n); err != nil {
		return err
	}
	return w.Write(ChapterPath(n), content)
}

// ReadDetailedOutline returns the detailed outline of chapter n.
func (w *Workspace) ReadDetailedOutline(n int) ([]byte, error) {
	if err := checkChapterNum(n); err != nil {
		return nil, err
	}
	return w.Read(DetailedOutlinePath(n))
}

// WriteDetailedOutline stores the detailed outline of chapter n.
func (w *Workspace) WriteDetailedOutline(n int, content []byte) error {
	if err := checkChapterNum(n); err != nil {
		return err
	}
	return w.Write(DetailedOutlinePath(n), content)
}

// ChapterInfo describes one chapter file found on disk.
type ChapterInfo struct {
	Number int    `json:"chapter_num"`
	Title  string `json:"title"`
	Path   string `json:"path"`
}

// ListChapters scans the chapters directory and returns the chapters in
// numeric order. The first line of each file, stripped of markdown
// heading markers, serves as the title. Files that do not follow the
// chNNN.md naming are skipped.
func (w *Workspace) ListChapters() ([]ChapterInfo, error) {
	dir, err := w.ResolvePath(chaptersDir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list chapters: %w", err)
	}

	var chapters []ChapterInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "ch") || !strings.HasSuffix(name, ".md") {
			continue
		}
		num, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "ch"), ".md"))
		if err != nil {
			continue
		}
		rel := chaptersDir + "/" + name
		title := fmt.Sprintf("Chapter %d", num)
		if data, err := w.Read(rel); err == nil {
			if line, _, _ := strings.Cut(string(data), "\n"); line != "" {
				if t := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#")); t != "" {
					title = t
				}
			}
		}
		chapters = append(chapters, ChapterInfo{Number: num, Title: title, Path: rel})
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Number < chapters[j].Number })
	return chapters, nil
}
