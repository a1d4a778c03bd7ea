package workspace

// The fixed project layout. Ordering matters only for readability; Init
// is idempotent over the whole set.
var projectLayout = []string{
	"01_settings",
	"02_characters/main_characters",
	"02_characters/supporting_characters",
	"03_outline/detailed",
	"04_style_guide",
	"05_chapters",
}

const readmeName = "README.md"

const readmeContent = `# Penfold Project

This is a writing project maintained with Penfold AI assistance.

## Layout

- ` + "`01_settings/`" + ` - worldview and setting notes
- ` + "`02_characters/`" + ` - character cards (main and supporting)
- ` + "`03_outline/`" + ` - main outline and per-chapter detailed outlines
- ` + "`04_style_guide/`" + ` - writing style guide
- ` + "`05_chapters/`" + ` - chapter manuscripts
`

// Init creates the fixed subdirectory layout and the README marker file.
// It is idempotent: calling it on an already initialized workspace
// recreates nothing and destroys nothing, but the README is rewritten.
func (w *Workspace) Init() error {
	for _, dir := range projectLayout {
		if err := w.MkdirAll(dir); err != nil {
			return err
		}
	}
	return w.Write(readmeName, []byte(readmeContent))
}
