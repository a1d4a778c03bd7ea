package agent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ostrander/penfold/llm"
	"github.com/ostrander/penfold/workspace"
)

// Result strings carry these markers so the UI (and the loop's
// file-operation detection) can classify them without parsing prose.
const (
	successMarker = "✅"
	failureMarker = "❌"
)

// NewFileToolRegistry builds the fixed tool set bound to one workspace.
func NewFileToolRegistry(ws *workspace.Workspace) *Registry {
	reg := NewRegistry()
	registerReadFile(reg, ws)
	registerWriteToFile(reg, ws)
	registerListFiles(reg, ws)
	registerCreateDirectory(reg, ws)
	return reg
}

func registerReadFile(reg *Registry, ws *workspace.Workspace) {
	reg.Register(Tool{
		Def: llm.ToolDef{
			Name:        "read_file",
			Description: "Read the content of a project file. Use this to inspect existing files.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"file_path": map[string]any{
						"type":        "string",
						"description": "File path relative to the project root, e.g. '01_settings/worldview.md'.",
					},
				},
				"required": []string{"file_path"},
			},
		},
		Run: func(args map[string]any) string {
			path := stringArg(args, "file_path")
			content, err := ws.Read(path)
			if err != nil {
				var nf *workspace.NotFoundError
				if errors.As(err, &nf) {
					return fmt.Sprintf("%s File not found: %s", failureMarker, path)
				}
				return fmt.Sprintf("%s Failed to read file: %v", failureMarker, err)
			}
			return fmt.Sprintf("%s File read\npath: %s\ncontent:\n```\n%s\n```", successMarker, path, content)
		},
	})
}

func registerWriteToFile(reg *Registry, ws *workspace.Workspace) {
	reg.Register(Tool{
		Def: llm.ToolDef{
			Name:        "write_to_file",
			Description: "Write content to a project file, creating it or overwriting it. Use this to create or update documents.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"file_path": map[string]any{
						"type":        "string",
						"description": "File path relative to the project root.",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "The full file content to write.",
					},
				},
				"required": []string{"file_path", "content"},
			},
		},
		Run: func(args map[string]any) string {
			path := stringArg(args, "file_path")
			content := stringArg(args, "content")
			if err := ws.Write(path, []byte(content)); err != nil {
				return fmt.Sprintf("%s Failed to write file: %v", failureMarker, err)
			}
			return fmt.Sprintf("%s File written\npath: %s\nsize: %d characters", successMarker, path, len(content))
		},
	})
}

func registerListFiles(reg *Registry, ws *workspace.Workspace) {
	reg.Register(Tool{
		Def: llm.ToolDef{
			Name:        "list_files",
			Description: "List files and subdirectories of a project directory. Use this to browse the project structure.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"directory": map[string]any{
						"type":        "string",
						"description": "Subdirectory path, optional; defaults to the project root.",
					},
				},
				"required": []string{},
			},
		},
		Run: func(args map[string]any) string {
			dir := stringArg(args, "directory")
			label := dir
			if label == "" {
				label = "(root)"
			}
			nodes, err := ws.ListDir(dir)
			if err != nil {
				var nf *workspace.NotFoundError
				if errors.As(err, &nf) {
					return fmt.Sprintf("%s Directory not found: %s", failureMarker, label)
				}
				return fmt.Sprintf("%s Failed to list files: %v", failureMarker, err)
			}
			if len(nodes) == 0 {
				return fmt.Sprintf("%s Directory is empty: %s", successMarker, label)
			}
			var sb strings.Builder
			fmt.Fprintf(&sb, "%s Directory: %s", successMarker, label)
			for _, n := range nodes {
				if n.IsDir {
					fmt.Fprintf(&sb, "\n📁 %s/", n.Name)
				} else {
					fmt.Fprintf(&sb, "\n📄 %s", n.Name)
				}
			}
			return sb.String()
		},
	})
}

func registerCreateDirectory(reg *Registry, ws *workspace.Workspace) {
	reg.Register(Tool{
		Def: llm.ToolDef{
			Name:        "create_directory",
			Description: "Create a project directory. Use this to organize the file structure.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"directory_path": map[string]any{
						"type":        "string",
						"description": "Directory path relative to the project root.",
					},
				},
				"required": []string{"directory_path"},
			},
		},
		Run: func(args map[string]any) string {
			path := stringArg(args, "directory_path")
			if path == "" {
				return fmt.Sprintf("%s Failed to create directory: empty path", failureMarker)
			}
			if err := ws.MkdirAll(path); err != nil {
				return fmt.Sprintf("%s Failed to create directory: %v", failureMarker, err)
			}
			return fmt.Sprintf("%s Directory created: %s", successMarker, path)
		},
	})
}
