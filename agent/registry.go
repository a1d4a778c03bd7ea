package agent

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ostrander/penfold/llm"
)

// Handler executes one tool call against its bound workspace. It returns
// a human-readable status string; failures are reported in the string,
// never raised, because results must be replayable into the conversation.
type Handler func(args map[string]any) string

// Tool pairs a schema definition with its handler.
type Tool struct {
	Def llm.ToolDef
	Run Handler
}

// Registry is the fixed set of named tools bound to one workspace for a
// single agent invocation. It is built once per request; lookup is a
// static map with an explicit unknown-tool branch in the loop.
type Registry struct {
	tools map[string]*Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds or replaces a tool.
func (r *Registry) Register(tool Tool) {
	r.tools[tool.Def.Name] = &tool
}

// Get returns a tool by name, or nil when absent.
func (r *Registry) Get(name string) *Tool {
	return r.tools[name]
}

// Defs returns all tool definitions in name order, for sending to the
// model.
func (r *Registry) Defs() []llm.ToolDef {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	defs := make([]llm.ToolDef, 0, len(names))
	for _, name := range names {
		defs = append(defs, r.tools[name].Def)
	}
	return defs
}

// Invoke parses and validates raw arguments against the tool's schema,
// then runs the handler. Every failure mode, including a handler panic,
// comes back as a ❌ status string.
func (t *Tool) Invoke(raw json.RawMessage) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = fmt.Sprintf("❌ Tool execution failed: %v", r)
		}
	}()

	args, err := parseArguments(raw)
	if err != nil {
		return fmt.Sprintf("❌ Invalid arguments: %v", err)
	}
	if err := validateArguments(t.Def, args); err != nil {
		return fmt.Sprintf("❌ Invalid arguments: %v", err)
	}
	return t.Run(args)
}

// parseArguments unmarshals tool call arguments into a map. An empty
// payload counts as an empty object so optional-only tools validate.
func parseArguments(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("arguments are not a JSON object: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// validateArguments checks required fields and declared property types
// against the tool's JSON-schema parameters.
func validateArguments(def llm.ToolDef, args map[string]any) error {
	required, _ := def.Parameters["required"].([]string)
	if required == nil {
		if rawReq, ok := def.Parameters["required"].([]any); ok {
			for _, r := range rawReq {
				if s, ok := r.(string); ok {
					required = append(required, s)
				}
			}
		}
	}
	for _, field := range required {
		if _, ok := args[field]; !ok {
			return fmt.Errorf("missing required field %q", field)
		}
	}

	props, _ := def.Parameters["properties"].(map[string]any)
	for field, value := range args {
		spec, ok := props[field].(map[string]any)
		if !ok {
			continue
		}
		wantType, _ := spec["type"].(string)
		switch wantType {
		case "string":
			if _, ok := value.(string); !ok {
				return fmt.Errorf("field %q must be a string", field)
			}
		case "integer", "number":
			if _, ok := value.(float64); !ok {
				return fmt.Errorf("field %q must be a number", field)
			}
		case "boolean":
			if _, ok := value.(bool); !ok {
				return fmt.Errorf("field %q must be a boolean", field)
			}
		}
	}
	return nil
}

// stringArg extracts a string argument, defaulting to empty.
func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
