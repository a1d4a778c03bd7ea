package agent

import "fmt"

// truncationMode specifies how oversized tool output is shortened
// before being replayed to the model.
type truncationMode string

const (
	truncateHeadTail truncationMode = "head_tail"
	truncateTail     truncationMode = "tail"
)

// Character limits per tool. The full result still reaches the event
// stream; only the model-visible copy is shortened.
var toolCharLimits = map[string]int{
	"read_file":        50000,
	"list_files":       20000,
	"write_to_file":    1000,
	"create_directory": 1000,
}

var toolTruncationModes = map[string]truncationMode{
	"read_file":        truncateHeadTail,
	"list_files":       truncateTail,
	"write_to_file":    truncateTail,
	"create_directory": truncateTail,
}

const fallbackCharLimit = 30000

// truncateForModel applies the per-tool limit to a tool result.
func truncateForModel(output, toolName string) string {
	maxChars, ok := toolCharLimits[toolName]
	if !ok {
		maxChars = fallbackCharLimit
	}
	mode, ok := toolTruncationModes[toolName]
	if !ok {
		mode = truncateHeadTail
	}
	return truncateOutput(output, maxChars, mode)
}

// truncateOutput shortens output to maxChars, keeping head and tail or
// tail only depending on mode.
func truncateOutput(output string, maxChars int, mode truncationMode) string {
	if len(output) <= maxChars {
		return output
	}

	removed := len(output) - maxChars
	switch mode {
	case truncateTail:
		return fmt.Sprintf("[WARNING: Tool output was truncated. First %d characters were removed. "+
			"The full output is available in the event stream.]\n\n", removed) +
			output[len(output)-maxChars:]
	default:
		half := maxChars / 2
		return output[:half] +
			fmt.Sprintf("\n\n[WARNING: Tool output was truncated. %d characters were removed from the middle. "+
				"The full output is available in the event stream. "+
				"If you need specific parts, re-run the tool with more targeted parameters.]\n\n", removed) +
			output[len(output)-half:]
	}
}
