package agent

// FileOperation is an audit record of a successful workspace write,
// surfaced to the caller independently of the tool-result text the model
// sees.
type FileOperation struct {
	Action  string `json:"action"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

// EventType tags one streamed event.
type EventType string

const (
	EventStatus        EventType = "status"
	EventContent       EventType = "content"
	EventToolResult    EventType = "tool_result"
	EventFileOperation EventType = "file_operation"
	EventDone          EventType = "done"
	EventError         EventType = "error"
)

// Event is one entry of the stream delivered to the caller. Each event
// is independently JSON-encodable; delivery follows emission order. No
// event type is guaranteed to appear in a given run.
type Event struct {
	Type      EventType      `json:"type"`
	Message   string         `json:"message,omitempty"`
	Content   string         `json:"content,omitempty"`
	ToolName  string         `json:"tool_name,omitempty"`
	Result    string         `json:"result,omitempty"`
	Operation *FileOperation `json:"operation,omitempty"`
}

// Sink receives loop events as they are produced. A nil Sink is treated
// as a no-op by the loop.
type Sink func(Event)
