package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ostrander/penfold/llm"
)

// maxRounds caps reasoning rounds per request. Each round is one model
// call plus the execution of every tool it requested; a model that keeps
// calling tools is cut off here rather than looping forever.
const maxRounds = 5

// Loop drives the tool-calling conversation: send messages, execute the
// tool calls the model requests, feed the results back, repeat until the
// model answers without tools or the round cap is hit.
type Loop struct {
	endpoint     llm.Endpoint
	registry     *Registry
	model        string
	systemPrompt string
}

// Option configures a Loop.
type Option func(*Loop)

// WithModel overrides the endpoint's default model.
func WithModel(model string) Option {
	return func(l *Loop) { l.model = model }
}

// WithSystemPrompt replaces the built-in persona. Tool-usage
// instructions are appended to it regardless.
func WithSystemPrompt(prompt string) Option {
	return func(l *Loop) { l.systemPrompt = prompt }
}

// NewLoop creates a Loop over an endpoint and a tool registry.
func NewLoop(endpoint llm.Endpoint, registry *Registry, opts ...Option) *Loop {
	l := &Loop{endpoint: endpoint, registry: registry}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Chat processes one user message and returns the final reply plus the
// audit trail of successful file writes. History carries prior turns,
// oldest first, without the system prompt.
func (l *Loop) Chat(ctx context.Context, userMessage string, history []llm.Message) (string, []FileOperation, error) {
	return l.run(ctx, userMessage, history, nil, false)
}

// ChatStream processes one user message, emitting events as the run
// progresses. The terminal event is always done or error; errors are
// also returned.
func (l *Loop) ChatStream(ctx context.Context, userMessage string, history []llm.Message, emit Sink) error {
	_, _, err := l.run(ctx, userMessage, history, emit, true)
	if err != nil {
		emitTo(emit, Event{Type: EventError, Message: err.Error()})
		return err
	}
	emitTo(emit, Event{Type: EventDone})
	return nil
}

func (l *Loop) run(ctx context.Context, userMessage string, history []llm.Message, emit Sink, streaming bool) (string, []FileOperation, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.SystemMessage(buildSystemPrompt(l.systemPrompt)))
	messages = append(messages, history...)
	messages = append(messages, llm.UserMessage(userMessage))

	var finalReply string
	var fileOps []FileOperation

	for round := 1; round <= maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return finalReply, fileOps, err
		}

		resp, err := l.step(ctx, messages, emit, streaming)
		if err != nil {
			return finalReply, fileOps, err
		}

		if resp.Text != "" {
			finalReply = resp.Text
		}
		if len(resp.ToolCalls) == 0 {
			break
		}

		messages = append(messages, llm.AssistantMessage(resp.Text, resp.ToolCalls...))
		emitTo(emit, Event{
			Type:    EventStatus,
			Message: fmt.Sprintf("Executing %d operations...", len(resp.ToolCalls)),
		})

		for _, call := range resp.ToolCalls {
			result, op := l.dispatch(call)
			emitTo(emit, Event{
				Type:     EventToolResult,
				ToolName: call.Name,
				Result:   result,
			})
			if op != nil {
				fileOps = append(fileOps, *op)
				emitTo(emit, Event{Type: EventFileOperation, Operation: op})
			}
			// Results lead with their marker; the body may quote either
			// marker freely (a read of a file containing ❌ is a success).
			isError := strings.HasPrefix(result, failureMarker)
			messages = append(messages, llm.ToolResultMessage(call.ID, truncateForModel(result, call.Name), isError))
		}
	}

	return finalReply, fileOps, nil
}

// step performs one model call. In streaming mode text deltas are
// forwarded as content events while the full response is assembled from
// the finish event.
func (l *Loop) step(ctx context.Context, messages []llm.Message, emit Sink, streaming bool) (*llm.Response, error) {
	req := llm.Request{
		Model:    l.model,
		Messages: messages,
		Tools:    l.registry.Defs(),
	}

	if !streaming {
		return l.endpoint.Complete(ctx, req)
	}

	events, err := l.endpoint.Stream(ctx, req)
	if err != nil {
		return nil, err
	}
	var resp *llm.Response
	for ev := range events {
		switch ev.Type {
		case llm.StreamDelta:
			if ev.Delta != "" {
				emitTo(emit, Event{Type: EventContent, Content: ev.Delta})
			}
		case llm.StreamError:
			return nil, ev.Err
		case llm.StreamFinish:
			resp = ev.Response
		}
	}
	if resp == nil {
		return nil, fmt.Errorf("stream ended without a finish event")
	}
	return resp, nil
}

// dispatch executes one tool call. Unknown tools and handler failures
// come back as ❌ result strings so the model can react; a successful
// write additionally yields its FileOperation record.
func (l *Loop) dispatch(call llm.ToolCall) (string, *FileOperation) {
	tool := l.registry.Get(call.Name)
	if tool == nil {
		return fmt.Sprintf("%s Tool not found: %s", failureMarker, call.Name), nil
	}

	result := tool.Invoke(call.Arguments)

	if call.Name == "write_to_file" && strings.HasPrefix(result, successMarker) {
		var args struct {
			FilePath string `json:"file_path"`
			Content  string `json:"content"`
		}
		_ = json.Unmarshal(call.Arguments, &args)
		return result, &FileOperation{
			Action:  "write",
			Path:    args.FilePath,
			Content: args.Content,
		}
	}
	return result, nil
}

func emitTo(emit Sink, ev Event) {
	if emit != nil {
		emit(ev)
	}
}
