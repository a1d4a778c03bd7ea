package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ostrander/penfold/llm"
	"github.com/ostrander/penfold/workspace"
)

// scriptedEndpoint is a test double for llm.Endpoint. It replays its
// responses in order, repeating the last one once the script runs out,
// and records every request it receives.
type scriptedEndpoint struct {
	responses []*llm.Response
	requests  []llm.Request
	err       error
}

func (s *scriptedEndpoint) next() *llm.Response {
	i := len(s.requests) - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i]
}

func (s *scriptedEndpoint) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.next(), nil
}

func (s *scriptedEndpoint) Stream(ctx context.Context, req llm.Request) (<-chan llm.StreamEvent, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	resp := s.next()
	ch := make(chan llm.StreamEvent, len(resp.ToolCalls)+2)
	if resp.Text != "" {
		ch <- llm.StreamEvent{Type: llm.StreamDelta, Delta: resp.Text}
	}
	for i := range resp.ToolCalls {
		ch <- llm.StreamEvent{Type: llm.StreamToolCall, ToolCall: &resp.ToolCalls[i]}
	}
	ch <- llm.StreamEvent{Type: llm.StreamFinish, Response: resp}
	close(ch)
	return ch, nil
}

func textResponse(text string) *llm.Response {
	return &llm.Response{Text: text, FinishReason: "stop"}
}

func toolResponse(text string, calls ...llm.ToolCall) *llm.Response {
	return &llm.Response{Text: text, ToolCalls: calls, FinishReason: "tool_calls"}
}

func newAgentWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.New(t.TempDir(), "alice", "novel")
	if err != nil {
		t.Fatalf("create workspace: %v", err)
	}
	if err := ws.Init(); err != nil {
		t.Fatalf("init workspace: %v", err)
	}
	return ws
}

func TestChatNoToolCalls(t *testing.T) {
	ws := newAgentWorkspace(t)
	ep := &scriptedEndpoint{responses: []*llm.Response{textResponse("Hello there.")}}
	loop := NewLoop(ep, NewFileToolRegistry(ws))

	reply, ops, err := loop.Chat(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Hello there." {
		t.Errorf("expected reply %q, got %q", "Hello there.", reply)
	}
	if len(ops) != 0 {
		t.Errorf("expected no file operations, got %v", ops)
	}
	if len(ep.requests) != 1 {
		t.Fatalf("expected 1 model call, got %d", len(ep.requests))
	}
	if len(ep.requests[0].Tools) != 4 {
		t.Errorf("expected 4 tool defs in request, got %d", len(ep.requests[0].Tools))
	}
	first := ep.requests[0].Messages[0]
	if first.Role != llm.RoleSystem || first.Content == "" {
		t.Error("first message must carry the system prompt")
	}
}

func TestChatExecutesWriteAndFinishes(t *testing.T) {
	ws := newAgentWorkspace(t)
	call := llm.ToolCall{
		ID:        "call_1",
		Name:      "write_to_file",
		Arguments: json.RawMessage(`{"file_path": "01_settings/worldview.md", "content": "A drowned world."}`),
	}
	ep := &scriptedEndpoint{responses: []*llm.Response{
		toolResponse("", call),
		textResponse("✅ Worldview saved."),
	}}
	loop := NewLoop(ep, NewFileToolRegistry(ws))

	reply, ops, err := loop.Chat(context.Background(), "write the worldview", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "✅ Worldview saved." {
		t.Errorf("unexpected reply %q", reply)
	}
	if len(ops) != 1 {
		t.Fatalf("expected 1 file operation, got %d", len(ops))
	}
	if ops[0].Action != "write" || ops[0].Path != "01_settings/worldview.md" || ops[0].Content != "A drowned world." {
		t.Errorf("unexpected file operation: %+v", ops[0])
	}

	content, err := ws.Read("01_settings/worldview.md")
	if err != nil || string(content) != "A drowned world." {
		t.Errorf("write did not reach the workspace: %q, %v", content, err)
	}

	if len(ep.requests) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(ep.requests))
	}
	msgs := ep.requests[1].Messages
	last := msgs[len(msgs)-1]
	if last.Role != llm.RoleTool || last.ToolCallID != "call_1" {
		t.Fatalf("expected trailing tool result for call_1, got %+v", last)
	}
	if !strings.Contains(last.Content, "✅ File written") {
		t.Errorf("tool result not replayed to the model: %q", last.Content)
	}
	assistant := msgs[len(msgs)-2]
	if assistant.Role != llm.RoleAssistant || len(assistant.ToolCalls) != 1 {
		t.Errorf("assistant turn with tool calls must precede the result, got %+v", assistant)
	}
}

func TestChatStopsAtRoundCap(t *testing.T) {
	ws := newAgentWorkspace(t)
	call := llm.ToolCall{
		ID:        "call_r",
		Name:      "read_file",
		Arguments: json.RawMessage(`{"file_path": "README.md"}`),
	}
	ep := &scriptedEndpoint{responses: []*llm.Response{toolResponse("reading again", call)}}
	loop := NewLoop(ep, NewFileToolRegistry(ws))

	reply, _, err := loop.Chat(context.Background(), "loop forever", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ep.requests) != maxRounds {
		t.Errorf("expected exactly %d model calls, got %d", maxRounds, len(ep.requests))
	}
	if reply != "reading again" {
		t.Errorf("last assistant text must survive the cap, got %q", reply)
	}
}

func TestChatUnknownToolContinues(t *testing.T) {
	call := llm.ToolCall{ID: "call_x", Name: "shell", Arguments: json.RawMessage(`{}`)}
	ep := &scriptedEndpoint{responses: []*llm.Response{
		toolResponse("", call),
		textResponse("Understood, no shell here."),
	}}
	loop := NewLoop(ep, NewRegistry())

	reply, ops, err := loop.Chat(context.Background(), "run ls", nil)
	if err != nil {
		t.Fatalf("unknown tool must not abort the loop: %v", err)
	}
	if reply != "Understood, no shell here." {
		t.Errorf("unexpected reply %q", reply)
	}
	if len(ops) != 0 {
		t.Errorf("expected no file operations, got %v", ops)
	}

	msgs := ep.requests[1].Messages
	last := msgs[len(msgs)-1]
	if !strings.Contains(last.Content, "❌ Tool not found: shell") {
		t.Errorf("expected tool-not-found result, got %q", last.Content)
	}
	if !last.IsError {
		t.Error("tool-not-found result must be marked as error")
	}
}

func TestChatReadResultContainingFailureMarkerIsNotAnError(t *testing.T) {
	ws := newAgentWorkspace(t)
	if err := ws.Write("01_settings/worldview.md", []byte("The ❌ glyph marks cursed ground.")); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	call := llm.ToolCall{
		ID:        "call_r",
		Name:      "read_file",
		Arguments: json.RawMessage(`{"file_path": "01_settings/worldview.md"}`),
	}
	ep := &scriptedEndpoint{responses: []*llm.Response{
		toolResponse("", call),
		textResponse("Noted."),
	}}
	loop := NewLoop(ep, NewFileToolRegistry(ws))

	if _, _, err := loop.Chat(context.Background(), "read it", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := ep.requests[1].Messages
	last := msgs[len(msgs)-1]
	if !strings.Contains(last.Content, "cursed ground") {
		t.Fatalf("expected file content in tool result, got %q", last.Content)
	}
	if last.IsError {
		t.Error("successful read must not be marked as error just because the content quotes ❌")
	}
}

func TestChatTransportError(t *testing.T) {
	wantErr := errors.New("connection refused")
	ep := &scriptedEndpoint{err: wantErr}
	loop := NewLoop(ep, NewRegistry())

	_, _, err := loop.Chat(context.Background(), "hi", nil)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected transport error to propagate, got %v", err)
	}
}

func TestChatContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ep := &scriptedEndpoint{responses: []*llm.Response{textResponse("never")}}
	loop := NewLoop(ep, NewRegistry())

	_, _, err := loop.Chat(ctx, "hi", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(ep.requests) != 0 {
		t.Errorf("canceled context must short-circuit before the model call")
	}
}

func TestChatHistoryPrecedesUserMessage(t *testing.T) {
	ep := &scriptedEndpoint{responses: []*llm.Response{textResponse("ok")}}
	loop := NewLoop(ep, NewRegistry())

	history := []llm.Message{
		llm.UserMessage("earlier question"),
		llm.AssistantMessage("earlier answer"),
	}
	if _, _, err := loop.Chat(context.Background(), "follow-up", history); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := ep.requests[0].Messages
	if len(msgs) != 4 {
		t.Fatalf("expected system + history + user, got %d messages", len(msgs))
	}
	if msgs[1].Content != "earlier question" || msgs[2].Content != "earlier answer" {
		t.Errorf("history out of order: %+v", msgs[1:3])
	}
	if msgs[3].Role != llm.RoleUser || msgs[3].Content != "follow-up" {
		t.Errorf("user message must come last, got %+v", msgs[3])
	}
}

func TestChatStreamEventOrder(t *testing.T) {
	ws := newAgentWorkspace(t)
	call := llm.ToolCall{
		ID:        "call_1",
		Name:      "write_to_file",
		Arguments: json.RawMessage(`{"file_path": "01_settings/worldview.md", "content": "x"}`),
	}
	ep := &scriptedEndpoint{responses: []*llm.Response{
		toolResponse("Writing now.", call),
		textResponse("All done."),
	}}
	loop := NewLoop(ep, NewFileToolRegistry(ws))

	var events []Event
	err := loop.ChatStream(context.Background(), "write it", nil, func(ev Event) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var types []EventType
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	want := []EventType{EventContent, EventStatus, EventToolResult, EventFileOperation, EventContent, EventDone}
	if len(types) != len(want) {
		t.Fatalf("expected events %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, types)
		}
	}

	if events[2].ToolName != "write_to_file" || !strings.Contains(events[2].Result, "✅") {
		t.Errorf("unexpected tool result event: %+v", events[2])
	}
	if events[3].Operation == nil || events[3].Operation.Path != "01_settings/worldview.md" {
		t.Errorf("unexpected file operation event: %+v", events[3])
	}
}

func TestChatStreamErrorEvent(t *testing.T) {
	wantErr := errors.New("rate limited")
	ep := &scriptedEndpoint{err: wantErr}
	loop := NewLoop(ep, NewRegistry())

	var events []Event
	err := loop.ChatStream(context.Background(), "hi", nil, func(ev Event) {
		events = append(events, ev)
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected endpoint error, got %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected a terminal error event")
	}
	last := events[len(events)-1]
	if last.Type != EventError || !strings.Contains(last.Message, "rate limited") {
		t.Errorf("expected terminal error event, got %+v", last)
	}
}
