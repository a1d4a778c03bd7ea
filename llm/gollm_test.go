package llm

import (
	"encoding/json"
	"testing"
)

func TestParseToolCallsFromArray(t *testing.T) {
	text := `I'll write that file now. [{"name": "write_to_file", "arguments": {"file_path": "a.md", "content": "x"}}]`

	calls := parseToolCalls(text)
	if len(calls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(calls))
	}
	if calls[0].Name != "write_to_file" {
		t.Errorf("expected write_to_file, got %s", calls[0].Name)
	}
	if calls[0].ID == "" {
		t.Error("tool call must get a correlation id")
	}

	var args map[string]any
	if err := json.Unmarshal(calls[0].Arguments, &args); err != nil {
		t.Fatalf("arguments not valid JSON: %v", err)
	}
	if args["file_path"] != "a.md" {
		t.Errorf("unexpected arguments: %v", args)
	}
}

func TestParseToolCallsPlainText(t *testing.T) {
	if calls := parseToolCalls("Just a normal reply with no JSON."); calls != nil {
		t.Errorf("expected no tool calls, got %v", calls)
	}
}

func TestParseToolCallsMalformedJSON(t *testing.T) {
	if calls := parseToolCalls(`[{"name": "broken`); calls != nil {
		t.Errorf("malformed JSON must be treated as plain text, got %v", calls)
	}
}

func TestStripToolCallJSON(t *testing.T) {
	text := `Writing the file. [{"name": "write_to_file", "arguments": {}}]`
	calls := parseToolCalls(text)
	cleaned := stripToolCallJSON(text, calls)
	if cleaned != "Writing the file." {
		t.Errorf("expected surrounding text preserved, got %q", cleaned)
	}

	// No calls parsed: text passes through untouched.
	if got := stripToolCallJSON(text, nil); got != text {
		t.Errorf("expected unchanged text, got %q", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	req := Request{Messages: []Message{
		UserMessage("aaaabbbbccccdddd"), // 16 chars -> 4 tokens
	}}
	if got := estimateTokens(req); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	if got := estimateTokens(Request{}); got != 10 {
		t.Errorf("empty request floors at 10, got %d", got)
	}
}
