package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/teilomillet/gollm"
)

// GollmEndpoint implements Endpoint on top of a gollm.LLM instance. It
// flattens the message list into a gollm prompt, passes tool schemas
// through, and parses tool-call requests back out of the response text.
type GollmEndpoint struct {
	provider string
	llm      gollm.LLM
	model    string
}

// GollmOption configures a GollmEndpoint.
type GollmOption func(*gollmConfig)

type gollmConfig struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	extraOpts   []gollm.ConfigOption
}

// WithAPIKey sets the API key. When empty, gollm falls back to its
// provider environment variables.
func WithAPIKey(key string) GollmOption {
	return func(c *gollmConfig) { c.apiKey = key }
}

// WithModel sets the default model.
func WithModel(model string) GollmOption {
	return func(c *gollmConfig) { c.model = model }
}

// WithMaxTokens sets the default completion budget.
func WithMaxTokens(n int) GollmOption {
	return func(c *gollmConfig) { c.maxTokens = n }
}

// WithTemperature sets the default sampling temperature.
func WithTemperature(t float64) GollmOption {
	return func(c *gollmConfig) { c.temperature = t }
}

// WithGollmOptions appends raw gollm configuration options.
func WithGollmOptions(opts ...gollm.ConfigOption) GollmOption {
	return func(c *gollmConfig) { c.extraOpts = append(c.extraOpts, opts...) }
}

func defaultModel(provider string) string {
	switch provider {
	case "anthropic":
		return "claude-sonnet-4-5-20250514"
	default:
		return "gpt-4o-mini"
	}
}

// NewGollmEndpoint creates a GollmEndpoint for the given provider.
func NewGollmEndpoint(provider string, opts ...GollmOption) (*GollmEndpoint, error) {
	cfg := &gollmConfig{
		maxTokens:   4096,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	model := cfg.model
	if model == "" {
		model = defaultModel(provider)
	}

	gollmOpts := []gollm.ConfigOption{
		gollm.SetProvider(provider),
		gollm.SetModel(model),
		gollm.SetMaxTokens(cfg.maxTokens),
		gollm.SetTemperature(cfg.temperature),
		gollm.SetMaxRetries(0), // retry is the caller's concern
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	if cfg.apiKey != "" {
		gollmOpts = append(gollmOpts, gollm.SetAPIKey(cfg.apiKey))
	}
	gollmOpts = append(gollmOpts, cfg.extraOpts...)

	inner, err := gollm.NewLLM(gollmOpts...)
	if err != nil {
		return nil, fmt.Errorf("create gollm LLM for provider %s: %w", provider, err)
	}
	return &GollmEndpoint{provider: provider, llm: inner, model: model}, nil
}

// Provider returns the provider identifier.
func (e *GollmEndpoint) Provider() string { return e.provider }

// Complete sends a blocking request and returns the full response.
func (e *GollmEndpoint) Complete(ctx context.Context, req Request) (*Response, error) {
	prompt := e.translateRequest(req)
	e.applyRequestOptions(req)

	text, err := e.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, classifyError(e.provider, err)
	}
	return e.buildResponse(req, text), nil
}

// Stream sends a streaming request and forwards tokens as they arrive.
// Tool calls are only emitted once the text stream completes, since they
// are parsed from the accumulated output.
func (e *GollmEndpoint) Stream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	prompt := e.translateRequest(req)
	e.applyRequestOptions(req)

	ch := make(chan StreamEvent, 64)

	if !e.llm.SupportsStreaming() {
		// Fallback: one-shot generate emitted as a single delta.
		go func() {
			defer close(ch)
			text, err := e.llm.Generate(ctx, prompt)
			if err != nil {
				ch <- StreamEvent{Type: StreamError, Err: classifyError(e.provider, err)}
				return
			}
			e.emitFinal(ch, req, text, true)
		}()
		return ch, nil
	}

	stream, err := e.llm.Stream(ctx, prompt)
	if err != nil {
		return nil, classifyError(e.provider, err)
	}

	go func() {
		defer close(ch)
		defer stream.Close()

		var full strings.Builder
		for {
			token, err := stream.Next(ctx)
			if err == io.EOF {
				break
			}
			if err != nil {
				ch <- StreamEvent{Type: StreamError, Err: classifyError(e.provider, err)}
				return
			}
			if token == nil {
				continue
			}
			full.WriteString(token.Text)
			ch <- StreamEvent{Type: StreamDelta, Delta: token.Text}
		}
		e.emitFinal(ch, req, full.String(), false)
	}()
	return ch, nil
}

// emitFinal parses the accumulated text, emits tool-call events and the
// terminal finish event. When emitDelta is set the cleaned text is also
// sent as one delta (non-streaming fallback path).
func (e *GollmEndpoint) emitFinal(ch chan<- StreamEvent, req Request, text string, emitDelta bool) {
	resp := e.buildResponse(req, text)
	if emitDelta && resp.Text != "" {
		ch <- StreamEvent{Type: StreamDelta, Delta: resp.Text}
	}
	for i := range resp.ToolCalls {
		ch <- StreamEvent{Type: StreamToolCall, ToolCall: &resp.ToolCalls[i]}
	}
	ch <- StreamEvent{Type: StreamFinish, Response: resp}
}

// translateRequest flattens the message list into a gollm prompt. gollm
// prompts are single-shot, so assistant turns and tool results are
// replayed as tagged context lines.
func (e *GollmEndpoint) translateRequest(req Request) *gollm.Prompt {
	var systemPrompt string
	var parts []string

	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			systemPrompt += msg.Content + "\n"
		case RoleUser:
			parts = append(parts, msg.Content)
		case RoleAssistant:
			if msg.Content != "" {
				parts = append(parts, "[Assistant]: "+msg.Content)
			}
			for _, tc := range msg.ToolCalls {
				parts = append(parts, fmt.Sprintf("[Tool Call %s]: %s(%s)", tc.ID, tc.Name, string(tc.Arguments)))
			}
		case RoleTool:
			prefix := "[Tool Result]"
			if msg.IsError {
				prefix = "[Tool Error]"
			}
			parts = append(parts, prefix+": "+msg.Content)
		}
	}

	promptText := strings.Join(parts, "\n")
	if promptText == "" {
		promptText = "Hello"
	}

	var promptOpts []gollm.PromptOption
	if systemPrompt != "" {
		promptOpts = append(promptOpts, gollm.WithSystemPrompt(strings.TrimSpace(systemPrompt), gollm.CacheTypeEphemeral))
	}
	if req.MaxTokens != nil {
		promptOpts = append(promptOpts, gollm.WithMaxLength(*req.MaxTokens))
	}
	if len(req.Tools) > 0 {
		tools := make([]gollm.Tool, 0, len(req.Tools))
		for _, t := range req.Tools {
			tools = append(tools, gollm.Tool{
				Type: "function",
				Function: gollm.Function{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  t.Parameters,
				},
			})
		}
		promptOpts = append(promptOpts, gollm.WithTools(tools))
	}
	if req.ToolChoice != "" {
		promptOpts = append(promptOpts, gollm.WithToolChoice(req.ToolChoice))
	}

	return gollm.NewPrompt(promptText, promptOpts...)
}

// applyRequestOptions applies request-level overrides to the gollm LLM.
func (e *GollmEndpoint) applyRequestOptions(req Request) {
	if req.Model != "" {
		e.llm.SetOption("model", req.Model)
	}
	if req.Temperature != nil {
		e.llm.SetOption("temperature", *req.Temperature)
	}
	if req.MaxTokens != nil {
		e.llm.SetOption("max_tokens", *req.MaxTokens)
	}
}

// buildResponse constructs a Response from generated text, splitting out
// any tool calls the model embedded in it.
func (e *GollmEndpoint) buildResponse(req Request, text string) *Response {
	model := req.Model
	if model == "" {
		model = e.model
	}

	toolCalls := parseToolCalls(text)
	cleaned := stripToolCallJSON(text, toolCalls)

	finish := "stop"
	if len(toolCalls) > 0 {
		finish = "tool_calls"
	}

	inTokens := estimateTokens(req)
	outTokens := len(text) / 4
	return &Response{
		ID:           "resp_" + uuid.New().String()[:8],
		Model:        model,
		Provider:     e.provider,
		Text:         cleaned,
		ToolCalls:    toolCalls,
		FinishReason: finish,
		Usage: Usage{
			// gollm exposes no usage; approximate from text length.
			InputTokens:  inTokens,
			OutputTokens: outTokens,
			TotalTokens:  inTokens + outTokens,
		},
	}
}

// parseToolCalls extracts tool calls the model returned as JSON embedded
// in the response text.
func parseToolCalls(text string) []ToolCall {
	start := strings.Index(text, `{"tool_calls"`)
	if start == -1 {
		start = strings.Index(text, `[{"name"`)
	}
	if start == -1 {
		return nil
	}

	var raw []struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal([]byte(text[start:]), &raw); err != nil {
		return nil
	}

	calls := make([]ToolCall, 0, len(raw))
	for _, rc := range raw {
		calls = append(calls, ToolCall{
			ID:        "call_" + uuid.New().String()[:8],
			Name:      rc.Name,
			Arguments: rc.Arguments,
		})
	}
	return calls
}

// stripToolCallJSON removes parsed tool-call JSON from the text.
func stripToolCallJSON(text string, calls []ToolCall) string {
	if len(calls) == 0 {
		return text
	}
	result := text
	for _, pattern := range []string{`{"tool_calls"`, `[{"name"`} {
		if idx := strings.Index(result, pattern); idx != -1 {
			result = strings.TrimSpace(result[:idx])
		}
	}
	return result
}

// estimateTokens roughly counts request tokens from message lengths.
func estimateTokens(req Request) int {
	total := 0
	for _, msg := range req.Messages {
		total += len(msg.Content) / 4
	}
	if total == 0 {
		total = 10
	}
	return total
}
