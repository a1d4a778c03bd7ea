package llm

import "context"

// Endpoint is the model-endpoint contract consumed by the agent loop.
// Complete returns the full response in one shot; Stream delivers it
// incrementally, ending with a finish or error event. Implementations
// must honor ctx cancellation on both paths.
type Endpoint interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Stream(ctx context.Context, req Request) (<-chan StreamEvent, error)
}
