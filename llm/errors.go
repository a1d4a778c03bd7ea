package llm

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError reports a failure reaching or streaming from the model
// endpoint. It terminates the current loop invocation; the loop never
// retries it internally (use Retry at the call site if desired).
type TransportError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
	Retryable  bool
}

func (e *TransportError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("[%s] %s (status=%d, retryable=%v)", e.Provider, e.Message, e.StatusCode, e.Retryable)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether err is safe to retry. Unknown errors
// default to retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}
	return true
}

// classifyError converts a provider error into a TransportError by
// sniffing the message, since gollm does not expose structured status
// codes.
func classifyError(provider string, err error) *TransportError {
	msg := err.Error()
	lower := strings.ToLower(msg)

	te := &TransportError{Provider: provider, Message: msg, Cause: err}
	switch {
	case strings.Contains(lower, "401"), strings.Contains(lower, "unauthorized"),
		strings.Contains(lower, "invalid api key"), strings.Contains(lower, "invalid key"):
		te.StatusCode = 401
	case strings.Contains(lower, "403"), strings.Contains(lower, "forbidden"):
		te.StatusCode = 403
	case strings.Contains(lower, "404"), strings.Contains(lower, "not found"):
		te.StatusCode = 404
	case strings.Contains(lower, "context length"), strings.Contains(lower, "too many tokens"):
		te.StatusCode = 413
	case strings.Contains(lower, "429"), strings.Contains(lower, "rate limit"):
		te.StatusCode = 429
		te.Retryable = true
	case strings.Contains(lower, "500"), strings.Contains(lower, "internal server"):
		te.StatusCode = 500
		te.Retryable = true
	case strings.Contains(lower, "502"), strings.Contains(lower, "503"), strings.Contains(lower, "504"):
		te.StatusCode = 503
		te.Retryable = true
	case strings.Contains(lower, "timeout"):
		te.StatusCode = 408
		te.Retryable = true
	default:
		// Unknown transport failures default to retryable.
		te.Retryable = true
	}
	return te
}
