package llm

import (
	"errors"
	"testing"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		msg        string
		statusCode int
		retryable  bool
	}{
		{"401 unauthorized", 401, false},
		{"invalid api key provided", 401, false},
		{"403 forbidden", 403, false},
		{"model not found", 404, false},
		{"rate limit exceeded", 429, true},
		{"internal server error", 500, true},
		{"503 service unavailable", 503, true},
		{"request timeout", 408, true},
		{"context length exceeded", 413, false},
		{"connection reset by peer", 0, true}, // unknown defaults to retryable
	}
	for _, tc := range cases {
		te := classifyError("openai", errors.New(tc.msg))
		if te.StatusCode != tc.statusCode {
			t.Errorf("%q: expected status %d, got %d", tc.msg, tc.statusCode, te.StatusCode)
		}
		if te.Retryable != tc.retryable {
			t.Errorf("%q: expected retryable=%v, got %v", tc.msg, tc.retryable, te.Retryable)
		}
		if te.Provider != "openai" {
			t.Errorf("%q: provider not carried through", tc.msg)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil error must not be retryable")
	}
	if IsRetryable(&TransportError{Retryable: false}) {
		t.Error("non-retryable TransportError reported retryable")
	}
	if !IsRetryable(&TransportError{Retryable: true}) {
		t.Error("retryable TransportError reported non-retryable")
	}
	if !IsRetryable(errors.New("mystery")) {
		t.Error("unknown errors default to retryable")
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	te := &TransportError{Message: "wrapped", Cause: cause}
	if !errors.Is(te, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
}
