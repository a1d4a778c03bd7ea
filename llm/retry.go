package llm

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy configures retry behavior with exponential backoff. The
// agent loop does not retry on its own; callers opt in by wrapping their
// endpoint in a RetryEndpoint or calling Retry directly.
type RetryPolicy struct {
	MaxRetries        int     // retry attempts, not counting the initial call
	BaseDelay         float64 // initial delay in seconds
	MaxDelay          float64 // maximum delay between retries
	BackoffMultiplier float64
	Jitter            bool
	OnRetry           func(err error, attempt int, delay time.Duration)
}

// DefaultRetryPolicy returns a conservative default.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        2,
		BaseDelay:         1.0,
		MaxDelay:          30.0,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	}
}

// Delay calculates the delay for attempt n (0-indexed).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := math.Min(p.BaseDelay*math.Pow(p.BackoffMultiplier, float64(attempt)), p.MaxDelay)
	if p.Jitter {
		// +/- 50% jitter
		delay = delay * (0.5 + rand.Float64())
	}
	return time.Duration(delay * float64(time.Second))
}

// RetryEndpoint decorates an Endpoint with the retry policy. Complete
// and the initial Stream call are retried; once a stream is open its
// events pass through untouched, since replaying a half-delivered
// response would duplicate output.
type RetryEndpoint struct {
	inner  Endpoint
	policy RetryPolicy
}

// NewRetryEndpoint wraps inner with policy.
func NewRetryEndpoint(inner Endpoint, policy RetryPolicy) *RetryEndpoint {
	return &RetryEndpoint{inner: inner, policy: policy}
}

func (e *RetryEndpoint) Complete(ctx context.Context, req Request) (*Response, error) {
	return Retry(ctx, e.policy, func(ctx context.Context) (*Response, error) {
		return e.inner.Complete(ctx, req)
	})
}

func (e *RetryEndpoint) Stream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	return Retry(ctx, e.policy, func(ctx context.Context) (<-chan StreamEvent, error) {
		return e.inner.Stream(ctx, req)
	})
}

// Retry executes fn under the policy. Only retryable errors are retried;
// context cancellation aborts the wait immediately.
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	result, err := fn(ctx)
	if err == nil {
		return result, nil
	}

	for attempt := 0; attempt < policy.MaxRetries; attempt++ {
		if !IsRetryable(err) {
			return zero, err
		}
		delay := policy.Delay(attempt)
		if policy.OnRetry != nil {
			policy.OnRetry(err, attempt+1, delay)
		}
		select {
		case <-ctx.Done():
			return zero, &TransportError{Message: "request cancelled during retry", Cause: ctx.Err()}
		case <-time.After(delay):
		}
		result, err = fn(ctx)
		if err == nil {
			return result, nil
		}
	}
	return zero, err
}
