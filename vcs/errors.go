package vcs

import "fmt"

// AdapterError wraps a failure of the underlying version-control engine.
// These surface to the caller with the engine's message intact and are
// never retried.
type AdapterError struct {
	Op  string
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("vcs %s: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a commit reference that does not resolve.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("commit not found: %s", e.Ref)
}
