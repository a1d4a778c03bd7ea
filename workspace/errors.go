package workspace

import "fmt"

// SandboxError reports a path that resolves outside the workspace root.
// It is always fatal to the requested operation; callers must not retry
// or attempt to correct the path.
type SandboxError struct {
	Path string
}

func (e *SandboxError) Error() string {
	return fmt.Sprintf("path escapes workspace root: %s", e.Path)
}

// NotFoundError reports a missing file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// InvalidOperationError reports an operation that is not permitted on the
// target, such as deleting a directory or an out-of-range chapter number.
type InvalidOperationError struct {
	Path   string
	Reason string
}

func (e *InvalidOperationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid operation: %s", e.Reason)
	}
	return fmt.Sprintf("invalid operation on %s: %s", e.Path, e.Reason)
}
