package platform

import "fmt"

// PlatformError wraps an OS error with the operation and path it came from
type PlatformError struct {
	Operation string
	Path      string
	Err       error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform: %s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// NewPlatformError creates a new platform error
func NewPlatformError(operation, path string, err error) error {
	return &PlatformError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// UnsupportedOperationError represents an operation the platform cannot do
type UnsupportedOperationError struct {
	Platform  string
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %s not supported on platform %s", e.Operation, e.Platform)
}

// NewUnsupportedOperationError creates a new unsupported operation error
func NewUnsupportedOperationError(platform, operation string) error {
	return &UnsupportedOperationError{
		Platform:  platform,
		Operation: operation,
	}
}
