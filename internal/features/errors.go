package features

import "fmt"

// EmbeddingError wraps a failure returned by an embedding provider.
type EmbeddingError struct {
	Target  string // "job_description" or "resume"
	Message string
	Cause   error
}

func (e *EmbeddingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding %s: %s: %v", e.Target, e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding %s: %s", e.Target, e.Message)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Cause
}

// DimensionError is returned when an embedding does not have the expected length.
type DimensionError struct {
	Target   string
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embedding %s: expected dimension %d, got %d", e.Target, e.Expected, e.Got)
}
