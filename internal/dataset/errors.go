package dataset

import "fmt"

// LoadError represents a failure to read or decode a dataset file.
type LoadError struct {
	Path    string
	Line    int // 0 when the error is not tied to a row
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Cause != nil {
		return fmt.Sprintf("dataset %s: %s: %v", loc, e.Message, e.Cause)
	}
	return fmt.Sprintf("dataset %s: %s", loc, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
