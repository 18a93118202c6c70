package manifest

import "fmt"

// ParseError is returned when a package manifest exists but is not valid JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RootReadError is returned when the workspace root manifest exists but cannot be read.
type RootReadError struct {
	Path string
	Err  error
}

func (e *RootReadError) Error() string {
	return fmt.Sprintf("failed to read root manifest %s: %v", e.Path, e.Err)
}

func (e *RootReadError) Unwrap() error { return e.Err }
