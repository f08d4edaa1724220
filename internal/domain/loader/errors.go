package loader

import (
	"errors"
	"fmt"
)

// Sentinel kinds wrapped by LoadError.Err.
var (
	ErrUnreadable   = errors.New("record unreadable")
	ErrMalformed    = errors.New("record malformed")
	ErrMissingField = errors.New("required field missing")
	ErrInvalidValue = errors.New("invalid field value")
)

// LoadError reports which file broke a load and why. A load that returns a
// LoadError produces no catalog at all.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func newLoadError(path string, kind, cause error) *LoadError {
	if cause == nil {
		return &LoadError{Path: path, Err: kind}
	}
	return &LoadError{Path: path, Err: fmt.Errorf("%w: %w", kind, cause)}
}

func missing(path, field string) *LoadError {
	return &LoadError{Path: path, Err: fmt.Errorf("%w: %s", ErrMissingField, field)}
}

func invalid(path, msg string) *LoadError {
	return &LoadError{Path: path, Err: fmt.Errorf("%w: %s", ErrInvalidValue, msg)}
}
