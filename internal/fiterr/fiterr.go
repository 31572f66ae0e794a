// Package fiterr defines the error taxonomy shared across the fitting
// pipeline. Every failure the core can produce falls into one of three
// categories: invalid configuration, a missing external resource, or an
// array shape that contradicts what the loader promised.
package fiterr

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an invalid combination of model or run
// settings, discovered either at config validation, at graph build time,
// or at basis selection.
type ConfigurationError struct {
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// Configuration builds a ConfigurationError from a format string.
func Configuration(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// MissingResourceError reports an external file (calibration table,
// observation, target list) that is absent or unreadable. It wraps the
// underlying cause.
type MissingResourceError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *MissingResourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("missing resource %q", e.Path)
	}
	return fmt.Sprintf("missing resource %q: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *MissingResourceError) Unwrap() error {
	return e.Err
}

// MissingResource builds a MissingResourceError wrapping cause.
func MissingResource(path string, cause error) *MissingResourceError {
	return &MissingResourceError{Path: path, Err: cause}
}

// DataShapeError reports an array length that violates what upstream
// loaders should have guaranteed.
type DataShapeError struct {
	Context string
	Want    int
	Got     int
}

// Error implements the error interface.
func (e *DataShapeError) Error() string {
	return fmt.Sprintf("data shape error in %s: want %d, got %d", e.Context, e.Want, e.Got)
}

// DataShape builds a DataShapeError.
func DataShape(context string, want, got int) *DataShapeError {
	return &DataShapeError{Context: context, Want: want, Got: got}
}

// IsConfiguration reports whether err is (or wraps) a ConfigurationError.
func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsMissingResource reports whether err is (or wraps) a MissingResourceError.
func IsMissingResource(err error) bool {
	var target *MissingResourceError
	return errors.As(err, &target)
}

// IsDataShape reports whether err is (or wraps) a DataShapeError.
func IsDataShape(err error) bool {
	var target *DataShapeError
	return errors.As(err, &target)
}
