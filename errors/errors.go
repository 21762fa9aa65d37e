// Package errors builds errors that carry the file and line of the
// call site, so failures deep in a chain point back to their origin.
package errors

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// caller returns the base file name and line of the caller's caller.
func caller() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "???:0"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// New creates a new error annotated with the call site.
func New(format string, a ...interface{}) error {
	return fmt.Errorf("[%s] %s", caller(), fmt.Sprintf(format, a...))
}

// Wrapf adds context and the call site to an existing error.
// Returns nil if err is nil.
func Wrapf(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("[%s] %s: %w", caller(), fmt.Sprintf(format, a...), err)
}
