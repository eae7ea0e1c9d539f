package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no candidate configuration file exists
// in a directory. Callers that can proceed without one (the inheritance
// walk) match it with errors.Is.
var ErrNotFound = errors.New("configuration file not found")

// NotFoundError reports the directory searched and the candidate file
// names tried. It matches ErrNotFound.
type NotFoundError struct {
	Dir        string
	Candidates []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("configuration file not found in %s (tried: %s)",
		e.Dir, strings.Join(e.Candidates, ", "))
}

// Is makes errors.Is(err, ErrNotFound) succeed for NotFoundError values.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ParseError reports a malformed configuration document.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CycleError reports an inheritance walk that revisited a directory
// (through a symlink loop).
type CycleError struct {
	Dir string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("inheritance cycle: directory %s visited twice", e.Dir)
}

// UnknownEnvironmentError reports a requested environment name that is
// absent from the merged document's environments mapping.
type UnknownEnvironmentError struct {
	Name  string
	Known []string
}

func (e *UnknownEnvironmentError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown environment %q (no environments declared)", e.Name)
	}
	return fmt.Sprintf("unknown environment %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

// ImportError reports an imported requirements file that could not be read.
type ImportError struct {
	Path string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("importing requirements from %s: %v", e.Path, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// PathError reports a query path that could not be navigated. Segment
// is the part that failed and Prefix the portion consumed before it.
type PathError struct {
	Path    string
	Segment string
	Prefix  string
	Reason  string
}

func (e *PathError) Error() string {
	if e.Prefix == "" {
		return fmt.Sprintf("path %q: segment %q: %s", e.Path, e.Segment, e.Reason)
	}
	return fmt.Sprintf("path %q: segment %q (after %q): %s", e.Path, e.Segment, e.Prefix, e.Reason)
}
