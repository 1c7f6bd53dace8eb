// Package corpuserr defines the error taxonomy shared by every component
// that reads the session corpus. Components never abort on a single
// file's failure; they wrap the underlying cause in a CorpusError tagged
// with a Kind so callers can classify without string matching.
package corpuserr

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation against the corpus failed.
type Kind string

const (
	// Io means a file could not be read.
	Io Kind = "io"
	// Parse means a file's contents could not be decoded.
	Parse Kind = "parse"
	// SecurityViolation means the path sanitizer rejected a path.
	SecurityViolation Kind = "security_violation"
	// CacheError means a metadata cache operation failed.
	CacheError Kind = "cache_error"
	// WatcherError means a filesystem watch failed or was lost.
	WatcherError Kind = "watcher_error"
	// Empty means a file was readable but produced no usable records.
	// Not fatal: callers still produce an entry.
	Empty Kind = "empty"
)

// CorpusError wraps an underlying cause with a Kind, the offending path,
// and an optional human-readable suggestion for the load report.
type CorpusError struct {
	Kind       Kind
	Path       string
	Suggestion string
	Cause      error
}

func (e *CorpusError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Cause)
}

func (e *CorpusError) Unwrap() error { return e.Cause }

// New wraps cause as a CorpusError of the given kind for path.
func New(kind Kind, path string, cause error) *CorpusError {
	return &CorpusError{Kind: kind, Path: path, Cause: cause}
}

// WithSuggestion attaches a human-readable remediation hint.
func (e *CorpusError) WithSuggestion(s string) *CorpusError {
	e.Suggestion = s
	return e
}

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *CorpusError; otherwise returns the zero Kind and false.
func KindOf(err error) (Kind, bool) {
	var ce *CorpusError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}
