package downloader

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies a failure for exit codes and JSON output.
type ErrorCategory string

const (
	CategoryNone             ErrorCategory = ""
	CategoryInvalidReference ErrorCategory = "invalid_reference"
	CategoryNoCandidate      ErrorCategory = "no_candidate"
	CategoryUpstream         ErrorCategory = "upstream"
	CategoryTranscode        ErrorCategory = "transcode"
	CategoryFilesystem       ErrorCategory = "filesystem"
)

// CategorizedError attaches an ErrorCategory to an underlying error.
type CategorizedError struct {
	Category ErrorCategory
	Err      error
}

func (e CategorizedError) Error() string {
	return e.Err.Error()
}

func (e CategorizedError) Unwrap() error {
	return e.Err
}

func wrapCategory(category ErrorCategory, err error) error {
	if err == nil {
		return nil
	}
	return CategorizedError{Category: category, Err: err}
}

// CategoryOf returns the category of err, or CategoryNone for plain errors.
func CategoryOf(err error) ErrorCategory {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return CategoryNone
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch CategoryOf(err) {
	case CategoryInvalidReference:
		return 2
	case CategoryNoCandidate:
		return 3
	case CategoryUpstream:
		return 4
	case CategoryTranscode:
		return 5
	case CategoryFilesystem:
		return 6
	default:
		return 1
	}
}

type reportedError struct {
	err error
}

func (e reportedError) Error() string {
	return e.err.Error()
}

func (e reportedError) Unwrap() error {
	return e.err
}

func markReported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// IsReported returns true if the error has already been printed to stderr.
func IsReported(err error) bool {
	var re reportedError
	return errors.As(err, &re)
}

func upstreamf(format string, args ...any) error {
	return wrapCategory(CategoryUpstream, fmt.Errorf(format, args...))
}
