package errors

import (
	"errors"
	"fmt"
)

// Common error checks
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// IsUsageError checks if the error is a UsageError
func IsUsageError(err error) bool {
	var usageErr *UsageError
	return As(err, &usageErr)
}

// IsDependencyError checks if the error is a DependencyError
func IsDependencyError(err error) bool {
	var depErr *DependencyError
	return As(err, &depErr)
}

// IsEnumerationError checks if the error is an EnumerationError
func IsEnumerationError(err error) bool {
	var enumErr *EnumerationError
	return As(err, &enumErr)
}

// IsFetchError checks if the error is a FetchError
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return As(err, &fetchErr)
}

// IsGitError checks if the error is a GitError
func IsGitError(err error) bool {
	var gitErr *GitError
	return As(err, &gitErr)
}

// IsConfigError checks if the error is a ConfigError
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return As(err, &configErr)
}

// Error creation helpers

// NewUsageError creates a new UsageError
func NewUsageError(flag string, message string) error {
	return &UsageError{
		Flag:    flag,
		Message: message,
	}
}

// NewDependencyError creates a new DependencyError with install guidance
func NewDependencyError(dependency string, guidance string, err error) error {
	return &DependencyError{
		Dependency: dependency,
		Guidance:   guidance,
		Err:        err,
	}
}

// NewEnumerationError creates a new EnumerationError
func NewEnumerationError(source string, err error) error {
	return &EnumerationError{
		Source: source,
		Err:    err,
	}
}

// NewFetchError creates a new FetchError
func NewFetchError(chart string, version string, err error) error {
	return &FetchError{
		Chart:   chart,
		Version: version,
		Err:     err,
	}
}

// NewGitError creates a new GitError
func NewGitError(op string, err error) error {
	return &GitError{
		Op:  op,
		Err: err,
	}
}

// NewConfigError creates a new ConfigError
func NewConfigError(parameter string, value interface{}, err error) error {
	return &ConfigError{
		Parameter: parameter,
		Value:     value,
		Err:       err,
	}
}

// Error wrapping helpers

// WrapFetchError wraps an existing error with fetch context
func WrapFetchError(err error, chart string, version string) error {
	if err == nil {
		return nil
	}
	return &FetchError{
		Chart:   chart,
		Version: version,
		Err:     err,
	}
}

// WrapGitError wraps an existing error with git context
func WrapGitError(err error, op string) error {
	if err == nil {
		return nil
	}
	return &GitError{
		Op:  op,
		Err: err,
	}
}

// ErrorContextf adds context to an error
func ErrorContextf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
