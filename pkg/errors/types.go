package errors

import (
	"fmt"
	"strings"
)

// Common error types
type (
	// UsageError reports malformed or conflicting command line input
	UsageError struct {
		Flag    string // Flag that caused the error, if any
		Message string // Human readable explanation
	}

	// DependencyError reports a missing or unconfigured external dependency
	DependencyError struct {
		Dependency string // Name of the missing tool or service
		Guidance   string // How to install or configure it
		Err        error  // Original error, if any
	}

	// EnumerationError reports an empty or failed top-level chart discovery
	EnumerationError struct {
		Source string // Upstream repo or discovery endpoint queried
		Err    error  // Original error, nil when the result was simply empty
	}

	// FetchError wraps a failed chart archive download
	FetchError struct {
		Chart   string // Chart name
		Version string // Chart version
		Err     error  // Original error
	}

	// GitError wraps a failed git operation
	GitError struct {
		Op  string // Git subcommand that failed
		Err error  // Original error
	}

	// ConfigError wraps configuration-related errors
	ConfigError struct {
		Parameter string      // Parameter that caused the error
		Value     interface{} // Invalid value
		Err       error       // Original error
	}
)

// Error implementations

func (e *UsageError) Error() string {
	var sb strings.Builder
	sb.WriteString("usage error")
	if e.Flag != "" {
		fmt.Fprintf(&sb, " for flag %q", e.Flag)
	}
	if e.Message != "" {
		fmt.Fprintf(&sb, ": %s", e.Message)
	}
	return sb.String()
}

func (e *DependencyError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "required dependency %q is not available", e.Dependency)
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	if e.Guidance != "" {
		fmt.Fprintf(&sb, " (%s)", e.Guidance)
	}
	return sb.String()
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

func (e *EnumerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("chart enumeration from %q failed: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("chart enumeration from %q returned no charts", e.Source)
}

func (e *EnumerationError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching chart %q version %q failed: %v", e.Chart, e.Version, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *GitError) Error() string {
	return fmt.Sprintf("git operation %q failed: %v", e.Op, e.Err)
}

func (e *GitError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for parameter %q with value %v: %v", e.Parameter, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
