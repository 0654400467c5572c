package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageError(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		message string
		wantStr string
	}{
		{
			name:    "flag with message",
			flag:    "--latest",
			message: "count must be a non-negative integer",
			wantStr: `usage error for flag "--latest": count must be a non-negative integer`,
		},
		{
			name:    "message only",
			message: "--version requires --chart",
			wantStr: `usage error: --version requires --chart`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usageErr := NewUsageError(tt.flag, tt.message)

			assert.Equal(t, tt.wantStr, usageErr.Error())
			assert.True(t, IsUsageError(usageErr))
			assert.False(t, IsConfigError(usageErr))
		})
	}
}

func TestDependencyError(t *testing.T) {
	baseErr := errors.New("executable file not found in $PATH")

	tests := []struct {
		name       string
		dependency string
		guidance   string
		err        error
		wantStr    string
		wantBase   error
	}{
		{
			name:       "missing binary with guidance",
			dependency: "git",
			guidance:   "install git and make sure it is on your PATH",
			err:        baseErr,
			wantStr:    `required dependency "git" is not available: executable file not found in $PATH (install git and make sure it is on your PATH)`,
			wantBase:   baseErr,
		},
		{
			name:       "unconfigured service",
			dependency: "discovery API",
			guidance:   "set discovery.url in the configuration",
			wantStr:    `required dependency "discovery API" is not available (set discovery.url in the configuration)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			depErr := NewDependencyError(tt.dependency, tt.guidance, tt.err)

			assert.Equal(t, tt.wantStr, depErr.Error())
			assert.True(t, IsDependencyError(depErr))
			if tt.wantBase != nil {
				assert.True(t, errors.Is(depErr, tt.wantBase))
			}
		})
	}
}

func TestEnumerationError(t *testing.T) {
	baseErr := errors.New("connection refused")

	tests := []struct {
		name     string
		source   string
		err      error
		wantStr  string
		wantBase error
	}{
		{
			name:    "empty result",
			source:  "bitnami",
			wantStr: `chart enumeration from "bitnami" returned no charts`,
		},
		{
			name:     "failed query",
			source:   "https://artifacthub.io/api/v1/packages/search",
			err:      baseErr,
			wantStr:  `chart enumeration from "https://artifacthub.io/api/v1/packages/search" failed: connection refused`,
			wantBase: baseErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enumErr := NewEnumerationError(tt.source, tt.err)

			assert.Equal(t, tt.wantStr, enumErr.Error())
			assert.True(t, IsEnumerationError(enumErr))
			if tt.wantBase != nil {
				assert.True(t, errors.Is(enumErr, tt.wantBase))
			}
		})
	}
}

func TestFetchError(t *testing.T) {
	baseErr := errors.New("404 not found")

	fetchErr := NewFetchError("wordpress", "19.2.2", baseErr)

	assert.Equal(t, `fetching chart "wordpress" version "19.2.2" failed: 404 not found`, fetchErr.Error())
	assert.True(t, IsFetchError(fetchErr))
	assert.True(t, errors.Is(fetchErr, baseErr))
}

func TestGitError(t *testing.T) {
	baseErr := errors.New("exit status 128")

	gitErr := NewGitError("push", baseErr)

	assert.Equal(t, `git operation "push" failed: exit status 128`, gitErr.Error())
	assert.True(t, IsGitError(gitErr))
	assert.True(t, errors.Is(gitErr, baseErr))
}

func TestConfigError(t *testing.T) {
	baseErr := errors.New("base error")

	configErr := NewConfigError("versions-per-chart", -3, baseErr)

	assert.Equal(t, `configuration error for parameter "versions-per-chart" with value -3: base error`, configErr.Error())
	assert.True(t, IsConfigError(configErr))
	assert.True(t, errors.Is(configErr, baseErr))
}

func TestWrapHelpers(t *testing.T) {
	assert.Nil(t, WrapFetchError(nil, "wordpress", "1.0.0"))
	assert.Nil(t, WrapGitError(nil, "commit"))
	assert.Nil(t, ErrorContextf(nil, "loading %s", "index"))

	baseErr := errors.New("base error")

	wrapped := ErrorContextf(baseErr, "loading %s", "index")
	assert.Equal(t, "loading index: base error", wrapped.Error())
	assert.True(t, errors.Is(wrapped, baseErr))

	assert.True(t, IsFetchError(WrapFetchError(baseErr, "redis", "2.0.0")))
	assert.True(t, IsGitError(WrapGitError(baseErr, "add")))
}
