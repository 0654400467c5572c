// Package mode resolves command line options into exactly one sync mode.
package mode

import (
	"fmt"
	"strconv"

	customerrors "github.com/boatyardx/bitnami-helm-repo/pkg/errors"
)

// Kind identifies one of the three mutually exclusive sync modes
type Kind int

const (
	// All mirrors every chart in the upstream repository
	All Kind = iota
	// Latest mirrors the N most recently updated charts
	Latest
	// Specific mirrors a single chart version named on the command line
	Specific
)

func (k Kind) String() string {
	switch k {
	case All:
		return "all"
	case Latest:
		return "latest"
	case Specific:
		return "specific"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// Options holds the raw mode-related command line input before validation
type Options struct {
	All     bool   // --all
	Latest  string // --latest raw argument, empty when absent
	Chart   string // --chart
	Version string // --version
}

// Mode is the resolved sync mode for one run
type Mode struct {
	Kind    Kind
	Count   int    // Latest only
	Chart   string // Specific only
	Version string // Specific only
}

// Resolve validates the raw options and produces exactly one Mode.
// No options selects All. Conflicting or incomplete options yield a
// UsageError before any external call is made.
func Resolve(opts Options) (Mode, error) {
	specific := opts.Chart != "" || opts.Version != ""

	selected := 0
	if opts.All {
		selected++
	}
	if opts.Latest != "" {
		selected++
	}
	if specific {
		selected++
	}
	if selected > 1 {
		return Mode{}, customerrors.NewUsageError("", "--all, --latest and --chart/--version are mutually exclusive")
	}

	switch {
	case opts.Latest != "":
		count, err := strconv.Atoi(opts.Latest)
		if err != nil || count < 0 {
			return Mode{}, customerrors.NewUsageError("--latest", fmt.Sprintf("count %q must be a non-negative integer", opts.Latest))
		}
		return Mode{Kind: Latest, Count: count}, nil
	case specific:
		if opts.Chart == "" {
			return Mode{}, customerrors.NewUsageError("--version", "--version requires --chart")
		}
		if opts.Version == "" {
			return Mode{}, customerrors.NewUsageError("--chart", "--chart requires --version")
		}
		return Mode{Kind: Specific, Chart: opts.Chart, Version: opts.Version}, nil
	default:
		return Mode{Kind: All}, nil
	}
}
