package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/boatyardx/bitnami-helm-repo/internal/config"
	"github.com/boatyardx/bitnami-helm-repo/internal/git"
)

// ChartRepo abstracts the upstream Helm repository operations the engine
// delegates: index refresh, enumeration, archive download and reindexing.
type ChartRepo interface {
	// Refresh downloads the upstream index for subsequent enumeration
	Refresh() error
	// ChartNames lists every chart in the refreshed index
	ChartNames() []string
	// Versions lists up to limit versions of a chart, newest first
	Versions(chart string, limit int) []string
	// Fetch downloads one chart archive into destDir
	Fetch(chart, version, destDir string) (string, error)
	// WriteIndex regenerates the repository index from the archives in dir
	WriteIndex(dir, baseURL string) error
}

// Discoverer lists an organization's most recently updated charts
type Discoverer interface {
	RecentCharts(ctx context.Context, limit int) ([]string, error)
}

// Engine is the mirror sync controller: it turns one resolved mode into
// fetches, a regenerated index and a conditional commit/push.
type Engine struct {
	cfg       *config.Config
	repo      ChartRepo
	discovery Discoverer
	publisher git.Client
	logger    *zap.Logger
}

// Target is one (chart, version) pair the run must ensure exists locally
type Target struct {
	Chart   string `json:"chart"`
	Version string `json:"version"`
}

// Result summarizes one completed sync run
type Result struct {
	Targets   int           `json:"targets"`
	Fetched   []Target      `json:"fetched"`
	Skipped   []Target      `json:"skipped"`
	Warned    []string      `json:"warned"`
	Published bool          `json:"published"`
	Duration  time.Duration `json:"duration"`
}
