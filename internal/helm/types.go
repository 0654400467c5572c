package helm

import (
	"fmt"

	"go.uber.org/zap"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/repo"
)

// Client mirrors charts from a single upstream Helm repository
type Client struct {
	settings *cli.EnvSettings
	upstream *repo.Entry
	logger   *zap.Logger

	// index is the upstream index loaded by Refresh, nil until then
	index *repo.IndexFile
}

// IndexFileName is the repository index written next to the chart archives
const IndexFileName = "index.yaml"

// ArchiveName returns the deterministic local filename for a chart version.
// Its presence in the working directory is the sole "already synced" signal.
func ArchiveName(chart, version string) string {
	return fmt.Sprintf("%s-%s.tgz", chart, version)
}
