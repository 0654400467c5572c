package helm

import (
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/getter"
	"helm.sh/helm/v3/pkg/repo"

	customerrors "github.com/boatyardx/bitnami-helm-repo/pkg/errors"
)

// NewClient creates a client for one upstream chart repository
func NewClient(settings *cli.EnvSettings, name, repoURL string, logger *zap.Logger) *Client {
	return &Client{
		settings: settings,
		upstream: &repo.Entry{Name: name, URL: repoURL},
		logger:   logger,
	}
}

// Refresh downloads the upstream repository index and keeps it loaded for
// chart and version enumeration. The repo update equivalent of a mirror run.
func (c *Client) Refresh() error {
	start := time.Now()
	c.logger.Debug("refreshing upstream index",
		zap.String("repo", c.upstream.Name),
		zap.String("url", c.upstream.URL))

	r, err := repo.NewChartRepository(c.upstream, getter.All(c.settings))
	if err != nil {
		return customerrors.NewEnumerationError(c.upstream.Name, err)
	}

	path, err := r.DownloadIndexFile()
	if err != nil {
		return customerrors.NewEnumerationError(c.upstream.Name, err)
	}

	index, err := repo.LoadIndexFile(path)
	if err != nil {
		return customerrors.NewEnumerationError(c.upstream.Name, err)
	}
	c.index = index

	c.logger.Debug("upstream index refreshed",
		zap.Int("charts", len(index.Entries)),
		zap.Duration("duration", time.Since(start)))

	return nil
}

// ChartNames returns every chart name in the loaded upstream index, sorted
// for deterministic runs. Refresh must have been called first.
func (c *Client) ChartNames() []string {
	if c.index == nil {
		return nil
	}

	names := make([]string, 0, len(c.index.Entries))
	for name := range c.index.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Versions returns up to limit versions of a chart, newest first. Entries
// that do not parse as semantic versions are skipped.
func (c *Client) Versions(chart string, limit int) []string {
	if c.index == nil {
		return nil
	}

	entries := c.index.Entries[chart]
	parsed := make([]*semver.Version, 0, len(entries))
	for _, entry := range entries {
		v, err := semver.NewVersion(entry.Version)
		if err != nil {
			c.logger.Warn("skipping unparseable chart version",
				zap.String("chart", chart),
				zap.String("version", entry.Version))
			continue
		}
		parsed = append(parsed, v)
	}

	sort.Slice(parsed, func(i, j int) bool {
		return parsed[i].GreaterThan(parsed[j])
	})

	if limit > 0 && len(parsed) > limit {
		parsed = parsed[:limit]
	}

	versions := make([]string, 0, len(parsed))
	for _, v := range parsed {
		versions = append(versions, v.Original())
	}
	return versions
}

// Fetch downloads one chart archive into destDir under its deterministic
// filename and returns the written path. No checksum verification and no
// retry; a failure here aborts the whole run.
func (c *Client) Fetch(chart, version, destDir string) (string, error) {
	archiveURL, err := repo.FindChartInRepoURL(c.upstream.URL, chart, version, "", "", "", getter.All(c.settings))
	if err != nil {
		return "", customerrors.NewFetchError(chart, version, err)
	}

	u, err := url.Parse(archiveURL)
	if err != nil {
		return "", customerrors.NewFetchError(chart, version, err)
	}

	g, err := getter.All(c.settings).ByScheme(u.Scheme)
	if err != nil {
		return "", customerrors.NewFetchError(chart, version, err)
	}

	c.logger.Info("fetching chart archive",
		zap.String("chart", chart),
		zap.String("version", version),
		zap.String("url", archiveURL))

	buf, err := g.Get(archiveURL)
	if err != nil {
		return "", customerrors.NewFetchError(chart, version, err)
	}

	dest := filepath.Join(destDir, ArchiveName(chart, version))
	if err := os.WriteFile(dest, buf.Bytes(), 0644); err != nil {
		return "", customerrors.NewFetchError(chart, version, err)
	}

	return dest, nil
}

// WriteIndex regenerates the repository index wholesale from the archives in
// dir, stamping entry URLs with baseURL. Apart from its generation timestamp
// the result is a pure function of the archive set and the base URL.
func (c *Client) WriteIndex(dir, baseURL string) error {
	start := time.Now()

	index, err := repo.IndexDirectory(dir, baseURL)
	if err != nil {
		return errors.Wrapf(err, "indexing %s", dir)
	}
	index.SortEntries()

	dest := filepath.Join(dir, IndexFileName)
	if err := index.WriteFile(dest, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", dest)
	}

	c.logger.Info("repository index regenerated",
		zap.String("path", dest),
		zap.Int("charts", len(index.Entries)),
		zap.Duration("duration", time.Since(start)))

	return nil
}
