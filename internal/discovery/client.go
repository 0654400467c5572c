// Package discovery queries a package discovery API (Artifact Hub) for the
// most recently updated charts of an organization.
package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	simplejson "github.com/bitly/go-simplejson"
	"go.uber.org/zap"

	customerrors "github.com/boatyardx/bitnami-helm-repo/pkg/errors"
)

// Helm chart kind in the Artifact Hub search API
const chartKind = 0

// Client queries the discovery API
type Client struct {
	baseURL string
	org     string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a discovery client. A missing base URL is reported as a
// dependency error so latest mode can fail fast before any network call.
func NewClient(baseURL, org string, logger *zap.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, customerrors.NewDependencyError("discovery API",
			"set discovery.url in the configuration to enable --latest", nil)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, customerrors.NewConfigError("discovery.url", baseURL, err)
	}
	return &Client{
		baseURL: baseURL,
		org:     org,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}, nil
}

// RecentCharts returns the names of the organization's most recently updated
// charts, newest first, at most limit entries.
func (c *Client) RecentCharts(ctx context.Context, limit int) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, customerrors.NewEnumerationError(c.baseURL, err)
	}

	q := req.URL.Query()
	q.Set("org", c.org)
	q.Set("kind", strconv.Itoa(chartKind))
	q.Set("sort", "updated")
	q.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()

	c.logger.Debug("querying discovery API",
		zap.String("url", req.URL.String()),
		zap.String("org", c.org),
		zap.Int("limit", limit))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, customerrors.NewEnumerationError(c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, customerrors.NewEnumerationError(c.baseURL,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, customerrors.NewEnumerationError(c.baseURL, err)
	}

	doc, err := simplejson.NewJson(body)
	if err != nil {
		return nil, customerrors.NewEnumerationError(c.baseURL, err)
	}

	packages, err := doc.Get("packages").Array()
	if err != nil {
		return nil, customerrors.NewEnumerationError(c.baseURL,
			fmt.Errorf("response has no packages array: %w", err))
	}

	names := make([]string, 0, len(packages))
	for i := range packages {
		name, err := doc.Get("packages").GetIndex(i).Get("name").String()
		if err != nil || name == "" {
			c.logger.Warn("discovery result without a name, skipping",
				zap.Int("index", i))
			continue
		}
		names = append(names, name)
	}

	c.logger.Debug("discovery API query completed",
		zap.Int("charts", len(names)))

	return names, nil
}
