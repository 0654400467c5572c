// Package config holds the mirror configuration, loadable from an optional
// YAML file with flag overrides applied by the caller.
package config

import (
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	customerrors "github.com/boatyardx/bitnami-helm-repo/pkg/errors"
)

// Config represents the complete chart-mirror configuration
type Config struct {
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Publish   PublishConfig   `yaml:"publish"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Sync      SyncConfig      `yaml:"sync"`
	Daemon    DaemonConfig    `yaml:"daemon"`
}

// UpstreamConfig identifies the Helm repository being mirrored
type UpstreamConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// PublishConfig configures the mirror output and its git publication
type PublishConfig struct {
	// BaseURL is stamped into the regenerated index so chart URLs
	// resolve against the published static pages.
	BaseURL       string `yaml:"base_url"`
	WorkDir       string `yaml:"work_dir"`
	Remote        string `yaml:"remote"`
	Branch        string `yaml:"branch"`
	CommitMessage string `yaml:"commit_message"`
}

// DiscoveryConfig configures the package discovery API used by latest mode
type DiscoveryConfig struct {
	URL string `yaml:"url"`
	Org string `yaml:"org"`
}

// SyncConfig configures sync behavior
type SyncConfig struct {
	VersionsPerChart int `yaml:"versions_per_chart"`
}

// DaemonConfig configures the optional long-running mode
type DaemonConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MetricsPort int           `yaml:"metrics_port"`
}

// UnmarshalYAML accepts durations in time.ParseDuration notation ("1h30m")
func (d *DaemonConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Interval    string `yaml:"interval"`
		MetricsPort int    `yaml:"metrics_port"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Interval != "" {
		interval, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return err
		}
		d.Interval = interval
	}
	d.MetricsPort = raw.MetricsPort
	return nil
}

// Default configuration values
const (
	DefaultUpstreamName     = "bitnami"
	DefaultUpstreamURL      = "https://charts.bitnami.com/bitnami"
	DefaultPublishBaseURL   = "https://boatyardx.github.io/bitnami-helm-repo"
	DefaultDiscoveryURL     = "https://artifacthub.io/api/v1/packages/search"
	DefaultRemote           = "origin"
	DefaultBranch           = "main"
	DefaultCommitMessage    = "Sync charts from upstream"
	DefaultVersionsPerChart = 10
	DefaultMetricsPort      = 2112
)

// New returns a Config populated with defaults
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file, applying defaults for
// anything the file leaves unset
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, customerrors.NewConfigError("config", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, customerrors.NewConfigError("config", path, err)
	}

	cfg.expandEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values no run could proceed with
func (c *Config) Validate() error {
	if c.Upstream.Name == "" {
		return customerrors.NewConfigError("upstream.name", c.Upstream.Name, errEmpty)
	}
	if _, err := url.ParseRequestURI(c.Upstream.URL); err != nil {
		return customerrors.NewConfigError("upstream.url", c.Upstream.URL, err)
	}
	if _, err := url.ParseRequestURI(c.Publish.BaseURL); err != nil {
		return customerrors.NewConfigError("publish.base_url", c.Publish.BaseURL, err)
	}
	if c.Sync.VersionsPerChart < 1 {
		return customerrors.NewConfigError("sync.versions_per_chart", c.Sync.VersionsPerChart, errNotPositive)
	}
	if c.Daemon.Interval < 0 {
		return customerrors.NewConfigError("daemon.interval", c.Daemon.Interval, errNegative)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Upstream.Name == "" {
		c.Upstream.Name = DefaultUpstreamName
	}
	if c.Upstream.URL == "" {
		c.Upstream.URL = DefaultUpstreamURL
	}
	if c.Publish.BaseURL == "" {
		c.Publish.BaseURL = DefaultPublishBaseURL
	}
	if c.Publish.WorkDir == "" {
		c.Publish.WorkDir = "."
	}
	if c.Publish.Remote == "" {
		c.Publish.Remote = DefaultRemote
	}
	if c.Publish.Branch == "" {
		c.Publish.Branch = DefaultBranch
	}
	if c.Publish.CommitMessage == "" {
		c.Publish.CommitMessage = DefaultCommitMessage
	}
	if c.Discovery.URL == "" {
		c.Discovery.URL = DefaultDiscoveryURL
	}
	if c.Discovery.Org == "" {
		c.Discovery.Org = c.Upstream.Name
	}
	if c.Sync.VersionsPerChart == 0 {
		c.Sync.VersionsPerChart = DefaultVersionsPerChart
	}
	if c.Daemon.MetricsPort == 0 {
		c.Daemon.MetricsPort = DefaultMetricsPort
	}
}

func (c *Config) expandEnv() {
	c.Upstream.Name = os.ExpandEnv(c.Upstream.Name)
	c.Upstream.URL = os.ExpandEnv(c.Upstream.URL)
	c.Publish.BaseURL = os.ExpandEnv(c.Publish.BaseURL)
	c.Publish.WorkDir = os.ExpandEnv(c.Publish.WorkDir)
	c.Publish.Remote = os.ExpandEnv(c.Publish.Remote)
	c.Publish.Branch = os.ExpandEnv(c.Publish.Branch)
	c.Discovery.URL = os.ExpandEnv(c.Discovery.URL)
	c.Discovery.Org = os.ExpandEnv(c.Discovery.Org)
}

var (
	errEmpty       = errString("must not be empty")
	errNotPositive = errString("must be a positive integer")
	errNegative    = errString("must not be negative")
)

type errString string

func (e errString) Error() string { return string(e) }
