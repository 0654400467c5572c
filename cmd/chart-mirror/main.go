package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"helm.sh/helm/v3/pkg/cli"

	"github.com/boatyardx/bitnami-helm-repo/internal/config"
	"github.com/boatyardx/bitnami-helm-repo/internal/discovery"
	"github.com/boatyardx/bitnami-helm-repo/internal/git"
	"github.com/boatyardx/bitnami-helm-repo/internal/helm"
	"github.com/boatyardx/bitnami-helm-repo/internal/metrics"
	"github.com/boatyardx/bitnami-helm-repo/internal/mode"
	syncengine "github.com/boatyardx/bitnami-helm-repo/internal/sync"
	customerrors "github.com/boatyardx/bitnami-helm-repo/pkg/errors"
)

// Flags holds the raw command line input before it is merged into the
// configuration and resolved into a sync mode
type Flags struct {
	ConfigFile string
	Debug      bool

	// Mode selection
	All     bool
	Latest  string
	Chart   string
	Version string

	// Configuration overrides
	WorkDir     string
	UpstreamURL string
	PublishURL  string
	Interval    time.Duration
	MetricsPort int
}

// Application represents the main application instance
type Application struct {
	config  *config.Config
	mode    mode.Mode
	logger  *zap.Logger
	engine  *syncengine.Engine
	metrics *metrics.Server
}

func main() {
	flags := parseFlags()

	m, err := mode.Resolve(mode.Options{
		All:     flags.All,
		Latest:  flags.Latest,
		Chart:   flags.Chart,
		Version: flags.Version,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := buildConfig(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	app, err := NewApplication(cfg, m, flags.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer app.Cleanup()

	if err := app.Run(); err != nil {
		app.logger.Error("Sync failed", zap.Error(err))
		os.Exit(1)
	}
}

// NewApplication creates and initializes a new application instance
func NewApplication(cfg *config.Config, m mode.Mode, debug bool) (*Application, error) {
	logger, err := initLogger(debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	settings := cli.New()
	settings.Debug = debug

	helmClient := helm.NewClient(settings, cfg.Upstream.Name, cfg.Upstream.URL, logger)

	gitClient, err := git.NewShellClient(cfg.Publish.WorkDir, logger)
	if err != nil {
		return nil, err
	}

	// The discovery client is only needed by latest mode; constructing it
	// here makes a missing endpoint fail before any network call.
	var discoverer syncengine.Discoverer
	if m.Kind == mode.Latest {
		client, err := discovery.NewClient(cfg.Discovery.URL, cfg.Discovery.Org, logger)
		if err != nil {
			return nil, err
		}
		discoverer = client
	}

	app := &Application{
		config: cfg,
		mode:   m,
		logger: logger,
		engine: syncengine.NewEngine(cfg, helmClient, discoverer, gitClient, logger),
	}
	if cfg.Daemon.Interval > 0 {
		app.metrics = metrics.NewServer(cfg.Daemon.MetricsPort, logger)
	}
	return app, nil
}

// Run executes the sync, either once or on an interval until signalled
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if a.config.Daemon.Interval == 0 {
		_, err := a.engine.Run(ctx, a.mode)
		return err
	}

	return a.runDaemon(ctx)
}

// runDaemon syncs on a ticker. Individual run failures are logged and
// retried on the next tick; only shutdown ends the loop.
func (a *Application) runDaemon(ctx context.Context) error {
	a.logger.Info("Starting scheduled mirroring",
		zap.Duration("interval", a.config.Daemon.Interval),
		zap.Int("metrics_port", a.config.Daemon.MetricsPort))

	if err := a.metrics.Start(ctx); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	runOnce := func() {
		result, err := a.engine.Run(ctx, a.mode)
		a.metrics.RecordRun(result, err)
		if err != nil {
			a.logger.Error("Sync failed, will retry on next tick", zap.Error(err))
		}
	}

	runOnce()

	ticker := time.NewTicker(a.config.Daemon.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return a.shutdown()
		case <-ticker.C:
			runOnce()
		}
	}
}

// Cleanup performs cleanup operations
func (a *Application) Cleanup() {
	if a.logger != nil {
		a.logger.Sync()
	}
}

func (a *Application) shutdown() error {
	a.logger.Info("Initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.metrics != nil {
		if err := a.metrics.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Failed to shutdown metrics server", zap.Error(err))
		}
	}

	a.logger.Info("Shutdown completed")
	return nil
}

// buildConfig loads the optional config file and applies flag overrides
func buildConfig(flags *Flags) (*config.Config, error) {
	cfg := config.New()
	if flags.ConfigFile != "" {
		loaded, err := config.Load(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.WorkDir != "" {
		cfg.Publish.WorkDir = flags.WorkDir
	}
	if flags.UpstreamURL != "" {
		cfg.Upstream.URL = flags.UpstreamURL
	}
	if flags.PublishURL != "" {
		cfg.Publish.BaseURL = flags.PublishURL
	}
	if flags.Interval > 0 {
		cfg.Daemon.Interval = flags.Interval
	}
	if flags.MetricsPort > 0 {
		cfg.Daemon.MetricsPort = flags.MetricsPort
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.StacktraceKey = "stacktrace"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "level"

	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.Development = true
	}

	return config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(
			zap.String("service", "chart-mirror"),
			zap.String("version", "1.0.0"),
		),
	)
}

func parseFlags() *Flags {
	flags := &Flags{}

	flag.StringVar(&flags.ConfigFile, "config", "", "Path to configuration file")
	flag.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")

	flag.BoolVar(&flags.All, "all", false, "Mirror every chart in the upstream repository")
	flag.StringVar(&flags.Latest, "latest", "", "Mirror the N most recently updated charts")
	flag.StringVar(&flags.Chart, "chart", "", "Mirror a single chart (requires -version)")
	flag.StringVar(&flags.Version, "version", "", "Chart version to mirror (requires -chart)")

	flag.StringVar(&flags.WorkDir, "workdir", "", "Local directory holding the mirrored archives")
	flag.StringVar(&flags.UpstreamURL, "repo-url", "", "Upstream Helm repository URL")
	flag.StringVar(&flags.PublishURL, "publish-url", "", "Base URL stamped into the regenerated index")
	flag.DurationVar(&flags.Interval, "interval", 0, "Run continuously, syncing at this interval (0 runs once)")
	flag.IntVar(&flags.MetricsPort, "metrics-port", 0, "Metrics server port (daemon mode)")

	flag.Usage = usage
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		fmt.Fprintln(os.Stderr, customerrors.NewUsageError("", fmt.Sprintf("unexpected argument %q", args[0])))
		flag.Usage()
		os.Exit(2)
	}

	return flags
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `chart-mirror mirrors charts from an upstream Helm repository into a
git-published local repository.

Sync modes (mutually exclusive, default -all):
  -all                 mirror every upstream chart
  -latest N            mirror the N most recently updated charts
  -chart X -version V  mirror one exact chart version

Options:
`)
	flag.PrintDefaults()
}
