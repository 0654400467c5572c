// Package sync orchestrates one mirror run: enumerate targets for the
// resolved mode, fetch missing archives, regenerate the index and publish.
package sync

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/boatyardx/bitnami-helm-repo/internal/config"
	"github.com/boatyardx/bitnami-helm-repo/internal/git"
	"github.com/boatyardx/bitnami-helm-repo/internal/helm"
	"github.com/boatyardx/bitnami-helm-repo/internal/mode"
	customerrors "github.com/boatyardx/bitnami-helm-repo/pkg/errors"
)

// NewEngine creates a sync engine. discovery may be nil when latest mode is
// not in use.
func NewEngine(cfg *config.Config, repo ChartRepo, discovery Discoverer, publisher git.Client, logger *zap.Logger) *Engine {
	return &Engine{
		cfg:       cfg,
		repo:      repo,
		discovery: discovery,
		publisher: publisher,
		logger:    logger,
	}
}

// Run executes one complete sync: enumerate, fetch missing, reindex,
// publish. Every phase is sequential and fail-fast; the recovery strategy
// for any failure is re-invocation, which is cheap because fetched archives
// are never re-downloaded.
func (e *Engine) Run(ctx context.Context, m mode.Mode) (*Result, error) {
	start := time.Now()
	e.logger.Info("starting sync",
		zap.String("mode", m.Kind.String()),
		zap.String("work_dir", e.cfg.Publish.WorkDir))

	result := &Result{}

	targets, err := e.enumerate(ctx, m, result)
	if err != nil {
		return nil, err
	}
	result.Targets = len(targets)

	if err := e.fetchMissing(ctx, targets, result); err != nil {
		return nil, err
	}

	if err := e.repo.WriteIndex(e.cfg.Publish.WorkDir, e.cfg.Publish.BaseURL); err != nil {
		return nil, err
	}

	if err := e.publish(ctx, result); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	e.logger.Info("sync completed",
		zap.Int("targets", result.Targets),
		zap.Int("fetched", len(result.Fetched)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("warned", len(result.Warned)),
		zap.Bool("published", result.Published),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// enumerate translates the mode into the ordered target list. An empty
// top-level chart list is fatal; a chart with no usable versions is a
// warning and the chart is skipped.
func (e *Engine) enumerate(ctx context.Context, m mode.Mode, result *Result) ([]Target, error) {
	if m.Kind == mode.Specific {
		return []Target{{Chart: m.Chart, Version: m.Version}}, nil
	}

	var names []string
	switch m.Kind {
	case mode.All:
		if err := e.repo.Refresh(); err != nil {
			return nil, err
		}
		names = e.repo.ChartNames()
		if len(names) == 0 {
			return nil, customerrors.NewEnumerationError(e.cfg.Upstream.Name, nil)
		}
	case mode.Latest:
		if e.discovery == nil {
			return nil, customerrors.NewDependencyError("discovery API",
				"set discovery.url in the configuration to enable --latest", nil)
		}
		recent, err := e.discovery.RecentCharts(ctx, m.Count)
		if err != nil {
			return nil, err
		}
		if len(recent) == 0 {
			return nil, customerrors.NewEnumerationError(e.cfg.Discovery.URL, nil)
		}
		if err := e.repo.Refresh(); err != nil {
			return nil, err
		}
		names = recent
	}

	targets := make([]Target, 0, len(names)*e.cfg.Sync.VersionsPerChart)
	for _, name := range names {
		versions := e.repo.Versions(name, e.cfg.Sync.VersionsPerChart)
		if len(versions) == 0 {
			e.logger.Warn("chart has no usable versions, skipping",
				zap.String("chart", name))
			result.Warned = append(result.Warned, name)
			continue
		}
		for _, version := range versions {
			targets = append(targets, Target{Chart: name, Version: version})
		}
	}

	return targets, nil
}

// fetchMissing ensures a local archive exists for every target. Present
// archives are skipped; any download failure aborts the run. Cancellation
// stops new fetches between targets.
func (e *Engine) fetchMissing(ctx context.Context, targets []Target, result *Result) error {
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		dest := filepath.Join(e.cfg.Publish.WorkDir, helm.ArchiveName(target.Chart, target.Version))
		if _, err := os.Stat(dest); err == nil {
			e.logger.Debug("archive already present, skipping",
				zap.String("chart", target.Chart),
				zap.String("version", target.Version))
			result.Skipped = append(result.Skipped, target)
			continue
		}

		if _, err := e.repo.Fetch(target.Chart, target.Version, e.cfg.Publish.WorkDir); err != nil {
			return err
		}
		result.Fetched = append(result.Fetched, target)
	}
	return nil
}

// publish stages the working directory and commits and pushes only when the
// tree actually changed. A clean tree is a successful no-op.
func (e *Engine) publish(ctx context.Context, result *Result) error {
	if err := e.publisher.AddAll(ctx); err != nil {
		return err
	}

	changed, err := e.publisher.HasChanges(ctx)
	if err != nil {
		return err
	}
	if !changed {
		e.logger.Info("mirror already up to date, nothing to publish")
		return nil
	}

	if err := e.publisher.Commit(ctx, e.cfg.Publish.CommitMessage); err != nil {
		return err
	}
	if err := e.publisher.Push(ctx, e.cfg.Publish.Remote, e.cfg.Publish.Branch); err != nil {
		return err
	}

	result.Published = true
	return nil
}
