// Package grouper discovers the packages of a Turborepo workspace and groups
// the buildable ones by their build classification.
package grouper

import (
	"context"

	"github.com/jakoblorz/turbo-projects/internal/fetchcache"
	"github.com/jakoblorz/turbo-projects/internal/filesystem"
	"github.com/jakoblorz/turbo-projects/internal/manifest"
	"github.com/jakoblorz/turbo-projects/internal/models"
	"github.com/jakoblorz/turbo-projects/internal/turbo"
)

// Logger receives progress and diagnostic messages.
type Logger interface {
	Info(format string, args ...any)
	Warning(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)    {}
func (nopLogger) Warning(string, ...any) {}

// Grouper runs the discovery pipeline for one workspace.
type Grouper struct {
	fs       filesystem.FileSystem
	runner   turbo.Runner
	rootPath string
	tool     string
	logger   Logger

	store         fetchcache.Store
	artifactPaths []string
}

// Option configures a Grouper.
type Option func(*Grouper)

// WithTool overrides the discovery tool package name.
func WithTool(tool string) Option {
	return func(g *Grouper) {
		g.tool = tool
	}
}

// WithLogger sets the logger receiving progress messages.
func WithLogger(logger Logger) Option {
	return func(g *Grouper) {
		g.logger = logger
	}
}

// WithCache enables warming the tool download cache from store.
// Without artifact paths the runner's default download cache is used.
func WithCache(store fetchcache.Store, artifactPaths ...string) Option {
	return func(g *Grouper) {
		g.store = store
		g.artifactPaths = artifactPaths
	}
}

// New creates a Grouper for the workspace at rootPath.
func New(fs filesystem.FileSystem, runner turbo.Runner, rootPath string, options ...Option) *Grouper {
	g := &Grouper{
		fs:       fs,
		runner:   runner,
		rootPath: rootPath,
		tool:     turbo.DefaultTool,
		logger:   nopLogger{},
	}

	for _, option := range options {
		option(g)
	}

	return g
}

// Run discovers the workspace packages and groups the buildable ones.
//
// Stages run in order and any failure ends the run: resolve the tool version,
// warm the download cache (never fails), list packages, read manifests.
// Packages without a manifest or without a build classification are left out.
func (g *Grouper) Run(ctx context.Context) (*models.GroupedResult, error) {
	version, err := manifest.ResolveToolVersion(g.fs, g.rootPath, g.tool)
	if err != nil {
		return nil, err
	}
	if version == "" {
		return nil, turbo.ErrToolNotInstalled
	}
	g.logger.Info("Using %s@%s", g.tool, version)

	scanner := turbo.NewScanner(g.runner, g.rootPath, g.tool)

	if g.store != nil {
		g.warmer(scanner).Warm(ctx, version)
	}

	packages, err := scanner.Scan(ctx, version.String())
	if err != nil {
		return nil, err
	}
	g.logger.Info("Found %d package(s) in workspace", len(packages))

	reader := manifest.NewReader(g.fs, g.rootPath)
	result := models.NewGroupedResult()

	for _, pkg := range packages {
		info, err := reader.ReadPackage(pkg)
		if err != nil {
			return nil, err
		}
		if info == nil {
			g.logger.Info("Skipping %s: no %s at %s", pkg.Name, manifest.DefaultFilename, reader.ManifestPath(pkg.Path))
			continue
		}
		if !info.IsBuildable() {
			continue
		}

		result.Add(info)
	}

	return result, nil
}

func (g *Grouper) warmer(scanner *turbo.Scanner) *fetchcache.Warmer {
	var options []fetchcache.WarmerOption
	if len(g.artifactPaths) > 0 {
		options = append(options, fetchcache.WithArtifactPaths(g.artifactPaths...))
	}
	return fetchcache.NewWarmer(g.store, scanner, g.logger, g.tool, options...)
}
