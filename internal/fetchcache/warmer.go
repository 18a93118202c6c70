package fetchcache

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jakoblorz/turbo-projects/internal/manifest"
)

// Prober fetches a tool version by running it once.
type Prober interface {
	Probe(ctx context.Context, version string) error
}

// Logger receives progress and warning messages.
type Logger interface {
	Info(format string, args ...any)
	Warning(format string, args ...any)
}

// Warmer restores the runner's download cache before the tool runs, and
// populates and saves it when no snapshot exists yet.
//
// Warm never fails: every error is reported through the logger and the
// pipeline continues as if there were no cache.
type Warmer struct {
	store  Store
	prober Prober
	logger Logger
	tool   string
	paths  []string
	goos   string
	goarch string
}

// WarmerOption configures a Warmer.
type WarmerOption func(*Warmer)

// WithArtifactPaths sets the directories that hold the downloaded tool.
func WithArtifactPaths(paths ...string) WarmerOption {
	return func(w *Warmer) {
		w.paths = paths
	}
}

// WithPlatform overrides the platform part of the cache key.
func WithPlatform(goos, goarch string) WarmerOption {
	return func(w *Warmer) {
		w.goos = goos
		w.goarch = goarch
	}
}

// NewWarmer creates a Warmer for tool.
func NewWarmer(store Store, prober Prober, logger Logger, tool string, options ...WarmerOption) *Warmer {
	w := &Warmer{
		store:  store,
		prober: prober,
		logger: logger,
		tool:   tool,
		paths:  DefaultArtifactPaths(),
	}

	for _, option := range options {
		option(w)
	}

	return w
}

// DefaultArtifactPaths returns the npx download cache of the current user.
func DefaultArtifactPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".npm", "_npx")}
}

// Key returns the cache key used for version on the configured platform.
func (w *Warmer) Key(version manifest.ToolVersion) string {
	if w.goos != "" && w.goarch != "" {
		return Key(w.tool, version.String(), w.goos, w.goarch)
	}
	return HostKey(w.tool, version.String())
}

// Warm restores the cached tool download or fetches and saves it.
// It reports whether a snapshot was restored.
func (w *Warmer) Warm(ctx context.Context, version manifest.ToolVersion) bool {
	if len(w.paths) == 0 {
		w.logger.Warning("No artifact directory configured; skipping %s cache", w.tool)
		return false
	}

	key := w.Key(version)
	if !version.Pinned() {
		w.logger.Info("%s version %q is a range; cache key %s may hold an older release", w.tool, version, key)
	}

	hit, err := w.store.Restore(ctx, w.paths, key)
	if err != nil {
		w.logger.Warning("Failed to restore %s cache: %v", w.tool, err)
		hit = false
	}
	if hit {
		w.logger.Info("✓ Restored %s@%s from cache (%s)", w.tool, version, key)
		return true
	}

	w.logger.Info("No cache found for %s, fetching %s@%s", key, w.tool, version)
	if err := w.prober.Probe(ctx, version.String()); err != nil {
		w.logger.Warning("Failed to fetch %s@%s: %v", w.tool, version, err)
		return false
	}

	if err := w.store.Save(ctx, w.paths, key); err != nil {
		w.logger.Warning("Failed to save %s cache: %v", w.tool, err)
		return false
	}

	w.logger.Info("✓ Saved %s@%s to cache (%s)", w.tool, version, key)
	return false
}
