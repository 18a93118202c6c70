package fetchcache

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	infos    []string
	warnings []string
}

func (l *recordingLogger) Info(format string, args ...any) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warning(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

type fakeProber struct {
	err      error
	versions []string
}

func (p *fakeProber) Probe(ctx context.Context, version string) error {
	p.versions = append(p.versions, version)
	return p.err
}

func newTestWarmer(store Store, prober Prober, logger Logger) *Warmer {
	return NewWarmer(store, prober, logger, "turbo",
		WithArtifactPaths("/home/ci/.npm/_npx"),
		WithPlatform("linux", "amd64"),
	)
}

func TestWarmer_Hit(t *testing.T) {
	store := NewMockStore()
	store.Put("turbo-2.0.0-linux-amd64", "/home/ci/.npm/_npx")
	prober := &fakeProber{}
	logger := &recordingLogger{}

	hit := newTestWarmer(store, prober, logger).Warm(context.Background(), "2.0.0")

	require.True(t, hit)
	require.Empty(t, prober.versions)
	require.Equal(t, 0, store.Saves)
	require.Empty(t, logger.warnings)
}

func TestWarmer_MissFetchesAndSaves(t *testing.T) {
	store := NewMockStore()
	prober := &fakeProber{}
	logger := &recordingLogger{}

	hit := newTestWarmer(store, prober, logger).Warm(context.Background(), "2.0.0")

	require.False(t, hit)
	require.Equal(t, []string{"2.0.0"}, prober.versions)
	require.True(t, store.Has("turbo-2.0.0-linux-amd64"))
	require.Empty(t, logger.warnings)
}

func TestWarmer_RestoreFailureFallsBackToFetch(t *testing.T) {
	store := NewMockStore()
	store.RestoreError = errors.New("cache service unavailable")
	prober := &fakeProber{}
	logger := &recordingLogger{}

	hit := newTestWarmer(store, prober, logger).Warm(context.Background(), "2.0.0")

	require.False(t, hit)
	require.Len(t, prober.versions, 1)
	require.Len(t, logger.warnings, 1)
	require.Contains(t, logger.warnings[0], "cache service unavailable")
}

func TestWarmer_ProbeFailureSkipsSave(t *testing.T) {
	store := NewMockStore()
	prober := &fakeProber{err: errors.New("offline")}
	logger := &recordingLogger{}

	hit := newTestWarmer(store, prober, logger).Warm(context.Background(), "2.0.0")

	require.False(t, hit)
	require.Equal(t, 0, store.Saves)
	require.Len(t, logger.warnings, 1)
	require.Contains(t, logger.warnings[0], "offline")
}

func TestWarmer_SaveFailureIsWarning(t *testing.T) {
	store := NewMockStore()
	store.SaveError = errors.New("quota exceeded")
	logger := &recordingLogger{}

	hit := newTestWarmer(store, &fakeProber{}, logger).Warm(context.Background(), "2.0.0")

	require.False(t, hit)
	require.Len(t, logger.warnings, 1)
	require.Contains(t, logger.warnings[0], "quota exceeded")
}

func TestWarmer_RangeVersionIsNoted(t *testing.T) {
	logger := &recordingLogger{}

	newTestWarmer(NewMockStore(), &fakeProber{}, logger).Warm(context.Background(), "^2.0.0")

	require.NotEmpty(t, logger.infos)
	require.Contains(t, logger.infos[0], "is a range")
}

func TestWarmer_NoArtifactPaths(t *testing.T) {
	store := NewMockStore()
	logger := &recordingLogger{}

	w := NewWarmer(store, &fakeProber{}, logger, "turbo", WithArtifactPaths())
	require.False(t, w.Warm(context.Background(), "2.0.0"))
	require.Equal(t, 0, store.Restores)
	require.Len(t, logger.warnings, 1)
}

func TestWarmer_Key(t *testing.T) {
	w := newTestWarmer(NewMockStore(), &fakeProber{}, &recordingLogger{})
	require.Equal(t, "turbo-2.0.0-linux-amd64", w.Key("2.0.0"))

	host := NewWarmer(NewMockStore(), &fakeProber{}, &recordingLogger{}, "turbo")
	require.Equal(t, HostKey("turbo", "2.0.0"), host.Key("2.0.0"))
}
