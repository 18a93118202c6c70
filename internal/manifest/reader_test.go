package manifest

import (
	"errors"
	"testing"

	"github.com/jakoblorz/turbo-projects/internal/filesystem"
	"github.com/jakoblorz/turbo-projects/internal/models"
	"github.com/stretchr/testify/require"
)

func TestReader_Read(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/repo/apps/web/package.json", []byte(`{
  "name": "@acme/web",
  "version": "1.4.0",
  "build": ["docker", "npm"]
}`))

	info, err := NewReader(fs, "/repo").Read("apps/web")
	require.NoError(t, err)
	require.NotNil(t, info)

	require.Equal(t, "apps/web", info.Path)
	require.Equal(t, "@acme/web", info.Name)
	require.Equal(t, "1.4.0", info.Version)
	require.Equal(t, "acme-web", info.Identifier)
	require.Equal(t, models.BuildMany, info.Build.Kind())
	require.Equal(t, []string{"docker", "npm"}, info.Labels())
}

func TestReader_MissingManifest(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/repo/apps/empty")

	info, err := NewReader(fs, "/repo").Read("apps/empty")
	require.NoError(t, err)
	require.Nil(t, info)
}

func TestReader_MalformedManifest(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/repo/apps/broken/package.json", []byte(`{"name": `))

	_, err := NewReader(fs, "/repo").Read("apps/broken")
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, "/repo/apps/broken/package.json", parseErr.Path)
	require.Contains(t, err.Error(), "/repo/apps/broken/package.json")
}

func TestReader_NonObjectManifest(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/repo/a/package.json", []byte(`["not", "an", "object"]`))

	_, err := NewReader(fs, "/repo").Read("a")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestReader_OptionalFields(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/repo/a/package.json", []byte(`{"name": 42, "version": null}`))

	info, err := NewReader(fs, "/repo").Read("./a")
	require.NoError(t, err)
	require.NotNil(t, info)

	require.Equal(t, "./a", info.Path)
	require.Empty(t, info.Name)
	require.Empty(t, info.Version)
	require.Empty(t, info.Identifier)
	require.Nil(t, info.Build)
	require.False(t, info.IsBuildable())
}

func TestReader_AbsolutePackagePath(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/elsewhere/lib/package.json", []byte(`{"name": "lib", "build": "npm"}`))

	info, err := NewReader(fs, "/repo").Read("/elsewhere/lib")
	require.NoError(t, err)
	require.Equal(t, "/elsewhere/lib", info.Path)
	require.Equal(t, []string{"npm"}, info.Labels())
}

func TestReader_CustomFilename(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/repo/a/manifest.json", []byte(`{"name": "a", "build": "docker"}`))

	reader := NewReader(fs, "/repo", WithFilename("manifest.json"))
	require.Equal(t, "/repo/a/manifest.json", reader.ManifestPath("a"))

	info, err := reader.Read("a")
	require.NoError(t, err)
	require.Equal(t, []string{"docker"}, info.Labels())
}

func TestReader_ReadPackageFallsBackToListedName(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/repo/a/package.json", []byte(`{"build": "docker"}`))
	fs.AddFile("/repo/b/package.json", []byte(`{"name": "@x/declared", "build": "docker"}`))
	fs.AddFile("/repo/c/package.json", []byte(`{"name": 42}`))

	reader := NewReader(fs, "/repo")

	a, err := reader.ReadPackage(models.WorkspacePackage{Name: "@x/a", Path: "./a"})
	require.NoError(t, err)
	require.Equal(t, "./a", a.Path)
	require.Equal(t, "@x/a", a.Name)
	require.Equal(t, "x-a", a.Identifier)

	b, err := reader.ReadPackage(models.WorkspacePackage{Name: "listed", Path: "b"})
	require.NoError(t, err)
	require.Equal(t, "@x/declared", b.Name)
	require.Equal(t, "x-declared", b.Identifier)

	c, err := reader.ReadPackage(models.WorkspacePackage{Name: "c-pkg", Path: "c"})
	require.NoError(t, err)
	require.Equal(t, "c-pkg", c.Name)
	require.Equal(t, "c-pkg", c.Identifier)
}

func TestReader_ReadPackageMissingManifest(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/repo/ghost")

	info, err := NewReader(fs, "/repo").ReadPackage(models.WorkspacePackage{Name: "ghost", Path: "ghost"})
	require.NoError(t, err)
	require.Nil(t, info)
}
