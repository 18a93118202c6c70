package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/jakoblorz/turbo-projects/internal/filesystem"
	"github.com/jakoblorz/turbo-projects/internal/models"
)

// DefaultFilename is the manifest file name of every package.
const DefaultFilename = "package.json"

// Reader loads package manifests relative to a workspace root.
type Reader struct {
	fs       filesystem.FileSystem
	rootPath string
	filename string
}

// Option configures a Reader.
type Option func(*Reader)

// WithFilename overrides the manifest file name.
func WithFilename(name string) Option {
	return func(r *Reader) {
		r.filename = name
	}
}

// NewReader creates a Reader for the workspace at rootPath.
func NewReader(fs filesystem.FileSystem, rootPath string, options ...Option) *Reader {
	r := &Reader{
		fs:       fs,
		rootPath: rootPath,
		filename: DefaultFilename,
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// ManifestPath returns the manifest location of the package at dir.
// Relative directories are resolved against the workspace root.
func (r *Reader) ManifestPath(dir string) string {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.rootPath, dir)
	}
	return filepath.Join(dir, r.filename)
}

// Read loads the manifest of the package at dir.
//
// A missing manifest is not an error: Read returns nil, nil and the caller
// decides how to report it. The returned project keeps dir as its Path.
func (r *Reader) Read(dir string) (*models.ProjectInfo, error) {
	path := r.ManifestPath(dir)

	doc, found, err := readDocument(r.fs, path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if !found {
		return nil, nil
	}

	info := models.NewProjectInfo(dir)
	info.Name = stringField(doc, "name")
	info.Version = stringField(doc, "version")
	if info.Name != "" {
		info.Identifier = NormalizeIdentifier(info.Name)
	}

	build, err := models.ParseBuildClassification(doc["build"])
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	info.Build = build

	return info, nil
}

// ReadPackage loads the manifest of a listed workspace package.
// A manifest without a name takes the name the tool listed the package under.
func (r *Reader) ReadPackage(pkg models.WorkspacePackage) (*models.ProjectInfo, error) {
	info, err := r.Read(pkg.Path)
	if err != nil || info == nil {
		return info, err
	}

	if info.Name == "" && pkg.Name != "" {
		info.Name = pkg.Name
		info.Identifier = NormalizeIdentifier(pkg.Name)
	}

	return info, nil
}

// document is a manifest decoded one level deep; field values stay raw.
type document map[string]json.RawMessage

// readDocument reads and decodes a manifest. found is false when the file does not exist.
func readDocument(fsys filesystem.FileSystem, path string) (doc document, found bool, err error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, true, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, true, err
	}
	if doc == nil {
		// a literal null document
		doc = document{}
	}

	return doc, true, nil
}

// stringField returns the field as a string, or "" if it is missing or not a string.
func stringField(doc document, key string) string {
	raw, ok := doc[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
