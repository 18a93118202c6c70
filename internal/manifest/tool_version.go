package manifest

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/turbo-projects/internal/filesystem"
	"golang.org/x/mod/semver"
)

// ToolVersion is a version specifier of a dependency as declared in package.json,
// e.g. "2.1.3" or "^2.0.0".
type ToolVersion string

// String returns the specifier as declared.
func (v ToolVersion) String() string {
	return string(v)
}

// Pinned reports whether the specifier names one exact semantic version
// rather than a range or dist-tag.
func (v ToolVersion) Pinned() bool {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return false
	}
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	// semver.IsValid accepts shorthands like v2 and v2.1 which npm treats as ranges
	return semver.IsValid(s) && semver.Canonical(s) == strings.SplitN(s, "+", 2)[0]
}

// dependencySections are searched in order for the tool entry.
var dependencySections = []string{"devDependencies", "dependencies"}

// ResolveToolVersion returns the version of tool declared by the root manifest
// of the workspace at rootPath.
//
// An empty version with a nil error means the root manifest does not exist or
// does not declare the tool.
func ResolveToolVersion(fs filesystem.FileSystem, rootPath, tool string) (ToolVersion, error) {
	path := filepath.Join(rootPath, DefaultFilename)

	doc, found, err := readDocument(fs, path)
	if err != nil {
		return "", &RootReadError{Path: path, Err: err}
	}
	if !found {
		return "", nil
	}

	for _, section := range dependencySections {
		raw, ok := doc[section]
		if !ok {
			continue
		}

		var deps map[string]json.RawMessage
		if err := json.Unmarshal(raw, &deps); err != nil {
			continue
		}

		if version := stringField(deps, tool); version != "" {
			return ToolVersion(version), nil
		}
	}

	return "", nil
}
