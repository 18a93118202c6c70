package models

// WorkspacePackage is one entry of the discovery tool's package listing.
type WorkspacePackage struct {
	// Name is the package name as reported by the tool
	Name string `json:"name"`

	// Path is the package directory, relative to the workspace root
	Path string `json:"path"`
}

// ProjectInfo represents a discovered package and the metadata read from its manifest.
type ProjectInfo struct {
	// Path is the package directory exactly as reported at discovery time
	Path string `json:"path"`

	// Name is the manifest "name" field (empty when absent)
	Name string `json:"name,omitempty"`

	// Version is the manifest "version" field (empty when absent)
	Version string `json:"version,omitempty"`

	// Identifier is the canonical form of Name (empty when Name is absent)
	Identifier string `json:"identifier,omitempty"`

	// Build is the manifest "build" field; nil means the package is not buildable
	Build *BuildClassification `json:"build,omitempty"`
}

// NewProjectInfo creates a ProjectInfo for the package at path.
func NewProjectInfo(path string) *ProjectInfo {
	return &ProjectInfo{Path: path}
}

// IsBuildable reports whether the project declares at least a build classification.
func (p *ProjectInfo) IsBuildable() bool {
	return p != nil && !p.Build.IsZero()
}

// Labels returns the build labels of the project, or nil if it has none.
func (p *ProjectInfo) Labels() []string {
	if p == nil {
		return nil
	}
	return p.Build.Labels()
}
