package filesystem

import (
	"io/fs"
)

// FileSystem provides an abstraction over file operations for testability
type FileSystem interface {
	// File operations
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	RemoveAll(path string) error

	// Rename moves oldpath to newpath, replacing nothing: newpath must not exist.
	Rename(oldpath, newpath string) error

	// Symlinks
	Readlink(path string) (string, error)
	Symlink(oldname, newname string) error

	// Path operations
	Exists(path string) bool
	Getwd() (string, error)

	// File walking
	WalkDir(root string, fn fs.WalkDirFunc) error
}
