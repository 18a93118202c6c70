package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MockFileSystem provides in-memory filesystem for testing
type MockFileSystem struct {
	files      map[string]*MockFile
	currentDir string

	// Hooks for testing error scenarios
	WriteFileError error
	RenameError    error
}

// MockFile represents a file in the mock filesystem
type MockFile struct {
	Content []byte
	Mode    fs.FileMode
	ModTime time.Time
	IsDir   bool
	Link    string
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// mockDirEntry implements fs.DirEntry
type mockDirEntry struct {
	info fs.FileInfo
}

func (m *mockDirEntry) Name() string               { return m.info.Name() }
func (m *mockDirEntry) IsDir() bool                { return m.info.IsDir() }
func (m *mockDirEntry) Type() fs.FileMode          { return m.info.Mode().Type() }
func (m *mockDirEntry) Info() (fs.FileInfo, error) { return m.info, nil }

// NewMockFileSystem creates a new MockFileSystem
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:      make(map[string]*MockFile),
		currentDir: "/workspace",
	}
}

// AddFile adds a file to the mock filesystem, creating parent directories.
func (mfs *MockFileSystem) AddFile(path string, content []byte) {
	cleanPath := filepath.Clean(path)
	mfs.files[cleanPath] = &MockFile{
		Content: content,
		Mode:    0644,
		ModTime: time.Now(),
	}
	mfs.addParents(cleanPath)
}

// AddDir adds a directory to the mock filesystem
func (mfs *MockFileSystem) AddDir(path string) {
	cleanPath := filepath.Clean(path)
	if _, exists := mfs.files[cleanPath]; !exists {
		mfs.files[cleanPath] = &MockFile{
			Mode:    0755 | fs.ModeDir,
			ModTime: time.Now(),
			IsDir:   true,
		}
	}
	mfs.addParents(cleanPath)
}

func (mfs *MockFileSystem) addParents(cleanPath string) {
	dir := filepath.Dir(cleanPath)
	for dir != "." && dir != "/" && dir != cleanPath {
		if _, exists := mfs.files[dir]; !exists {
			mfs.files[dir] = &MockFile{
				Mode:    0755 | fs.ModeDir,
				ModTime: time.Now(),
				IsDir:   true,
			}
		}
		dir = filepath.Dir(dir)
	}
}

func (mfs *MockFileSystem) ReadFile(path string) ([]byte, error) {
	file, exists := mfs.resolve(filepath.Clean(path))
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if file.IsDir {
		return nil, errors.New("is a directory")
	}
	return file.Content, nil
}

// resolve follows symbolic links, giving up after a fixed number of hops.
func (mfs *MockFileSystem) resolve(path string) (*MockFile, bool) {
	for i := 0; i < 40; i++ {
		file, exists := mfs.files[path]
		if !exists || file.Mode&fs.ModeSymlink == 0 {
			return file, exists
		}
		target := file.Link
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = filepath.Clean(target)
	}
	return nil, false
}

func (mfs *MockFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if mfs.WriteFileError != nil {
		return mfs.WriteFileError
	}

	cleanPath := filepath.Clean(path)

	// Ensure parent directory exists
	dir := filepath.Dir(cleanPath)
	if dir != "." && dir != "/" {
		if _, exists := mfs.files[dir]; !exists {
			return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
		}
	}

	mfs.files[cleanPath] = &MockFile{
		Content: append([]byte(nil), data...),
		Mode:    perm,
		ModTime: time.Now(),
	}
	return nil
}

func (mfs *MockFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	cleanPath := filepath.Clean(path)
	if existing, exists := mfs.files[cleanPath]; exists && !existing.IsDir {
		return &fs.PathError{Op: "mkdir", Path: path, Err: errors.New("not a directory")}
	}
	mfs.AddDir(cleanPath)
	return nil
}

// RemoveAll removes path and everything below it. A missing path is not an error.
func (mfs *MockFileSystem) RemoveAll(path string) error {
	cleanPath := filepath.Clean(path)
	prefix := cleanPath + string(filepath.Separator)
	for p := range mfs.files {
		if p == cleanPath || strings.HasPrefix(p, prefix) {
			delete(mfs.files, p)
		}
	}
	return nil
}

func (mfs *MockFileSystem) Rename(oldpath, newpath string) error {
	if mfs.RenameError != nil {
		return mfs.RenameError
	}

	oldClean := filepath.Clean(oldpath)
	newClean := filepath.Clean(newpath)

	if _, exists := mfs.files[oldClean]; !exists {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	if _, exists := mfs.files[newClean]; exists {
		return &fs.PathError{Op: "rename", Path: newpath, Err: fs.ErrExist}
	}
	if parent := filepath.Dir(newClean); parent != "/" && parent != "." {
		if _, exists := mfs.files[parent]; !exists {
			return &fs.PathError{Op: "rename", Path: newpath, Err: fs.ErrNotExist}
		}
	}

	prefix := oldClean + string(filepath.Separator)
	moved := make(map[string]*MockFile)
	for p, f := range mfs.files {
		switch {
		case p == oldClean:
			moved[newClean] = f
		case strings.HasPrefix(p, prefix):
			moved[newClean+string(filepath.Separator)+strings.TrimPrefix(p, prefix)] = f
		default:
			continue
		}
		delete(mfs.files, p)
	}
	for p, f := range moved {
		mfs.files[p] = f
	}
	return nil
}

// AddSymlink adds a symbolic link at path pointing to target.
func (mfs *MockFileSystem) AddSymlink(path, target string) {
	cleanPath := filepath.Clean(path)
	mfs.files[cleanPath] = &MockFile{
		Mode:    0777 | fs.ModeSymlink,
		ModTime: time.Now(),
		Link:    target,
	}
	mfs.addParents(cleanPath)
}

func (mfs *MockFileSystem) Readlink(path string) (string, error) {
	file, exists := mfs.files[filepath.Clean(path)]
	if !exists {
		return "", &fs.PathError{Op: "readlink", Path: path, Err: fs.ErrNotExist}
	}
	if file.Mode&fs.ModeSymlink == 0 {
		return "", &fs.PathError{Op: "readlink", Path: path, Err: errors.New("invalid argument")}
	}
	return file.Link, nil
}

func (mfs *MockFileSystem) Symlink(oldname, newname string) error {
	cleanPath := filepath.Clean(newname)
	if _, exists := mfs.files[cleanPath]; exists {
		return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: fs.ErrExist}
	}
	if dir := filepath.Dir(cleanPath); dir != "." && dir != "/" {
		if _, exists := mfs.files[dir]; !exists {
			return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: fs.ErrNotExist}
		}
	}
	mfs.AddSymlink(cleanPath, oldname)
	return nil
}

func (mfs *MockFileSystem) Exists(path string) bool {
	_, exists := mfs.files[filepath.Clean(path)]
	return exists
}

func (mfs *MockFileSystem) Getwd() (string, error) {
	return mfs.currentDir, nil
}

// WalkDir visits root and everything below it in lexical order.
// Returning filepath.SkipDir from fn for a directory skips its contents.
func (mfs *MockFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	cleanRoot := filepath.Clean(root)

	if _, exists := mfs.files[cleanRoot]; !exists {
		return &fs.PathError{Op: "lstat", Path: root, Err: fs.ErrNotExist}
	}

	// Collect all paths that are under root
	var paths []string
	for p := range mfs.files {
		if p == cleanRoot || strings.HasPrefix(p, cleanRoot+string(filepath.Separator)) {
			paths = append(paths, p)
		}
	}

	// Sort paths for consistent ordering
	sort.Strings(paths)

	var skipped []string
	for _, p := range paths {
		if underAny(p, skipped) {
			continue
		}

		file := mfs.files[p]
		entry := &mockDirEntry{info: newMockFileInfo(p, file)}

		if err := fn(p, entry, nil); err != nil {
			if errors.Is(err, filepath.SkipDir) && file.IsDir {
				skipped = append(skipped, p+string(filepath.Separator))
				continue
			}
			return err
		}
	}

	return nil
}

// SetCurrentDir sets the current working directory for the mock
func (mfs *MockFileSystem) SetCurrentDir(dir string) {
	mfs.currentDir = dir
}

// Paths returns every file and directory path in lexical order.
func (mfs *MockFileSystem) Paths() []string {
	paths := make([]string, 0, len(mfs.files))
	for p := range mfs.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func newMockFileInfo(path string, f *MockFile) *mockFileInfo {
	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(f.Content)),
		mode:    f.Mode,
		modTime: f.ModTime,
		isDir:   f.IsDir,
	}
}

func underAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
