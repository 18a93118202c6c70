package fetchcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/jakoblorz/turbo-projects/internal/filesystem"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const snapshotMetadataFile = "snapshot.json"

// DefaultIgnorePatterns are excluded from snapshots (gitignore syntax).
var DefaultIgnorePatterns = []string{"*.lock", "*.tmp"}

var _ Store = (*LocalStore)(nil)

// LocalStore implements Store with snapshot directories on the local disk.
//
// Structure:
//
//	{dir}/
//	  {entry}/
//	    snapshot.json  (key and snapshotted paths, written last)
//	    0/             (contents of paths[0])
//	    1/             (contents of paths[1])
type LocalStore struct {
	fs             filesystem.FileSystem
	dir            string
	ignorePatterns []string
}

// LocalStoreOption configures a LocalStore.
type LocalStoreOption func(*LocalStore)

// WithIgnorePatterns replaces the patterns excluded from snapshots.
func WithIgnorePatterns(patterns ...string) LocalStoreOption {
	return func(s *LocalStore) {
		s.ignorePatterns = patterns
	}
}

// NewLocalStore creates a store keeping snapshots below dir.
func NewLocalStore(fs filesystem.FileSystem, dir string, options ...LocalStoreOption) *LocalStore {
	s := &LocalStore{
		fs:             fs,
		dir:            dir,
		ignorePatterns: DefaultIgnorePatterns,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

type snapshotMetadata struct {
	Key   string   `json:"key"`
	Paths []string `json:"paths"`
}

// Restore copies the snapshot stored under key back to paths.
func (s *LocalStore) Restore(ctx context.Context, paths []string, key string) (bool, error) {
	entry := filepath.Join(s.dir, entryName(key))
	metaPath := filepath.Join(entry, snapshotMetadataFile)

	data, err := s.fs.ReadFile(metaPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read snapshot metadata: %w", err)
	}

	var meta snapshotMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return false, fmt.Errorf("failed to parse snapshot metadata: %w", err)
	}
	if meta.Key != key || !samePaths(meta.Paths, paths) {
		return false, nil
	}

	for i, path := range paths {
		src := filepath.Join(entry, strconv.Itoa(i))
		if !s.fs.Exists(src) {
			continue
		}
		if err := s.copyTree(ctx, src, path, nil); err != nil {
			return false, fmt.Errorf("failed to restore %s: %w", path, err)
		}
	}

	return true, nil
}

// Save snapshots paths under key, replacing an existing snapshot.
func (s *LocalStore) Save(ctx context.Context, paths []string, key string) (err error) {
	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	suffix, err := gonanoid.New(10)
	if err != nil {
		return fmt.Errorf("failed to generate snapshot name: %w", err)
	}

	entry := filepath.Join(s.dir, entryName(key))
	tmp := entry + ".tmp-" + suffix

	// Write into a temp dir, then rename into place so an interrupted save
	// never leaves a snapshot.json behind at the entry path.
	committed := false
	defer func() {
		if !committed {
			_ = s.fs.RemoveAll(tmp)
		}
	}()

	if err := s.fs.MkdirAll(tmp, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	ignore := s.ignoreMatcher()
	saved := 0
	for i, path := range paths {
		if !s.fs.Exists(path) {
			continue
		}
		if err := s.copyTree(ctx, path, filepath.Join(tmp, strconv.Itoa(i)), ignore); err != nil {
			return fmt.Errorf("failed to snapshot %s: %w", path, err)
		}
		saved++
	}
	if saved == 0 {
		return fmt.Errorf("none of the paths exist: %s", strings.Join(paths, ", "))
	}

	data, err := json.MarshalIndent(snapshotMetadata{Key: key, Paths: paths}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot metadata: %w", err)
	}
	if err := s.fs.WriteFile(filepath.Join(tmp, snapshotMetadataFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot metadata: %w", err)
	}

	if err := s.fs.RemoveAll(entry); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	if err := s.fs.Rename(tmp, entry); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	committed = true

	return nil
}

func (s *LocalStore) ignoreMatcher() gitignore.GitIgnore {
	if len(s.ignorePatterns) == 0 {
		return nil
	}
	patterns := strings.Join(s.ignorePatterns, "\n") + "\n"
	return gitignore.New(strings.NewReader(patterns), s.dir, nil)
}

// copyTree copies src into dst, overwriting files that already exist.
// Symbolic links are recreated as links with their original target.
func (s *LocalStore) copyTree(ctx context.Context, src, dst string, ignore gitignore.GitIgnore) error {
	return s.fs.WalkDir(src, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		if rel != "." && ignore != nil {
			if match := ignore.Relative(filepath.ToSlash(rel), entry.IsDir()); match != nil && match.Ignore() {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		target := filepath.Join(dst, rel)
		if entry.IsDir() {
			return s.fs.MkdirAll(target, 0755)
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			link, err := s.fs.Readlink(path)
			if err != nil {
				return err
			}
			if err := s.fs.RemoveAll(target); err != nil {
				return err
			}
			return s.fs.Symlink(link, target)
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		data, err := s.fs.ReadFile(path)
		if err != nil {
			return err
		}

		perm := info.Mode().Perm()
		if perm == 0 {
			perm = 0644
		}
		return s.fs.WriteFile(target, data, perm)
	})
}

func samePaths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if filepath.Clean(a[i]) != filepath.Clean(b[i]) {
			return false
		}
	}
	return true
}
