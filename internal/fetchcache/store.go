package fetchcache

import "context"

// Store persists directory snapshots under a key.
//
// Restore reports whether a snapshot for key existed and was copied back to
// paths. Save replaces any snapshot stored under key with the current contents
// of paths. Implementations must leave a half-written snapshot invisible to
// Restore.
type Store interface {
	Restore(ctx context.Context, paths []string, key string) (bool, error)
	Save(ctx context.Context, paths []string, key string) error
}
