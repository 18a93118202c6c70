package fetchcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime"
	"strings"
)

// Key returns the cache key of a tool download for one platform.
// e.g., Key("turbo", "2.1.3", "linux", "amd64") -> "turbo-2.1.3-linux-amd64".
func Key(tool, version, goos, goarch string) string {
	return fmt.Sprintf("%s-%s-%s-%s", tool, version, goos, goarch)
}

// HostKey returns the cache key of a tool download for the running platform.
func HostKey(tool, version string) string {
	return Key(tool, version, runtime.GOOS, runtime.GOARCH)
}

// entryName maps a key to a directory name that is safe on every platform.
// Keys differing only in unsafe characters (e.g. "^2" and "~2") stay distinct
// through the hash suffix.
func entryName(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)

	sum := sha256.Sum256([]byte(key))
	return safe + "-" + hex.EncodeToString(sum[:])[:12]
}
