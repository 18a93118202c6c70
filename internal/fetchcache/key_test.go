package fetchcache

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	require.Equal(t, "turbo-2.1.3-linux-amd64", Key("turbo", "2.1.3", "linux", "amd64"))
	require.Equal(t, Key("turbo", "2.1.3", runtime.GOOS, runtime.GOARCH), HostKey("turbo", "2.1.3"))
}

func TestEntryName(t *testing.T) {
	caret := entryName("turbo-^2.0.0-linux-amd64")
	tilde := entryName("turbo-~2.0.0-linux-amd64")

	require.NotEqual(t, caret, tilde)
	require.Regexp(t, `^turbo-_2\.0\.0-linux-amd64-[0-9a-f]{12}$`, caret)
	require.Equal(t, caret, entryName("turbo-^2.0.0-linux-amd64"))
}
