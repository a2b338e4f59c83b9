package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanAssemblesSnapshot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "logs", "app.log"), 32*1024)
	writeFile(t, filepath.Join(root, "cache", "blob"), 8*1024)

	before := time.Now()
	result, err := Scan(root, Options{Depth: 1, TopDirs: 10, TopFiles: 5, MinFileSizeMB: 1})
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(result.RootPath))
	assert.False(t, result.Timestamp.Before(before.Add(-time.Second)))
	assert.Zero(t, result.ID, "a fresh scan has no store identity")

	// total_scanned_bytes is derived from the directory list, nothing else.
	var sum uint64
	for _, d := range result.Directories {
		sum += d.SizeBytes
	}
	assert.Equal(t, sum, result.TotalScannedBytes)

	for i := 1; i < len(result.Directories); i++ {
		assert.GreaterOrEqual(t,
			result.Directories[i-1].SizeBytes, result.Directories[i].SizeBytes)
	}
	for i := 1; i < len(result.LargeFiles); i++ {
		assert.GreaterOrEqual(t,
			result.LargeFiles[i-1].SizeBytes, result.LargeFiles[i].SizeBytes)
	}
	assert.LessOrEqual(t, len(result.Directories), 10)
	assert.LessOrEqual(t, len(result.LargeFiles), 5)
}

func TestScanRejectsMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"), Options{})
	require.Error(t, err)
}

func TestScanRejectsFileRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	writeFile(t, file, 10)

	_, err := Scan(file, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "Projects"), ExpandPath("~/Projects"))
	assert.True(t, filepath.IsAbs(ExpandPath(".")))
	assert.False(t, strings.HasPrefix(ExpandPath("/var/log"), "~"))

	// The ~user form is not expanded, only made absolute.
	expanded := ExpandPath("~nobody/tmp")
	assert.True(t, filepath.IsAbs(expanded))
	assert.True(t, strings.HasSuffix(expanded, "~nobody/tmp"))
}

func TestOptionsWithDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	def := DefaultOptions()
	assert.Equal(t, def, opts)

	custom := Options{Depth: 3, DirScanTimeout: time.Minute}.withDefaults()
	assert.Equal(t, 3, custom.Depth)
	assert.Equal(t, time.Minute, custom.DirScanTimeout)
	assert.Equal(t, def.TopDirs, custom.TopDirs)
	assert.Equal(t, def.FastFindTimeout, custom.FastFindTimeout)
}
