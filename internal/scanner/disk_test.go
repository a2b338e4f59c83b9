package scanner

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-sh/dusk/internal/models"
)

func TestFillCapacity(t *testing.T) {
	var info models.DiskInfo
	fillCapacity(&info, t.TempDir())

	require.NotZero(t, info.TotalBytes)
	assert.LessOrEqual(t, info.FreeBytes, info.TotalBytes)
	assert.LessOrEqual(t, info.AvailableBytes, info.TotalBytes)
	assert.Equal(t, info.TotalBytes-info.FreeBytes, info.UsedBytes)
}

func TestMountPoint(t *testing.T) {
	root := t.TempDir()

	mount, err := mountPoint(root)
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resolved, strings.TrimSuffix(mount, "/")),
		"mount %q should own %q", mount, resolved)
}

func TestMountPointMissingPath(t *testing.T) {
	_, err := mountPoint(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
