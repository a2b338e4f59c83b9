//go:build linux

package scanner

import (
	"golang.org/x/sys/unix"

	"github.com/dusk-sh/dusk/internal/models"
)

// fillCapacity reads block-level statistics for the mount. The block
// size must come from the statfs result itself, never assumed; Linux
// reports the fundamental block size (f_frsize) separately from the
// preferred I/O size.
func fillCapacity(info *models.DiskInfo, mount string) {
	var st unix.Statfs_t
	if err := unix.Statfs(mount, &st); err != nil {
		return
	}
	bsize := uint64(st.Frsize)
	if bsize == 0 {
		bsize = uint64(st.Bsize)
	}
	info.TotalBytes = bsize * st.Blocks
	info.FreeBytes = bsize * st.Bfree
	info.AvailableBytes = bsize * st.Bavail
	info.UsedBytes = info.TotalBytes - info.FreeBytes
}
