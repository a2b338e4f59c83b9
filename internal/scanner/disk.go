package scanner

import (
	"context"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
	"howett.net/plist"

	"github.com/dusk-sh/dusk/internal/models"
)

// DiskInfo resolves the mount point owning path and reports its capacity.
// It never fails: statfs numbers come straight from the kernel, and the
// volume-metadata enrichment is best-effort. On any probe error the
// metadata fields are simply left empty.
func DiskInfo(path string, enrichTimeout time.Duration) models.DiskInfo {
	mount, err := mountPoint(path)
	if err != nil {
		mount = path
	}

	var info models.DiskInfo
	fillCapacity(&info, mount)
	enrichDiskInfo(&info, mount, enrichTimeout)
	return info
}

// mountPoint walks upward from path until it crosses a filesystem
// boundary, returning the mount point that owns path.
func mountPoint(path string) (string, error) {
	path, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return "", err
	}

	for {
		parent := filepath.Dir(path)
		if parent == path {
			return path, nil
		}

		var st, pst unix.Stat_t
		if err := unix.Lstat(path, &st); err != nil {
			return "", err
		}
		if err := unix.Lstat(parent, &pst); err != nil {
			return "", err
		}
		// Device change means path is a mount point; identical inodes
		// mean we reached the filesystem root.
		if st.Dev != pst.Dev || st.Ino == pst.Ino {
			return path, nil
		}
		path = parent
	}
}

// enrichDiskInfo fills volume name, filesystem type and container id from
// whichever volume-info tool the host has. Failures of any kind leave the
// fields empty; enrichment must never abort a scan.
func enrichDiskInfo(info *models.DiskInfo, mount string, timeout time.Duration) {
	if _, err := exec.LookPath("diskutil"); err == nil {
		enrichFromDiskutil(info, mount, timeout)
		return
	}
	if _, err := exec.LookPath("lsblk"); err == nil {
		enrichFromLsblk(info, mount, timeout)
	}
}

// diskutilInfo is the subset of diskutil's plist output we care about.
type diskutilInfo struct {
	VolumeName             string `plist:"VolumeName"`
	FilesystemType         string `plist:"FilesystemType"`
	APFSContainerReference string `plist:"APFSContainerReference"`
}

func enrichFromDiskutil(info *models.DiskInfo, mount string, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "diskutil", "info", "-plist", mount).Output()
	if err != nil {
		return
	}

	var di diskutilInfo
	if _, err := plist.Unmarshal(out, &di); err != nil {
		return
	}
	info.VolumeName = di.VolumeName
	info.FSType = di.FilesystemType
	info.APFSContainer = di.APFSContainerReference
}

// lsblkOutput models lsblk -J, which nests partitions under their disks.
type lsblkOutput struct {
	BlockDevices []lsblkDevice `json:"blockdevices"`
}

type lsblkDevice struct {
	Label      string        `json:"label"`
	FSType     string        `json:"fstype"`
	Mountpoint string        `json:"mountpoint"`
	Children   []lsblkDevice `json:"children"`
}

func enrichFromLsblk(info *models.DiskInfo, mount string, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "lsblk", "-J", "-o", "LABEL,FSTYPE,MOUNTPOINT").Output()
	if err != nil {
		return
	}

	var parsed lsblkOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return
	}
	if dev := findByMountpoint(parsed.BlockDevices, mount); dev != nil {
		info.VolumeName = dev.Label
		info.FSType = dev.FSType
	}
}

func findByMountpoint(devices []lsblkDevice, mount string) *lsblkDevice {
	for i := range devices {
		if devices[i].Mountpoint == mount {
			return &devices[i]
		}
		if dev := findByMountpoint(devices[i].Children, mount); dev != nil {
			return dev
		}
	}
	return nil
}
