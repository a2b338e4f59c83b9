package scanner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/dusk-sh/dusk/internal/models"
)

// FindLargeFiles locates individual files of at least minSizeMB under
// root, sorted largest-first and trimmed to topN. It tries a fast
// indexed search first and only falls back to a slow recursive probe
// when the index is unavailable - a fast tier that succeeds with zero
// matches is a final answer.
func FindLargeFiles(root string, minSizeMB, topN int, fastTimeout, slowTimeout time.Duration) []models.FileEntry {
	minBytes := uint64(minSizeMB) * 1024 * 1024

	files, ok := mdfindLargeFiles(root, minBytes, fastTimeout)
	if !ok {
		files = findLargeFilesSlow(root, minSizeMB, minBytes, slowTimeout)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].SizeBytes > files[j].SizeBytes
	})
	if len(files) > topN {
		files = files[:topN]
	}
	return files
}

// mdfindLargeFiles queries the Spotlight index. The second return value
// distinguishes "index unavailable" (false) from "no matches" (true,
// empty slice); only the former should trigger the fallback tier.
func mdfindLargeFiles(root string, minBytes uint64, timeout time.Duration) ([]models.FileEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	query := fmt.Sprintf("kMDItemFSSize >= %d", minBytes)
	out, err := exec.CommandContext(ctx, "mdfind", "-onlyin", root, query).Output()
	if err != nil {
		return nil, false
	}
	return statPaths(strings.Split(strings.TrimSpace(string(out)), "\n")), true
}

// findLargeFilesSlow is the fallback tier: a recursive find constrained
// to root's filesystem. When find itself is not installed a native walk
// takes its place. On timeout the paths emitted so far are kept.
func findLargeFilesSlow(root string, minSizeMB int, minBytes uint64, timeout time.Duration) []models.FileEntry {
	if _, err := exec.LookPath("find"); err != nil {
		return walkLargeFiles(root, minBytes, timeout)
	}

	cmd := exec.Command("find", root, "-xdev", "-type", "f", "-size", fmt.Sprintf("+%dM", minSizeMB))
	out, _, err := runSalvage(cmd, timeout)
	if out == "" && err != nil {
		return []models.FileEntry{}
	}
	return statPaths(strings.Split(strings.TrimSpace(out), "\n"))
}

// statPaths re-stats each discovered path for its authoritative size.
// Paths that vanish between discovery and stat are a normal race with a
// live filesystem and are dropped silently.
func statPaths(paths []string) []models.FileEntry {
	files := []models.FileEntry{}
	for _, path := range paths {
		if path == "" {
			continue
		}
		fi, err := os.Lstat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, models.FileEntry{
			Path:      path,
			SizeBytes: uint64(fi.Size()),
		})
	}
	return files
}
