package scanner

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dusk-sh/dusk/internal/models"
)

// duBlockSize converts du -k output to bytes. du reports 1024-byte
// blocks regardless of the filesystem's native block size.
const duBlockSize = 1024

// ScanDirectories sizes the subdirectories of root down to the given
// depth using du, constrained to root's own filesystem. Results are
// sorted largest-first and trimmed to topN; the root itself is excluded.
// Any unrecoverable failure yields an empty slice, never an error. On
// timeout the partial du output produced so far is parsed instead of
// being thrown away.
func ScanDirectories(root string, depth, topN int, timeout time.Duration) []models.DirEntry {
	cmd := exec.Command("du", "-x", fmt.Sprintf("-d%d", depth), "-k", root)
	out, _, err := runSalvage(cmd, timeout)
	if out == "" && err != nil {
		return []models.DirEntry{}
	}

	entries := parseDuOutput(out, root)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SizeBytes > entries[j].SizeBytes
	})
	if len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}

// parseDuOutput parses du's "<kilobytes>\t<path>" lines. Malformed rows
// are skipped; a truncated final line from a killed process parses as
// malformed and falls out naturally.
func parseDuOutput(out, root string) []models.DirEntry {
	cleanRoot := filepath.Clean(root)
	entries := []models.DirEntry{}

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		sizeKB, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			continue
		}
		path := parts[1]
		// du reports the root last; children only.
		if filepath.Clean(path) == cleanRoot {
			continue
		}
		entries = append(entries, models.DirEntry{
			Path:      path,
			SizeBytes: sizeKB * duBlockSize,
		})
	}
	return entries
}
