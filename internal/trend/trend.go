// Package trend diffs two scans of the same logical root into a ranked
// change report. It is a pure computation: no I/O, no failure modes.
package trend

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dusk-sh/dusk/internal/models"
)

// Compare diffs current against previous. Directories are matched by
// base name rather than full path, so scans of different absolute roots
// still line up. When two directories in one scan share a base name the
// later one wins the mapping slot; that approximation is accepted and
// kept stable for callers.
func Compare(current, previous *models.ScanResult) *models.Comparison {
	currentDirs := byBaseName(current.Directories)
	previousDirs := byBaseName(previous.Directories)

	keys := make(map[string]struct{}, len(currentDirs)+len(previousDirs))
	for k := range currentDirs {
		keys[k] = struct{}{}
	}
	for k := range previousDirs {
		keys[k] = struct{}{}
	}

	trends := []models.TrendEntry{}
	newDirs := []models.DirEntry{}
	removedDirs := []models.DirEntry{}

	for key := range keys {
		cur, inCurrent := currentDirs[key]
		prev, inPrevious := previousDirs[key]

		switch {
		case inCurrent && inPrevious:
			delta := int64(cur.SizeBytes) - int64(prev.SizeBytes)
			pct := 0.0
			if prev.SizeBytes != 0 {
				pct = float64(delta) / float64(prev.SizeBytes) * 100
			}
			trends = append(trends, models.TrendEntry{
				Path:          cur.Path,
				CurrentBytes:  cur.SizeBytes,
				PreviousBytes: prev.SizeBytes,
				DeltaBytes:    delta,
				DeltaPercent:  pct,
			})
		case inCurrent:
			newDirs = append(newDirs, cur)
		default:
			removedDirs = append(removedDirs, prev)
		}
	}

	sort.Slice(trends, func(i, j int) bool {
		return abs(trends[i].DeltaBytes) > abs(trends[j].DeltaBytes)
	})

	return &models.Comparison{
		Current:      current,
		Previous:     previous,
		Trends:       trends,
		NewDirs:      newDirs,
		RemovedDirs:  removedDirs,
		OverallDelta: int64(current.TotalScannedBytes) - int64(previous.TotalScannedBytes),
	}
}

func byBaseName(dirs []models.DirEntry) map[string]models.DirEntry {
	m := make(map[string]models.DirEntry, len(dirs))
	for _, d := range dirs {
		key := filepath.Base(strings.TrimRight(d.Path, string(filepath.Separator)))
		m[key] = d
	}
	return m
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
