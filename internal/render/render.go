// Package render turns scan results, comparisons and Docker reports
// into plain-text tables for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/dusk-sh/dusk/internal/models"
)

// ANSI colors, enabled only when stdout is a terminal.
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiDim    = "\033[2m"
)

var useColor = isatty.IsTerminal(os.Stdout.Fd())

func colorize(s, color string) string {
	if !useColor {
		return s
	}
	return color + s + ansiReset
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintScan writes the full report for one scan: disk overview, top
// directories and largest files.
func PrintScan(w io.Writer, r *models.ScanResult) {
	printDiskOverview(w, r)
	printDirectories(w, r)
	printLargeFiles(w, r)
}

func usageColor(pct float64) string {
	switch {
	case pct < 70:
		return ansiGreen
	case pct < 85:
		return ansiYellow
	default:
		return ansiRed
	}
}

func printDiskOverview(w io.Writer, r *models.ScanResult) {
	di := r.Disk
	pct := 0.0
	if di.TotalBytes > 0 {
		pct = float64(di.UsedBytes) / float64(di.TotalBytes) * 100
	}
	color := usageColor(pct)

	fmt.Fprintf(w, "Disk Overview - %s\n", r.RootPath)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	if di.VolumeName != "" || di.FSType != "" {
		fmt.Fprintf(w, "Volume:    %s (%s)\n", orNA(di.VolumeName), orUnknown(di.FSType))
	}
	if di.APFSContainer != "" {
		fmt.Fprintf(w, "APFS:      %s\n", di.APFSContainer)
	}
	fmt.Fprintf(w, "Total:     %s\n", humanize.IBytes(di.TotalBytes))
	fmt.Fprintf(w, "Used:      %s %s\n", humanize.IBytes(di.UsedBytes),
		colorize(fmt.Sprintf("(%.1f%%)", pct), color))
	fmt.Fprintf(w, "Free:      %s\n", humanize.IBytes(di.FreeBytes))

	const barWidth = 40
	filled := int(barWidth * pct / 100)
	if filled > barWidth {
		filled = barWidth
	}
	bar := colorize(strings.Repeat("█", filled), color) + strings.Repeat("░", barWidth-filled)
	fmt.Fprintf(w, "\n%s %.1f%%\n\n", bar, pct)
}

func printDirectories(w io.Writer, r *models.ScanResult) {
	if len(r.Directories) == 0 {
		return
	}
	maxSize := r.Directories[0].SizeBytes

	fmt.Fprintln(w, "Top Directories")
	fmt.Fprintf(w, "%-50s %10s  %s\n", "DIRECTORY", "SIZE", "")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, d := range r.Directories {
		barLen := 0
		if maxSize > 0 {
			barLen = int(20 * d.SizeBytes / maxSize)
		}
		fmt.Fprintf(w, "%-50s %10s  %s\n",
			ShortenPath(d.Path, 50),
			humanize.IBytes(d.SizeBytes),
			colorize(strings.Repeat("█", barLen), ansiBlue))
	}
	fmt.Fprintln(w)
}

func printLargeFiles(w io.Writer, r *models.ScanResult) {
	if len(r.LargeFiles) == 0 {
		return
	}
	fmt.Fprintln(w, "Largest Files")
	fmt.Fprintf(w, "%-58s %-7s %10s\n", "PATH", "TYPE", "SIZE")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, f := range r.LargeFiles {
		fmt.Fprintf(w, "%-58s %-7s %10s\n",
			ShortenPath(f.Path, 58), FileExt(f.Path), humanize.IBytes(f.SizeBytes))
	}
	fmt.Fprintln(w)
}

// PrintComparison writes the trend section for a comparison.
func PrintComparison(w io.Writer, c *models.Comparison) {
	fmt.Fprintf(w, "Trends since %s\n", c.Previous.Timestamp.Format("2006-01-02 15:04"))
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "Overall: %s\n\n", formatDelta(c.OverallDelta))

	if len(c.Trends) > 0 {
		fmt.Fprintf(w, "%-44s %10s %12s %9s\n", "DIRECTORY", "SIZE", "DELTA", "CHANGE")
		for _, t := range c.Trends {
			fmt.Fprintf(w, "%-44s %10s %12s %8.1f%%\n",
				ShortenPath(t.Path, 44),
				humanize.IBytes(t.CurrentBytes),
				formatDelta(t.DeltaBytes),
				t.DeltaPercent)
		}
		fmt.Fprintln(w)
	}

	if len(c.NewDirs) > 0 {
		fmt.Fprintln(w, "New directories:")
		for _, d := range c.NewDirs {
			fmt.Fprintf(w, "  + %-50s %10s\n", ShortenPath(d.Path, 50), humanize.IBytes(d.SizeBytes))
		}
		fmt.Fprintln(w)
	}
	if len(c.RemovedDirs) > 0 {
		fmt.Fprintln(w, "Removed directories:")
		for _, d := range c.RemovedDirs {
			fmt.Fprintf(w, "  - %-50s %10s\n", ShortenPath(d.Path, 50), humanize.IBytes(d.SizeBytes))
		}
		fmt.Fprintln(w)
	}
}

// PrintHistory lists past scans, newest first.
func PrintHistory(w io.Writer, scans []*models.ScanResult) {
	if len(scans) == 0 {
		fmt.Fprintln(w, "No scans recorded yet.")
		return
	}
	fmt.Fprintf(w, "%4s  %-20s %-40s %10s %6s\n", "ID", "WHEN", "ROOT", "SCANNED", "DIRS")
	fmt.Fprintln(w, strings.Repeat("-", 86))
	for _, s := range scans {
		fmt.Fprintf(w, "%4d  %-20s %-40s %10s %6d\n",
			s.ID,
			humanize.Time(s.Timestamp),
			ShortenPath(s.RootPath, 40),
			humanize.IBytes(s.TotalScannedBytes),
			len(s.Directories))
	}
}

// PrintDockerReport writes the Docker disk usage analysis.
func PrintDockerReport(w io.Writer, rep *models.DockerReport) {
	o := rep.Overview
	fmt.Fprintln(w, "Docker Disk Usage")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintf(w, "%-12s %5d total, %3d active  %10s  (%s reclaimable)\n",
		"Images:", o.ImagesTotal, o.ImagesActive,
		humanize.IBytes(o.ImagesSize), humanize.IBytes(o.ImagesReclaimable))
	fmt.Fprintf(w, "%-12s %5d total, %3d running %10s\n",
		"Containers:", o.ContainersTotal, o.ContainersActive,
		humanize.IBytes(o.ContainersSize))
	fmt.Fprintf(w, "%-12s %5d total             %10s  (%s reclaimable)\n",
		"Volumes:", o.VolumesTotal,
		humanize.IBytes(o.VolumesSize), humanize.IBytes(o.VolumesReclaimable))
	fmt.Fprintf(w, "%-12s %5d entries           %10s  (%s reclaimable)\n\n",
		"Build cache:", o.BuildCacheTotal,
		humanize.IBytes(o.BuildCacheSize), humanize.IBytes(o.BuildCacheReclaimable))

	if len(rep.Images) > 0 {
		fmt.Fprintf(w, "%-40s %-10s %10s %5s\n", "IMAGE", "TAG", "SIZE", "CTRS")
		fmt.Fprintln(w, strings.Repeat("-", 72))
		for _, img := range rep.Images {
			fmt.Fprintf(w, "%-40s %-10s %10s %5d\n",
				truncateString(img.Repo, 40), truncateString(img.Tag, 10),
				humanize.IBytes(img.SizeBytes), img.Containers)
		}
		fmt.Fprintln(w)
	}

	if len(rep.Containers) > 0 {
		fmt.Fprintf(w, "%-30s %-24s %10s %-8s\n", "CONTAINER", "IMAGE", "SIZE", "STATE")
		fmt.Fprintln(w, strings.Repeat("-", 76))
		for _, ctr := range rep.Containers {
			fmt.Fprintf(w, "%-30s %-24s %10s %-8s\n",
				truncateString(ctr.Name, 30), truncateString(ctr.Image, 24),
				humanize.IBytes(ctr.SizeBytes), ctr.State)
		}
		fmt.Fprintln(w)
	}

	if len(rep.Volumes) > 0 {
		fmt.Fprintf(w, "%-44s %-10s %10s\n", "VOLUME", "DRIVER", "SIZE")
		fmt.Fprintln(w, strings.Repeat("-", 68))
		for _, vol := range rep.Volumes {
			fmt.Fprintf(w, "%-44s %-10s %10s\n",
				truncateString(vol.Name, 44), vol.Driver, humanize.IBytes(vol.SizeBytes))
		}
		fmt.Fprintln(w)
	}

	if len(rep.BuildCacheByType) > 0 {
		fmt.Fprintln(w, "Build cache by type:")
		for cacheType, size := range rep.BuildCacheByType {
			fmt.Fprintf(w, "  %-20s %10s\n", cacheType, humanize.IBytes(size))
		}
	}
}

func formatDelta(delta int64) string {
	if delta >= 0 {
		return colorize("+"+humanize.IBytes(uint64(delta)), ansiRed)
	}
	return colorize("-"+humanize.IBytes(uint64(-delta)), ansiGreen)
}

// ShortenPath abbreviates path for table display, replacing the home
// directory with ~ and keeping the tail when too long.
func ShortenPath(path string, maxLen int) string {
	if home, err := os.UserHomeDir(); err == nil && home != "/" {
		if strings.HasPrefix(path, home) {
			path = "~" + strings.TrimPrefix(path, home)
		}
	}
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-(maxLen-3):]
}

// FileExt returns the lowercase extension of path, or "-" when none.
func FileExt(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "-"
	}
	return ext
}

func truncateString(s string, n int) string {
	if len(s) > n {
		return s[:n-1] + "…"
	}
	return s
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
