package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dusk-sh/dusk/internal/models"
)

// Options bound a scan. Zero values are replaced by the defaults below.
type Options struct {
	Depth         int // du traversal depth
	TopDirs       int // directories kept after sorting
	TopFiles      int // large files kept after sorting
	MinFileSizeMB int // large-file threshold

	EnrichTimeout   time.Duration // volume-info probe
	DirScanTimeout  time.Duration // du
	FastFindTimeout time.Duration // indexed search
	SlowFindTimeout time.Duration // recursive find / walk
}

// DefaultOptions returns the stock scan bounds.
func DefaultOptions() Options {
	return Options{
		Depth:           1,
		TopDirs:         20,
		TopFiles:        10,
		MinFileSizeMB:   100,
		EnrichTimeout:   10 * time.Second,
		DirScanTimeout:  300 * time.Second,
		FastFindTimeout: 30 * time.Second,
		SlowFindTimeout: 60 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Depth <= 0 {
		o.Depth = def.Depth
	}
	if o.TopDirs <= 0 {
		o.TopDirs = def.TopDirs
	}
	if o.TopFiles <= 0 {
		o.TopFiles = def.TopFiles
	}
	if o.MinFileSizeMB <= 0 {
		o.MinFileSizeMB = def.MinFileSizeMB
	}
	if o.EnrichTimeout <= 0 {
		o.EnrichTimeout = def.EnrichTimeout
	}
	if o.DirScanTimeout <= 0 {
		o.DirScanTimeout = def.DirScanTimeout
	}
	if o.FastFindTimeout <= 0 {
		o.FastFindTimeout = def.FastFindTimeout
	}
	if o.SlowFindTimeout <= 0 {
		o.SlowFindTimeout = def.SlowFindTimeout
	}
	return o
}

// ExpandPath expands a leading ~ and resolves path to an absolute form.
// Only the bare ~ and ~/ forms are handled; the ~user form is left
// untouched and resolves relative to the working directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}

// Scan runs the three probes against root concurrently and assembles an
// immutable ScanResult. Each probe owns its timeouts and degrades to its
// documented empty value on failure; the only hard error is a root that
// is not a directory, which is checked before any probe starts.
func Scan(root string, opts Options) (*models.ScanResult, error) {
	opts = opts.withDefaults()
	root = ExpandPath(root)

	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", root, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("cannot scan %s: not a directory", root)
	}

	started := time.Now()

	var (
		disk  models.DiskInfo
		dirs  []models.DirEntry
		files []models.FileEntry
	)

	// The probes share no state; each gets its own result slot and the
	// orchestrator just joins on all three.
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		disk = DiskInfo(root, opts.EnrichTimeout)
	}()
	go func() {
		defer wg.Done()
		dirs = ScanDirectories(root, opts.Depth, opts.TopDirs, opts.DirScanTimeout)
	}()
	go func() {
		defer wg.Done()
		files = FindLargeFiles(root, opts.MinFileSizeMB, opts.TopFiles, opts.FastFindTimeout, opts.SlowFindTimeout)
	}()
	wg.Wait()

	var total uint64
	for _, d := range dirs {
		total += d.SizeBytes
	}

	return &models.ScanResult{
		Timestamp:         started,
		RootPath:          root,
		Disk:              disk,
		Directories:       dirs,
		LargeFiles:        files,
		TotalScannedBytes: total,
	}, nil
}
