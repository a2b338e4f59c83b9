package models

import "time"

// DiskInfo holds capacity figures for the volume that owns a scan root.
// used + free is not guaranteed to reconcile with total; the numbers are
// reported as the underlying accounting source produced them.
type DiskInfo struct {
	TotalBytes     uint64 `json:"total_bytes"`
	UsedBytes      uint64 `json:"used_bytes"`
	FreeBytes      uint64 `json:"free_bytes"`
	AvailableBytes uint64 `json:"available_bytes"`

	// Enrichment metadata; empty string when the volume-info probe
	// was unavailable or timed out.
	VolumeName    string `json:"volume_name,omitempty"`
	FSType        string `json:"fs_type,omitempty"`
	APFSContainer string `json:"apfs_container,omitempty"`
}

// DirEntry is one directory reported by the directory sizer.
// For trend matching two entries are considered the same directory when
// their base names match, regardless of the absolute root they were
// scanned under.
type DirEntry struct {
	Path      string `json:"path"`
	SizeBytes uint64 `json:"size_bytes"`
	// FileCount is nil when the size source cannot report it.
	FileCount *int64 `json:"file_count,omitempty"`
}

// FileEntry is one large file discovered by the file finder.
type FileEntry struct {
	Path      string `json:"path"`
	SizeBytes uint64 `json:"size_bytes"`
}

// ScanResult is one immutable point-in-time scan of a root path.
// ID is 0 until the result has been saved to the snapshot store.
type ScanResult struct {
	ID                int64       `json:"id,omitempty"`
	Timestamp         time.Time   `json:"timestamp"`
	RootPath          string      `json:"root_path"`
	Disk              DiskInfo    `json:"disk"`
	Directories       []DirEntry  `json:"directories"`
	LargeFiles        []FileEntry `json:"large_files"`
	TotalScannedBytes uint64      `json:"total_scanned_bytes"`
}

// Saved reports whether the result has been assigned a store identity.
func (r *ScanResult) Saved() bool {
	return r.ID != 0
}

// TrendEntry is a before/after record for one directory matched by base
// name across two scans.
type TrendEntry struct {
	Path          string  `json:"path"`
	CurrentBytes  uint64  `json:"current_bytes"`
	PreviousBytes uint64  `json:"previous_bytes"`
	DeltaBytes    int64   `json:"delta_bytes"`
	DeltaPercent  float64 `json:"delta_percent"`
}

// Comparison is the derived diff between two scans of the same logical
// root. It is never persisted; it is recomputed from the two inputs on
// demand.
type Comparison struct {
	Current      *ScanResult  `json:"current"`
	Previous     *ScanResult  `json:"previous"`
	Trends       []TrendEntry `json:"trends"`
	NewDirs      []DirEntry   `json:"new_dirs"`
	RemovedDirs  []DirEntry   `json:"removed_dirs"`
	OverallDelta int64        `json:"overall_delta"`
}
