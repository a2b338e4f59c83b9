package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dusk-sh/dusk/internal/models"
)

const scanColumns = `id, timestamp, root_path, total_scanned_bytes,
	disk_total, disk_used, disk_free, disk_available,
	volume_name, fs_type, apfs_container`

// SaveScan persists a scan and its entries, assigning the scan its
// identity. The write is transactional: either the whole scan lands or
// none of it does.
func (d *DB) SaveScan(result *models.ScanResult) (int64, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO scans (
			timestamp, root_path, total_scanned_bytes,
			disk_total, disk_used, disk_free, disk_available,
			volume_name, fs_type, apfs_container
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.Timestamp, result.RootPath, int64(result.TotalScannedBytes),
		int64(result.Disk.TotalBytes), int64(result.Disk.UsedBytes),
		int64(result.Disk.FreeBytes), int64(result.Disk.AvailableBytes),
		result.Disk.VolumeName, result.Disk.FSType, result.Disk.APFSContainer,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}

	scanID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read scan id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO entries (scan_id, path, size_bytes, is_dir, file_count)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, dir := range result.Directories {
		var count any
		if dir.FileCount != nil {
			count = *dir.FileCount
		}
		if _, err := stmt.Exec(scanID, dir.Path, int64(dir.SizeBytes), 1, count); err != nil {
			return 0, fmt.Errorf("failed to insert directory entry: %w", err)
		}
	}
	for _, file := range result.LargeFiles {
		if _, err := stmt.Exec(scanID, file.Path, int64(file.SizeBytes), 0, nil); err != nil {
			return 0, fmt.Errorf("failed to insert file entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit scan: %w", err)
	}

	result.ID = scanID
	return scanID, nil
}

// GetScanByID returns the scan with the given identity, or ErrNotFound.
func (d *DB) GetScanByID(id int64) (*models.ScanResult, error) {
	row := d.conn.QueryRow("SELECT "+scanColumns+" FROM scans WHERE id = ?", id)
	return d.scanRow(row)
}

// GetLatestScan returns the most recent scan of root, or ErrNotFound.
func (d *DB) GetLatestScan(root string) (*models.ScanResult, error) {
	row := d.conn.QueryRow(
		"SELECT "+scanColumns+" FROM scans WHERE root_path = ? ORDER BY timestamp DESC LIMIT 1",
		root,
	)
	return d.scanRow(row)
}

// GetPreviousScan returns the second-most-recent scan of root - the one
// trend comparisons run against - or ErrNotFound when fewer than two
// scans exist.
func (d *DB) GetPreviousScan(root string) (*models.ScanResult, error) {
	row := d.conn.QueryRow(
		"SELECT "+scanColumns+" FROM scans WHERE root_path = ? ORDER BY timestamp DESC LIMIT 1 OFFSET 1",
		root,
	)
	return d.scanRow(row)
}

// GetScanHistory lists scans newest-first, optionally filtered to one
// root, capped at limit.
func (d *DB) GetScanHistory(root string, limit int) ([]*models.ScanResult, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if root != "" {
		rows, err = d.conn.Query(
			"SELECT "+scanColumns+" FROM scans WHERE root_path = ? ORDER BY timestamp DESC LIMIT ?",
			root, limit,
		)
	} else {
		rows, err = d.conn.Query(
			"SELECT "+scanColumns+" FROM scans ORDER BY timestamp DESC LIMIT ?",
			limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	var scans []*models.ScanResult
	for rows.Next() {
		scan, err := d.scanRowFrom(rows)
		if err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}
	return scans, rows.Err()
}

// PruneOldScans deletes scans beyond the newest keep per root path and
// returns how many were removed. Entry rows go with them via cascade.
func (d *DB) PruneOldScans(keep int) (int, error) {
	roots, err := d.conn.Query("SELECT DISTINCT root_path FROM scans")
	if err != nil {
		return 0, fmt.Errorf("failed to list roots: %w", err)
	}
	defer roots.Close()

	var rootPaths []string
	for roots.Next() {
		var root string
		if err := roots.Scan(&root); err != nil {
			return 0, err
		}
		rootPaths = append(rootPaths, root)
	}
	if err := roots.Err(); err != nil {
		return 0, err
	}

	deleted := 0
	for _, root := range rootPaths {
		res, err := d.conn.Exec(`
			DELETE FROM scans WHERE root_path = ? AND id NOT IN (
				SELECT id FROM scans WHERE root_path = ?
				ORDER BY timestamp DESC LIMIT ?
			)
		`, root, root, keep)
		if err != nil {
			return deleted, fmt.Errorf("failed to prune scans for %s: %w", root, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			deleted += int(n)
		}
	}
	return deleted, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (d *DB) scanRow(row *sql.Row) (*models.ScanResult, error) {
	return d.scanRowFrom(row)
}

func (d *DB) scanRowFrom(row rowScanner) (*models.ScanResult, error) {
	var (
		result     models.ScanResult
		ts         time.Time
		total      int64
		diskTotal  int64
		diskUsed   int64
		diskFree   int64
		diskAvail  int64
		volumeName sql.NullString
		fsType     sql.NullString
		container  sql.NullString
	)

	err := row.Scan(
		&result.ID, &ts, &result.RootPath, &total,
		&diskTotal, &diskUsed, &diskFree, &diskAvail,
		&volumeName, &fsType, &container,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scan row: %w", err)
	}

	result.Timestamp = ts
	result.TotalScannedBytes = uint64(total)
	result.Disk = models.DiskInfo{
		TotalBytes:     uint64(diskTotal),
		UsedBytes:      uint64(diskUsed),
		FreeBytes:      uint64(diskFree),
		AvailableBytes: uint64(diskAvail),
		VolumeName:     volumeName.String,
		FSType:         fsType.String,
		APFSContainer:  container.String,
	}

	if err := d.loadEntries(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (d *DB) loadEntries(result *models.ScanResult) error {
	rows, err := d.conn.Query(`
		SELECT path, size_bytes, is_dir, file_count FROM entries
		WHERE scan_id = ? ORDER BY size_bytes DESC
	`, result.ID)
	if err != nil {
		return fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	result.Directories = []models.DirEntry{}
	result.LargeFiles = []models.FileEntry{}

	for rows.Next() {
		var (
			path  string
			size  int64
			isDir bool
			count sql.NullInt64
		)
		if err := rows.Scan(&path, &size, &isDir, &count); err != nil {
			return err
		}
		if isDir {
			entry := models.DirEntry{Path: path, SizeBytes: uint64(size)}
			if count.Valid {
				n := count.Int64
				entry.FileCount = &n
			}
			result.Directories = append(result.Directories, entry)
		} else {
			result.LargeFiles = append(result.LargeFiles, models.FileEntry{
				Path:      path,
				SizeBytes: uint64(size),
			})
		}
	}
	return rows.Err()
}
