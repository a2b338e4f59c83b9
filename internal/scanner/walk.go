package scanner

import (
	"context"
	"io/fs"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"golang.org/x/sys/unix"

	"github.com/dusk-sh/dusk/internal/models"
)

// walkLargeFiles is the tier of last resort for hosts without find: a
// parallel directory walk that collects regular files of at least
// minBytes without crossing filesystem boundaries. Walk errors are
// skipped; whatever was collected when the deadline fires is returned.
func walkLargeFiles(root string, minBytes uint64, timeout time.Duration) []models.FileEntry {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var rootSt unix.Stat_t
	haveRootDev := unix.Lstat(root, &rootSt) == nil

	var mu sync.Mutex
	files := []models.FileEntry{}

	conf := &fastwalk.Config{Follow: false}
	fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return context.Canceled
		default:
		}

		if d.IsDir() {
			if haveRootDev {
				var st unix.Stat_t
				if unix.Lstat(path, &st) == nil && st.Dev != rootSt.Dev {
					return fs.SkipDir
				}
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}
		if uint64(fi.Size()) < minBytes {
			return nil
		}

		mu.Lock()
		files = append(files, models.FileEntry{Path: path, SizeBytes: uint64(fi.Size())})
		mu.Unlock()
		return nil
	})

	return files
}
