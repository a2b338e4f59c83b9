package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-sh/dusk/internal/models"
)

func snapshot(root string, dirs map[string]uint64) *models.ScanResult {
	r := &models.ScanResult{
		Timestamp: time.Now(),
		RootPath:  root,
	}
	for name, size := range dirs {
		r.Directories = append(r.Directories, models.DirEntry{
			Path:      root + "/" + name,
			SizeBytes: size,
		})
		r.TotalScannedBytes += size
	}
	return r
}

func TestCompareMatchedAndRemoved(t *testing.T) {
	current := snapshot("/data", map[string]uint64{"A": 100, "B": 200})
	previous := snapshot("/data", map[string]uint64{"A": 80, "B": 200, "C": 50})

	c := Compare(current, previous)

	require.Len(t, c.Trends, 2)
	// A grew by 20 and must outrank the unchanged B.
	assert.Equal(t, "/data/A", c.Trends[0].Path)
	assert.Equal(t, int64(20), c.Trends[0].DeltaBytes)
	assert.InDelta(t, 25.0, c.Trends[0].DeltaPercent, 1e-9)
	assert.Equal(t, int64(0), c.Trends[1].DeltaBytes)

	require.Len(t, c.RemovedDirs, 1)
	assert.Equal(t, "/data/C", c.RemovedDirs[0].Path)
	assert.Equal(t, uint64(50), c.RemovedDirs[0].SizeBytes)
	assert.Empty(t, c.NewDirs)

	assert.Equal(t, int64(300)-int64(330), c.OverallDelta)
}

func TestCompareNewDirectory(t *testing.T) {
	current := snapshot("/data", map[string]uint64{"D": 500})
	previous := snapshot("/data", nil)

	c := Compare(current, previous)

	assert.Empty(t, c.Trends)
	assert.Empty(t, c.RemovedDirs)
	require.Len(t, c.NewDirs, 1)
	assert.Equal(t, "/data/D", c.NewDirs[0].Path)
	assert.Equal(t, uint64(500), c.NewDirs[0].SizeBytes)
	assert.Equal(t, int64(500), c.OverallDelta)
}

func TestCompareSelfIsZero(t *testing.T) {
	s := snapshot("/data", map[string]uint64{"A": 100, "B": 200, "C": 300})

	c := Compare(s, s)

	assert.Equal(t, int64(0), c.OverallDelta)
	assert.Empty(t, c.NewDirs)
	assert.Empty(t, c.RemovedDirs)
	require.Len(t, c.Trends, 3)
	for _, tr := range c.Trends {
		assert.Equal(t, int64(0), tr.DeltaBytes)
		assert.Equal(t, 0.0, tr.DeltaPercent)
	}
}

func TestCompareEmptyInputs(t *testing.T) {
	c := Compare(snapshot("/a", nil), snapshot("/b", nil))

	assert.Empty(t, c.Trends)
	assert.Empty(t, c.NewDirs)
	assert.Empty(t, c.RemovedDirs)
	assert.Equal(t, int64(0), c.OverallDelta)
}

func TestCompareZeroPreviousPercent(t *testing.T) {
	current := snapshot("/data", map[string]uint64{"A": 100})
	previous := snapshot("/data", map[string]uint64{"A": 0})

	c := Compare(current, previous)

	require.Len(t, c.Trends, 1)
	assert.Equal(t, int64(100), c.Trends[0].DeltaBytes)
	// Division by zero must collapse to 0.0, not NaN/Inf.
	assert.Equal(t, 0.0, c.Trends[0].DeltaPercent)
}

func TestCompareMatchesByBaseName(t *testing.T) {
	// Different absolute roots, same base names.
	current := snapshot("/mnt/backup/home", map[string]uint64{"photos": 300})
	previous := snapshot("/home", map[string]uint64{"photos": 100})

	c := Compare(current, previous)

	require.Len(t, c.Trends, 1)
	assert.Equal(t, "/mnt/backup/home/photos", c.Trends[0].Path)
	assert.Equal(t, int64(200), c.Trends[0].DeltaBytes)
	assert.InDelta(t, 200.0, c.Trends[0].DeltaPercent, 1e-9)
}

func TestCompareTrailingSeparator(t *testing.T) {
	current := &models.ScanResult{
		Directories:       []models.DirEntry{{Path: "/data/logs/", SizeBytes: 40}},
		TotalScannedBytes: 40,
	}
	previous := &models.ScanResult{
		Directories:       []models.DirEntry{{Path: "/data/logs", SizeBytes: 10}},
		TotalScannedBytes: 10,
	}

	c := Compare(current, previous)

	require.Len(t, c.Trends, 1)
	assert.Equal(t, int64(30), c.Trends[0].DeltaBytes)
}

func TestCompareBaseNameCollisionLastWins(t *testing.T) {
	// Two full paths sharing a base name: the later entry silently
	// overwrites the earlier mapping slot. Accepted approximation.
	current := &models.ScanResult{
		Directories: []models.DirEntry{
			{Path: "/a/cache", SizeBytes: 100},
			{Path: "/b/cache", SizeBytes: 700},
		},
		TotalScannedBytes: 800,
	}
	previous := &models.ScanResult{
		Directories:       []models.DirEntry{{Path: "/a/cache", SizeBytes: 500}},
		TotalScannedBytes: 500,
	}

	c := Compare(current, previous)

	require.Len(t, c.Trends, 1)
	assert.Equal(t, "/b/cache", c.Trends[0].Path)
	assert.Equal(t, uint64(700), c.Trends[0].CurrentBytes)
	assert.Empty(t, c.NewDirs)
}

func TestCompareTrendOrderingAndInvariants(t *testing.T) {
	current := snapshot("/data", map[string]uint64{
		"a": 1000, "b": 50, "c": 5000, "d": 10, "e": 300,
	})
	previous := snapshot("/data", map[string]uint64{
		"a": 100, "b": 60, "c": 9000, "e": 300, "f": 77,
	})

	c := Compare(current, previous)

	// Every base name lands in exactly one bucket.
	assert.Len(t, c.Trends, 4)
	assert.Len(t, c.NewDirs, 1)
	assert.Len(t, c.RemovedDirs, 1)

	for i := 1; i < len(c.Trends); i++ {
		prev, cur := c.Trends[i-1], c.Trends[i]
		assert.GreaterOrEqual(t, abs(prev.DeltaBytes), abs(cur.DeltaBytes),
			"trends must be sorted by descending absolute delta")
	}

	for _, tr := range c.Trends {
		assert.Equal(t, tr.DeltaBytes, int64(tr.CurrentBytes)-int64(tr.PreviousBytes))
		if tr.PreviousBytes == 0 {
			assert.Equal(t, 0.0, tr.DeltaPercent)
		} else {
			want := float64(tr.DeltaBytes) / float64(tr.PreviousBytes) * 100
			assert.InDelta(t, want, tr.DeltaPercent, 1e-9)
		}
	}

	assert.Equal(t,
		int64(current.TotalScannedBytes)-int64(previous.TotalScannedBytes),
		c.OverallDelta)
}
