package scanner

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuOutput(t *testing.T) {
	out := "16\t/data/a\n" +
		"1024\t/data/b\n" +
		"garbage line without tab\n" +
		"notanumber\t/data/c\n" +
		"2048\t/data\n" + // root itself, excluded
		"8\t/data/with\ttab" // SplitN keeps the rest of the path intact

	entries := parseDuOutput(out, "/data")

	require.Len(t, entries, 3)
	assert.Equal(t, "/data/a", entries[0].Path)
	assert.Equal(t, uint64(16*1024), entries[0].SizeBytes)
	assert.Equal(t, uint64(1024*1024), entries[1].SizeBytes)
	assert.Equal(t, "/data/with\ttab", entries[2].Path)
}

func TestParseDuOutputTruncatedLastLine(t *testing.T) {
	// A killed du leaves a torn final record; it must be skipped, not
	// poison the rows before it.
	out := "100\t/data/a\n200\t/da"
	entries := parseDuOutput(out, "/data")

	require.Len(t, entries, 1)
	assert.Equal(t, "/data/a", entries[0].Path)
}

func TestParseDuOutputEmpty(t *testing.T) {
	assert.Empty(t, parseDuOutput("", "/data"))
}

func TestScanDirectoriesRealTree(t *testing.T) {
	if _, err := exec.LookPath("du"); err != nil {
		t.Skip("du not installed")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "big", "blob"), 64*1024)
	writeFile(t, filepath.Join(root, "small", "note"), 1024)

	entries := ScanDirectories(root, 1, 20, 30*time.Second)

	require.Len(t, entries, 2)
	assert.Equal(t, filepath.Join(root, "big"), entries[0].Path)
	assert.Equal(t, filepath.Join(root, "small"), entries[1].Path)
	assert.Greater(t, entries[0].SizeBytes, entries[1].SizeBytes)
	for _, e := range entries {
		assert.NotEqual(t, filepath.Clean(root), filepath.Clean(e.Path))
	}
}

func TestScanDirectoriesTopN(t *testing.T) {
	if _, err := exec.LookPath("du"); err != nil {
		t.Skip("du not installed")
	}

	root := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d"} {
		writeFile(t, filepath.Join(root, name, "f"), 2048)
	}

	entries := ScanDirectories(root, 1, 2, 30*time.Second)
	assert.LessOrEqual(t, len(entries), 2)
}

func TestScanDirectoriesBadRoot(t *testing.T) {
	entries := ScanDirectories("/nonexistent/path/for/dusk", 1, 20, 10*time.Second)
	assert.Empty(t, entries)
}

func TestRunSalvageKeepsPartialOutput(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not installed")
	}

	// The process emits a row, then stalls past the deadline. The row
	// must survive the kill.
	cmd := exec.Command("sh", "-c", "printf '42\\t/data/x\\n'; exec sleep 30")
	start := time.Now()
	out, timedOut, _ := runSalvage(cmd, 500*time.Millisecond)

	assert.True(t, timedOut)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Contains(t, out, "42\t/data/x")

	entries := parseDuOutput(out, "/data")
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(42*1024), entries[0].SizeBytes)
}

func TestRunSalvageCompletes(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not installed")
	}

	cmd := exec.Command("sh", "-c", "echo done")
	out, timedOut, err := runSalvage(cmd, 10*time.Second)

	assert.False(t, timedOut)
	assert.NoError(t, err)
	assert.Contains(t, out, "done")
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
}
