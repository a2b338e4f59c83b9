package docker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"0B", 0},
		{"", 0},
		{"512B", 512},
		{"5.2kB", 5200},
		{"1KB", 1024},
		{"178.3MB", 178_300_000},
		{"2.88GB", 2_880_000_000},
		{"1.5TB", 1_500_000_000_000},
		{"  42MB ", 42_000_000},
		{"garbage", 0},
		{"MB", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSize(tt.in))
		})
	}
}

const sampleDf = `{
  "Images": [
    {"Repository": "postgres", "Tag": "16", "ID": "sha256:0123456789abcdef0123", "Size": "431MB", "UniqueSize": "200MB", "SharedSize": "231MB", "CreatedSince": "3 weeks ago", "Containers": "1"},
    {"Repository": "", "Tag": "", "ID": "sha256:feedfacefeedfacefeed", "Size": "1.2GB", "UniqueSize": "1.2GB", "SharedSize": "0B", "CreatedSince": "5 months ago", "Containers": "0"}
  ],
  "Containers": [
    {"Names": "db", "Image": "postgres:16", "ID": "aabbccddeeff00112233", "Size": "12.5MB (virtual 443MB)", "State": "running", "Status": "Up 2 days", "RunningFor": "2 days ago"}
  ],
  "Volumes": [
    {"Name": "pgdata", "Size": "310MB", "Driver": "local", "Mountpoint": "/var/lib/docker/volumes/pgdata/_data"}
  ],
  "BuildCache": [
    {"CacheType": "regular", "Size": "100MB", "InUse": false},
    {"CacheType": "regular", "Size": "50MB", "InUse": true},
    {"CacheType": "source.local", "Size": "10MB", "InUse": false}
  ]
}`

func TestBuildReport(t *testing.T) {
	var data systemDf
	require.NoError(t, json.Unmarshal([]byte(sampleDf), &data))

	rep := buildReport(&data)

	require.Len(t, rep.Images, 2)
	// Sorted largest-first; the dangling image is bigger.
	assert.Equal(t, "<none>", rep.Images[0].Repo)
	assert.Equal(t, uint64(1_200_000_000), rep.Images[0].SizeBytes)
	assert.Equal(t, "postgres", rep.Images[1].Repo)
	assert.Equal(t, 1, rep.Images[1].Containers)
	assert.Len(t, rep.Images[0].ImageID, 19)

	require.Len(t, rep.Containers, 1)
	// Writable layer only, not the virtual size.
	assert.Equal(t, uint64(12_500_000), rep.Containers[0].SizeBytes)
	assert.Equal(t, "aabbccddeeff", rep.Containers[0].ContainerID)

	o := rep.Overview
	assert.Equal(t, 2, o.ImagesTotal)
	assert.Equal(t, 1, o.ImagesActive)
	assert.Equal(t, uint64(1_200_000_000), o.ImagesReclaimable)
	assert.Equal(t, 1, o.ContainersActive)
	assert.Equal(t, uint64(310_000_000), o.VolumesSize)
	assert.Equal(t, o.VolumesSize, o.VolumesReclaimable)

	assert.Equal(t, 3, o.BuildCacheTotal)
	assert.Equal(t, uint64(160_000_000), o.BuildCacheSize)
	assert.Equal(t, uint64(110_000_000), o.BuildCacheReclaimable)
	assert.Equal(t, uint64(150_000_000), rep.BuildCacheByType["regular"])
	assert.Equal(t, uint64(10_000_000), rep.BuildCacheByType["source.local"])
}
