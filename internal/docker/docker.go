// Package docker probes Docker's own disk accounting via the docker
// CLI. It is an independent data source from the filesystem scanner;
// when the CLI or daemon is missing it reports unavailability instead
// of degrading to zeros.
package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dusk-sh/dusk/internal/models"
)

// Timeout bounds the docker system df call; the daemon can be slow when
// it has to size volumes.
const Timeout = 30 * time.Second

// Available reports whether the docker CLI is installed.
func Available() bool {
	_, err := exec.LookPath("docker")
	return err == nil
}

// systemDf mirrors docker system df -v --format '{{json .}}'.
type systemDf struct {
	Images     []dfImage     `json:"Images"`
	Containers []dfContainer `json:"Containers"`
	Volumes    []dfVolume    `json:"Volumes"`
	BuildCache []dfCache     `json:"BuildCache"`
}

type dfImage struct {
	Repository   string `json:"Repository"`
	Tag          string `json:"Tag"`
	ID           string `json:"ID"`
	Size         string `json:"Size"`
	UniqueSize   string `json:"UniqueSize"`
	SharedSize   string `json:"SharedSize"`
	CreatedSince string `json:"CreatedSince"`
	Containers   string `json:"Containers"`
}

type dfContainer struct {
	Names      string `json:"Names"`
	Image      string `json:"Image"`
	ID         string `json:"ID"`
	Size       string `json:"Size"`
	State      string `json:"State"`
	Status     string `json:"Status"`
	RunningFor string `json:"RunningFor"`
}

type dfVolume struct {
	Name       string `json:"Name"`
	Size       string `json:"Size"`
	Driver     string `json:"Driver"`
	Mountpoint string `json:"Mountpoint"`
}

type dfCache struct {
	CacheType string `json:"CacheType"`
	Size      string `json:"Size"`
	InUse     bool   `json:"InUse"`
}

// Scan runs a full Docker disk usage analysis. It returns an error when
// the CLI is missing or the daemon is unreachable.
func Scan() (*models.DockerReport, error) {
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "docker", "system", "df", "-v", "--format", "{{json .}}").Output()
	if err != nil {
		return nil, fmt.Errorf("docker system df failed: %w", err)
	}

	var data systemDf
	if err := json.Unmarshal(out, &data); err != nil {
		return nil, fmt.Errorf("unexpected docker system df output: %w", err)
	}

	return buildReport(&data), nil
}

func buildReport(data *systemDf) *models.DockerReport {
	images := make([]models.DockerImage, 0, len(data.Images))
	for _, img := range data.Images {
		containers, _ := strconv.Atoi(img.Containers)
		images = append(images, models.DockerImage{
			Repo:        orNone(img.Repository),
			Tag:         orNone(img.Tag),
			ImageID:     truncate(img.ID, 19),
			SizeBytes:   ParseSize(img.Size),
			UniqueBytes: ParseSize(img.UniqueSize),
			SharedBytes: ParseSize(img.SharedSize),
			Created:     img.CreatedSince,
			Containers:  containers,
		})
	}
	sort.Slice(images, func(i, j int) bool { return images[i].SizeBytes > images[j].SizeBytes })

	containers := make([]models.DockerContainer, 0, len(data.Containers))
	for _, ctr := range data.Containers {
		// Container size reads "1.2MB (virtual 3.4GB)"; the writable
		// layer is the part before the parenthesis.
		sizePart := strings.TrimSpace(strings.SplitN(ctr.Size, "(", 2)[0])
		containers = append(containers, models.DockerContainer{
			Name:        ctr.Names,
			Image:       ctr.Image,
			ContainerID: truncate(ctr.ID, 12),
			SizeBytes:   ParseSize(sizePart),
			State:       ctr.State,
			Status:      ctr.Status,
			Created:     ctr.RunningFor,
		})
	}
	sort.Slice(containers, func(i, j int) bool { return containers[i].SizeBytes > containers[j].SizeBytes })

	volumes := make([]models.DockerVolume, 0, len(data.Volumes))
	for _, vol := range data.Volumes {
		volumes = append(volumes, models.DockerVolume{
			Name:       vol.Name,
			SizeBytes:  ParseSize(vol.Size),
			Driver:     vol.Driver,
			Mountpoint: vol.Mountpoint,
		})
	}
	sort.Slice(volumes, func(i, j int) bool { return volumes[i].SizeBytes > volumes[j].SizeBytes })

	cacheByType := map[string]uint64{}
	var cacheSize, cacheReclaimable uint64
	for _, bc := range data.BuildCache {
		size := ParseSize(bc.Size)
		cacheType := bc.CacheType
		if cacheType == "" {
			cacheType = "unknown"
		}
		cacheByType[cacheType] += size
		cacheSize += size
		if !bc.InUse {
			cacheReclaimable += size
		}
	}

	overview := models.DockerOverview{
		ImagesTotal:           len(images),
		ContainersTotal:       len(containers),
		VolumesTotal:          len(volumes),
		BuildCacheTotal:       len(data.BuildCache),
		BuildCacheSize:        cacheSize,
		BuildCacheReclaimable: cacheReclaimable,
	}
	for _, img := range images {
		overview.ImagesSize += img.SizeBytes
		if img.Containers > 0 {
			overview.ImagesActive++
		} else {
			overview.ImagesReclaimable += img.SizeBytes
		}
	}
	for _, ctr := range containers {
		overview.ContainersSize += ctr.SizeBytes
		if ctr.State == "running" {
			overview.ContainersActive++
		}
	}
	for _, vol := range volumes {
		overview.VolumesSize += vol.SizeBytes
	}
	// Volume link counts are not in the df output; treat all volume
	// bytes as reclaimable like docker's own summary does.
	overview.VolumesReclaimable = overview.VolumesSize

	return &models.DockerReport{
		Overview:         overview,
		Images:           images,
		Containers:       containers,
		Volumes:          volumes,
		BuildCacheByType: cacheByType,
	}
}

var sizeRe = regexp.MustCompile(`^([\d.]+)\s*(B|kB|KB|MB|GB|TB)`)

// ParseSize converts Docker size strings like "2.88GB", "178.3MB" or
// "5.2kB" to bytes. Docker uses decimal units except the legacy "KB".
func ParseSize(s string) uint64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "0B" {
		return 0
	}
	m := sizeRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	mult := map[string]float64{
		"B": 1, "kB": 1000, "KB": 1024, "MB": 1e6, "GB": 1e9, "TB": 1e12,
	}[m[2]]
	return uint64(math.Round(val * mult))
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
