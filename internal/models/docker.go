package models

// DockerImage is one image row from docker system df -v.
type DockerImage struct {
	Repo        string `json:"repo"`
	Tag         string `json:"tag"`
	ImageID     string `json:"image_id"`
	SizeBytes   uint64 `json:"size_bytes"`
	UniqueBytes uint64 `json:"unique_bytes"`
	SharedBytes uint64 `json:"shared_bytes"`
	Created     string `json:"created"`
	Containers  int    `json:"containers"`
}

// DockerContainer is one container row from docker system df -v.
type DockerContainer struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	ContainerID string `json:"container_id"`
	SizeBytes   uint64 `json:"size_bytes"`
	State       string `json:"state"`
	Status      string `json:"status"`
	Created     string `json:"created"`
}

// DockerVolume is one volume row from docker system df -v.
type DockerVolume struct {
	Name       string `json:"name"`
	SizeBytes  uint64 `json:"size_bytes"`
	Driver     string `json:"driver"`
	Mountpoint string `json:"mountpoint"`
}

// DockerOverview aggregates the per-category totals.
type DockerOverview struct {
	ImagesTotal       int    `json:"images_total"`
	ImagesActive      int    `json:"images_active"`
	ImagesSize        uint64 `json:"images_size"`
	ImagesReclaimable uint64 `json:"images_reclaimable"`

	ContainersTotal  int    `json:"containers_total"`
	ContainersActive int    `json:"containers_active"`
	ContainersSize   uint64 `json:"containers_size"`

	VolumesTotal       int    `json:"volumes_total"`
	VolumesActive      int    `json:"volumes_active"`
	VolumesSize        uint64 `json:"volumes_size"`
	VolumesReclaimable uint64 `json:"volumes_reclaimable"`

	BuildCacheTotal       int    `json:"build_cache_total"`
	BuildCacheSize        uint64 `json:"build_cache_size"`
	BuildCacheReclaimable uint64 `json:"build_cache_reclaimable"`
}

// DockerReport is the full Docker disk usage analysis.
type DockerReport struct {
	Overview         DockerOverview    `json:"overview"`
	Images           []DockerImage     `json:"images"`
	Containers       []DockerContainer `json:"containers"`
	Volumes          []DockerVolume    `json:"volumes"`
	BuildCacheByType map[string]uint64 `json:"build_cache_by_type"`
}
