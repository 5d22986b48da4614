package models

// SystemInfo holds the static host identifiers, resolved once at startup.
type SystemInfo struct {
	OS     string `json:"os"`
	Arch   string `json:"arch"`
	Family string `json:"family"`
}

// HostInfo extends SystemInfo with live host details for the shell's
// about/diagnostics view. Fields are best-effort and may be empty.
type HostInfo struct {
	SystemInfo
	Hostname        string `json:"hostname,omitempty"`
	Platform        string `json:"platform,omitempty"`
	PlatformVersion string `json:"platform_version,omitempty"`
	KernelVersion   string `json:"kernel_version,omitempty"`
	UptimeSeconds   uint64 `json:"uptime_seconds"`
}

// HostStats is a point-in-time resource snapshot pushed to the shell.
type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	CoreCount     int     `json:"core_count"`
	MemoryUsedGB  float64 `json:"memory_used_gb"`
	MemoryTotalGB float64 `json:"memory_total_gb"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskUsedGB    float64 `json:"disk_used_gb"`
	DiskTotalGB   float64 `json:"disk_total_gb"`
	DiskPercent   float64 `json:"disk_percent"`
}
