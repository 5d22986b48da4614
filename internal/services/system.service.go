package services

import (
	"fmt"
	"log"
	"runtime"

	"deskbridge/internal/models"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

const GB = 1024 * 1024 * 1024

// systemInfo never changes during a process lifetime, so it is resolved
// once at init and handed out by value.
var systemInfo = models.SystemInfo{
	OS:     runtime.GOOS,
	Arch:   runtime.GOARCH,
	Family: osFamily(runtime.GOOS),
}

func osFamily(goos string) string {
	if goos == "windows" {
		return "windows"
	}
	return "unix"
}

// Greet returns the shell's greeting with name interpolated verbatim.
func Greet(name string) string {
	return fmt.Sprintf("Hello, %s! Welcome to DeskBridge.", name)
}

// GetSystemInfo returns the static host identifiers. Always succeeds.
func GetSystemInfo() models.SystemInfo {
	return systemInfo
}

// GetHostInfo returns extended host details for the shell's diagnostics
// view. Lookup failures degrade to the static triple instead of erroring.
func GetHostInfo() models.HostInfo {
	hi := models.HostInfo{SystemInfo: systemInfo}

	info, err := host.Info()
	if err != nil {
		log.Printf("Warning: Could not get host info: %v", err)
		return hi
	}

	hi.Hostname = info.Hostname
	hi.Platform = info.Platform
	hi.PlatformVersion = info.PlatformVersion
	hi.KernelVersion = info.KernelVersion
	hi.UptimeSeconds = info.Uptime
	return hi
}

// GetHostStats returns a fresh resource snapshot. Each section is
// best-effort; a failed probe leaves its fields zeroed.
func GetHostStats() models.HostStats {
	var stats models.HostStats

	if percentage, err := cpu.Percent(0, false); err == nil && len(percentage) > 0 {
		stats.CPUPercent = percentage[0]
	} else if err != nil {
		log.Printf("Warning: Could not get CPU usage: %v", err)
	}

	if coreCount, err := cpu.Counts(true); err == nil {
		stats.CoreCount = coreCount
	}

	if virtualMemory, err := mem.VirtualMemory(); err == nil {
		stats.MemoryUsedGB = float64(virtualMemory.Used) / GB
		stats.MemoryTotalGB = float64(virtualMemory.Total) / GB
		stats.MemoryPercent = virtualMemory.UsedPercent
	} else {
		log.Printf("Warning: Could not get memory usage: %v", err)
	}

	if usage, err := disk.Usage(rootPath()); err == nil {
		stats.DiskUsedGB = float64(usage.Used) / GB
		stats.DiskTotalGB = float64(usage.Total) / GB
		stats.DiskPercent = usage.UsedPercent
	} else {
		log.Printf("Warning: Could not get disk usage: %v", err)
	}

	return stats
}

func rootPath() string {
	if runtime.GOOS == "windows" {
		return "C:\\"
	}
	return "/"
}
