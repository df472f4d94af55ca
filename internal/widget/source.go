package widget

import "time"

// MemoryStats is a virtual memory snapshot in bytes.
type MemoryStats struct {
	Total     uint64
	Used      uint64
	Cached    uint64
	Available uint64
}

// IOCounters are monotonically increasing byte totals. For network
// interfaces In is received and Out is sent; for disks In is read and Out is
// written.
type IOCounters struct {
	In  uint64
	Out uint64
}

// Process is one row of the process table.
type Process struct {
	PID           int32
	Name          string
	Command       string
	CPUPercent    float64
	MemoryPercent float64
	RSS           uint64
}

// Battery is the state of the first battery found. Present is false on
// machines without one.
type Battery struct {
	Present   bool
	Percent   float64
	State     string
	Remaining time.Duration
	RateWatts float64
}

// Source is the telemetry backend polled by the widgets.
type Source interface {
	CPUPercents() ([]float64, error)
	Memory() (MemoryStats, error)
	NetIO() (IOCounters, error)
	DiskIO() (IOCounters, error)
	Processes() ([]Process, error)
	Battery() (Battery, error)
	Platform() (string, error)
}
