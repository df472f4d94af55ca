package widget

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/distatus/battery"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// SystemSource reads telemetry from the running host.
type SystemSource struct{}

var _ Source = SystemSource{}

// CPUPercents returns per-CPU utilisation since the previous call.
func (SystemSource) CPUPercents() ([]float64, error) {
	return cpu.Percent(0, true)
}

func (SystemSource) Memory() (MemoryStats, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return MemoryStats{}, err
	}
	return MemoryStats{
		Total:     vm.Total,
		Used:      vm.Used,
		Cached:    vm.Cached,
		Available: vm.Available,
	}, nil
}

func (SystemSource) NetIO() (IOCounters, error) {
	stats, err := net.IOCounters(false)
	if err != nil {
		return IOCounters{}, err
	}
	if len(stats) == 0 {
		return IOCounters{}, errors.New("no network counters")
	}
	return IOCounters{In: stats[0].BytesRecv, Out: stats[0].BytesSent}, nil
}

func (SystemSource) DiskIO() (IOCounters, error) {
	stats, err := disk.IOCounters()
	if err != nil {
		return IOCounters{}, err
	}
	var out IOCounters
	for _, s := range stats {
		out.In += s.ReadBytes
		out.Out += s.WriteBytes
	}
	return out, nil
}

// Processes lists every visible process. Fields that cannot be read (for
// example other users' command lines) are left empty.
func (SystemSource) Processes() ([]Process, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			// Process exited between listing and reading.
			continue
		}
		row := Process{PID: p.Pid, Name: name}
		row.Command, _ = p.Cmdline()
		row.CPUPercent, _ = p.CPUPercent()
		if pct, err := p.MemoryPercent(); err == nil {
			row.MemoryPercent = float64(pct)
		}
		if info, err := p.MemoryInfo(); err == nil && info != nil {
			row.RSS = info.RSS
		}
		out = append(out, row)
	}
	return out, nil
}

func (SystemSource) Battery() (Battery, error) {
	bats, err := battery.GetAll()
	var first *battery.Battery
	for _, b := range bats {
		if b != nil {
			first = b
			break
		}
	}
	if first == nil {
		if err != nil {
			return Battery{}, err
		}
		return Battery{}, nil
	}
	return batteryFrom(first.State.String(), first.Current, first.Full, first.ChargeRate), nil
}

// batteryFrom converts raw readings (mWh, mW) into a Battery.
func batteryFrom(state string, current, full, rateMW float64) Battery {
	b := Battery{Present: true, State: state, RateWatts: rateMW / 1000}
	if full > 0 {
		b.Percent = current / full * 100
	}
	if rateMW > 0 {
		var hours float64
		switch strings.ToLower(state) {
		case "discharging":
			hours = current / rateMW
		case "charging":
			hours = (full - current) / rateMW
		}
		if hours > 0 {
			b.Remaining = time.Duration(hours * float64(time.Hour))
		}
	}
	return b
}

func (SystemSource) Platform() (string, error) {
	info, err := host.Info()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s (%s)", info.Platform, info.PlatformVersion, info.KernelArch, info.KernelVersion), nil
}
