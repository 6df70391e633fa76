package system

import (
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/prometheus/procfs"
)

// Stats is one best-effort reading of the host's resource counters.
// Pointer fields serialize as null when the underlying counter is
// unavailable; they are never fabricated.
type Stats struct {
	CPUPercent     *float64 `json:"cpu_percent"`
	CPULoad1m      float64  `json:"cpu_load_1m"`
	CPUCores       int      `json:"cpu_cores"`
	GPUPercent     *float64 `json:"gpu_percent"`
	TempC          *float64 `json:"temp_c"`
	MemUsedPercent *float64 `json:"mem_used_percent"`
}

// Sampler reads host resource counters. CPU utilization needs two
// consecutive readings, so the first sample after construction reports it
// as absent rather than a misleading zero.
type Sampler struct {
	fs   procfs.FS
	fsOK bool

	cores     int
	gpuPaths  []string
	tempPaths []string

	prevIdle  float64
	prevTotal float64
	havePrev  bool
}

// NewSampler creates a Sampler reading from the host's /proc and /sys.
func NewSampler() *Sampler {
	return NewSamplerWithRoots(procfs.DefaultMountPoint, "/sys")
}

// NewSamplerWithRoots creates a Sampler rooted at the given proc and sys
// mount points. Tests point these at fixture directories.
func NewSamplerWithRoots(procRoot, sysRoot string) *Sampler {
	s := &Sampler{
		cores: runtime.NumCPU(),
		gpuPaths: []string{
			sysRoot + "/devices/platform/17000000.ga10b/devfreq/17000000.ga10b/load",
			sysRoot + "/devices/gpu.0/load",
		},
		tempPaths: []string{
			sysRoot + "/class/thermal/thermal_zone0/temp",
			sysRoot + "/devices/virtual/thermal/thermal_zone0/temp",
		},
	}

	if fs, err := procfs.NewFS(procRoot); err == nil {
		s.fs = fs
		s.fsOK = true
	}

	return s
}

// Sample collects one Stats reading. Individual counter failures degrade the
// affected field to absent; Sample itself never fails.
func (s *Sampler) Sample() Stats {
	st := Stats{CPUCores: s.cores}

	st.CPUPercent = s.sampleCPU()
	st.GPUPercent = s.readGPUPercent()
	st.TempC = s.readTempC()
	st.MemUsedPercent = s.readMemUsedPercent()

	if s.fsOK {
		if la, err := s.fs.LoadAvg(); err == nil {
			st.CPULoad1m = roundTo(la.Load1, 2)
		}
	}

	return st
}

// sampleCPU derives utilization from the delta of cumulative busy/idle
// counters. Iowait is counted as idle, matching the overlay's HUD reading.
func (s *Sampler) sampleCPU() *float64 {
	if !s.fsOK {
		return nil
	}

	stat, err := s.fs.Stat()
	if err != nil {
		return nil
	}

	c := stat.CPUTotal
	idle := c.Idle + c.Iowait
	total := c.User + c.Nice + c.System + c.Idle + c.Iowait + c.IRQ + c.SoftIRQ + c.Steal + c.Guest + c.GuestNice

	if !s.havePrev {
		s.prevIdle = idle
		s.prevTotal = total
		s.havePrev = true
		return nil
	}

	totalDelta := total - s.prevTotal
	idleDelta := idle - s.prevIdle
	s.prevIdle = idle
	s.prevTotal = total

	if totalDelta <= 0 {
		return nil
	}

	usage := clamp(100.0*(1.0-idleDelta/totalDelta), 0.0, 100.0)
	return ptr(roundTo(usage, 1))
}

func (s *Sampler) readGPUPercent() *float64 {
	for _, candidate := range s.gpuPaths {
		value, ok := readScaledFile(candidate, 1.0)
		if !ok {
			continue
		}
		// Some devfreq counters report load in per-mille rather than
		// percent; rescale when the raw value is clearly out of range.
		if value > 100.0 {
			value /= 10.0
		}
		return ptr(clamp(value, 0.0, 100.0))
	}
	return nil
}

func (s *Sampler) readTempC() *float64 {
	for _, candidate := range s.tempPaths {
		if value, ok := readScaledFile(candidate, 1000.0); ok {
			return ptr(value)
		}
	}
	return nil
}

func (s *Sampler) readMemUsedPercent() *float64 {
	if !s.fsOK {
		return nil
	}

	mi, err := s.fs.Meminfo()
	if err != nil || mi.MemTotal == nil || mi.MemAvailable == nil || *mi.MemTotal == 0 {
		return nil
	}

	total := float64(*mi.MemTotal)
	available := float64(*mi.MemAvailable)
	usedPct := clamp(100.0*((total-available)/total), 0.0, 100.0)
	return ptr(roundTo(usedPct, 1))
}

func readScaledFile(path string, scale float64) (float64, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, false
	}

	return value / scale, true
}

func clamp(value, low, high float64) float64 {
	return math.Max(low, math.Min(high, value))
}

func roundTo(value float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(value*shift) / shift
}

func ptr(v float64) *float64 {
	return &v
}
