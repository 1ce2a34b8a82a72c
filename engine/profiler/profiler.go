package profiler

import (
	"runtime"
	"time"

	"github.com/pneumostabsim/pneumostabsim/common"
	"github.com/rs/zerolog"
)

// Stats is one sampling window of frame rate and memory statistics.
type Stats struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Emits Stats to the debug log at a configurable interval.
type Profiler struct {
	clock  common.Clock
	logger zerolog.Logger

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithClock sets the time source.
func WithClock(clock common.Clock) ProfilerOption {
	return func(p *Profiler) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithLogger sets the logger the sampled statistics are written to.
func WithLogger(logger zerolog.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.logger = logger
	}
}

// WithInterval sets the sampling window. Non-positive values keep the default.
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		clock:          common.RealClock{},
		logger:         zerolog.Nop(),
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.clock.Now()
	return p
}

// Last returns the most recently completed sample.
//
// Returns:
//   - Stats: the last sample, zero before the first window completes
func (p *Profiler) Last() Stats {
	return p.last
}

// Tick should be called once per frame to track frame timing.
// When the update interval has elapsed it samples memory statistics, logs
// them at debug level and starts a new window.
//
// Returns:
//   - Stats: the completed sample, valid only when ok is true
//   - bool: true if a sample was taken this tick
func (p *Profiler) Tick() (Stats, bool) {
	p.frameCount++
	currentTime := p.clock.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return Stats{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	stats := Stats{
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:   float64(p.memStats.Sys) / 1024 / 1024,
		GCCount: p.memStats.NumGC,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	stats.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if gc := stats.GCCount; gc > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		stats.LastPauseUs = p.memStats.PauseNs[(gc-1)%256] / 1000
		start := p.lastGCCount
		if gc-start > 256 {
			start = gc - 256
		}
		for i := start; i < gc; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > stats.MaxPauseUs {
				stats.MaxPauseUs = pause
			}
		}
	}

	p.logger.Debug().
		Float64("fps", stats.FPS).
		Float64("heapMB", stats.HeapMB).
		Float64("allocRateMBs", stats.AllocRateMB).
		Uint32("gc", stats.GCCount).
		Uint64("lastPauseUs", stats.LastPauseUs).
		Uint64("maxPauseUs", stats.MaxPauseUs).
		Float64("sysMB", stats.SysMB).
		Msg("profiler")

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = stats.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = stats
	return stats, true
}
