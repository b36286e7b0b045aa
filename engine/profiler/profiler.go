// Package profiler reports frame rate and memory statistics in debug mode.
package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-hover/engine/logging"
	"go.uber.org/zap"
)

// Report is one interval's worth of statistics.
type Report struct {
	FPS          float64
	Animating    float64 // average number of animating controllers per frame
	HeapMB       float64
	AllocRateMB  float64 // MB allocated per second over the interval
	GCCount      uint32
	LastPauseUs  uint64
	MaxPauseUs   uint64
	SysMB        float64
	IntervalSecs float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs one structured log line per interval.
type Profiler struct {
	frameCount     int
	animatingSum   int
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time
	readMem        bool
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	log            *zap.Logger
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often a report is produced. Non-positive values keep the default of one second.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// WithMemStats toggles reading runtime memory statistics into each report. On by default.
func WithMemStats(enabled bool) ProfilerOption {
	return func(p *Profiler) {
		p.readMem = enabled
	}
}

// WithLogger sets the logger reports are written to.
func WithLogger(l *zap.Logger) ProfilerOption {
	return func(p *Profiler) {
		if l != nil {
			p.log = l
		}
	}
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: variadic list of ProfilerOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		readMem:        true,
		log:            logging.Named("profiler"),
	}
	for _, opt := range options {
		if opt == nil {
			panic("profiler: nil option")
		}
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per rendered frame.
// Logs a report when the update interval has elapsed.
//
// Parameters:
//   - animating: the number of controllers animating this frame
//
// Returns:
//   - Report: the statistics for the elapsed interval, zero if none elapsed
//   - bool: true if a report was produced this tick
func (p *Profiler) Tick(animating int) (Report, bool) {
	p.frameCount++
	p.animatingSum += animating
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return Report{}, false
	}

	secs := elapsed.Seconds()
	r := Report{
		FPS:          float64(p.frameCount) / secs,
		Animating:    float64(p.animatingSum) / float64(p.frameCount),
		IntervalSecs: secs,
	}

	if p.readMem {
		runtime.ReadMemStats(&p.memStats)
		r.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
		r.SysMB = float64(p.memStats.Sys) / 1024 / 1024
		r.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / secs
		r.GCCount = p.memStats.NumGC
		r.LastPauseUs, r.MaxPauseUs = p.pauses()
		p.lastGCCount = p.memStats.NumGC
		p.lastTotalAlloc = p.memStats.TotalAlloc
	}

	p.log.Info("frame stats",
		zap.Float64("fps", r.FPS),
		zap.Float64("animating", r.Animating),
		zap.Float64("heap_mb", r.HeapMB),
		zap.Float64("alloc_rate_mb", r.AllocRateMB),
		zap.Uint32("gc", r.GCCount),
		zap.Uint64("gc_last_us", r.LastPauseUs),
		zap.Uint64("gc_max_us", r.MaxPauseUs),
		zap.Float64("sys_mb", r.SysMB),
	)

	p.frameCount = 0
	p.animatingSum = 0
	p.lastTime = currentTime
	return r, true
}

// pauses returns the last GC pause and the longest pause since the previous report, in microseconds.
// PauseNs is a circular buffer of the last 256 pauses.
func (p *Profiler) pauses() (uint64, uint64) {
	gcCount := p.memStats.NumGC
	if gcCount == 0 {
		return 0, 0
	}
	last := p.memStats.PauseNs[(gcCount-1)%256] / 1000

	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	var maxPause uint64
	for i := startIdx; i < gcCount; i++ {
		if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxPause {
			maxPause = pause
		}
	}
	return last, maxPause
}
