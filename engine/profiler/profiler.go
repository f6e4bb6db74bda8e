package profiler

import (
	"log"
	"runtime"
	"sync"
	"time"
)

// Stats is one reporting window of step timings.
type Stats struct {
	Steps     int
	StepsPerS float64
	AvgStep   time.Duration
	MaxStep   time.Duration
	Mounts    int
}

// Profiler tracks rig step timing and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval. Safe for concurrent use.
type Profiler struct {
	mu sync.Mutex

	label          string
	now            func() time.Time
	logf           func(format string, args ...any)
	updateInterval time.Duration

	stepCount   int
	stepTotal   time.Duration
	stepMax     time.Duration
	mounts      int
	lastTime    time.Time
	last        Stats
	memStats    runtime.MemStats
	lastGCCount uint32
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often stats are logged.
//
// Parameters:
//   - d: reporting interval
//
// Returns:
//   - ProfilerOption: functional option to set the interval
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// WithLabel sets the name printed in each log line.
//
// Parameters:
//   - label: display name
//
// Returns:
//   - ProfilerOption: functional option to set the label
func WithLabel(label string) ProfilerOption {
	return func(p *Profiler) {
		p.label = label
	}
}

// WithClock replaces time.Now, for tests.
//
// Parameters:
//   - now: clock function
//
// Returns:
//   - ProfilerOption: functional option to set the clock
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithLogger replaces log.Printf as the output sink.
//
// Parameters:
//   - logf: printf-style sink
//
// Returns:
//   - ProfilerOption: functional option to set the sink
func WithLogger(logf func(format string, args ...any)) ProfilerOption {
	return func(p *Profiler) {
		p.logf = logf
	}
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		label:          "rig",
		now:            time.Now,
		logf:           log.Printf,
		updateInterval: time.Second,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// Observe records one step and logs a summary when the update interval has elapsed.
// Statistics include steps per second, average and worst step time, mount count, heap
// usage, and GC count.
//
// Parameters:
//   - took: how long the step ran
//   - mounts: how many cameras the step updated
//
// Returns:
//   - bool: true if stats were logged this call, false otherwise
func (p *Profiler) Observe(took time.Duration, mounts int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stepCount++
	p.stepTotal += took
	p.stepMax = max(p.stepMax, took)
	p.mounts = mounts

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	p.last = Stats{
		Steps:     p.stepCount,
		StepsPerS: float64(p.stepCount) / elapsed.Seconds(),
		AvgStep:   p.stepTotal / time.Duration(p.stepCount),
		MaxStep:   p.stepMax,
		Mounts:    p.mounts,
	}

	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024
	gcDelta := p.memStats.NumGC - p.lastGCCount

	p.logf("[Profiler] %s: %.1f steps/s | step avg %d µs, max %d µs | mounts: %d | Heap: %.2f MB | GC: +%d",
		p.label, p.last.StepsPerS, p.last.AvgStep.Microseconds(), p.last.MaxStep.Microseconds(), p.last.Mounts, heapMB, gcDelta)

	p.stepCount = 0
	p.stepTotal = 0
	p.stepMax = 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	return true
}

// Last returns the most recently logged window.
//
// Returns:
//   - Stats: the last reported stats, zero before the first report
func (p *Profiler) Last() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
