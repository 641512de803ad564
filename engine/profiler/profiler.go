package profiler

import (
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Profiler tracks bake progress and memory statistics for performance monitoring.
// Work units may be reported concurrently from any number of workers.
// Outputs stats to the logger at a configurable interval.
type Profiler struct {
	mu sync.Mutex

	logger logrus.FieldLogger
	label  string

	total          int
	done           int
	doneAtLastLog  int
	startTime      time.Time
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler for a job of the given size.
// Update interval defaults to 1 second.
//
// Parameters:
//   - logger: the logger stats are written to
//   - label: a name for the job, attached to every log entry
//   - total: the total number of texels the job will report
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger logrus.FieldLogger, label string, total int) *Profiler {
	now := time.Now()
	return &Profiler{
		logger:         logger,
		label:          label,
		total:          total,
		startTime:      now,
		lastTime:       now,
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
	}
}

// SetUpdateInterval changes how often stats are logged.
//
// Parameters:
//   - interval: the minimum time between two log entries
func (p *Profiler) SetUpdateInterval(interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updateInterval = interval
}

// Done returns the number of texels reported so far.
//
// Returns:
//   - int: the running texel count
func (p *Profiler) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Tick should be called once per finished work unit.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: progress, texel rate, heap usage, allocation rate, GC count/pause times, total memory.
//
// Parameters:
//   - texels: the number of texels the finished unit produced
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(texels int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done += texels
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	rate := float64(p.done-p.doneAtLastLog) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	progress := 100.0
	if p.total > 0 {
		progress = 100 * float64(p.done) / float64(p.total)
	}

	p.logger.WithFields(logrus.Fields{
		"table":       p.label,
		"progress":    progress,
		"texelsPerS":  rate,
		"heapMB":      allocMB,
		"allocRateMB": allocRateMB,
		"gc":          gcCount,
		"gcLastUs":    lastPauseUs,
		"gcMaxUs":     maxPauseUs,
		"sysMB":       sysMB,
	}).Info("bake progress")

	p.lastTime = currentTime
	p.doneAtLastLog = p.done
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Finish logs the total elapsed time and average texel rate of the job.
//
// Returns:
//   - time.Duration: the time since the profiler was created
func (p *Profiler) Finish() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(p.done) / elapsed.Seconds()
	}
	p.logger.WithFields(logrus.Fields{
		"table":      p.label,
		"texels":     p.done,
		"elapsed":    elapsed,
		"texelsPerS": rate,
	}).Info("table baked")
	return elapsed
}
