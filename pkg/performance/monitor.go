package performance

import (
	"sync"
	"time"
)

// RollingAverage maintains a rolling average of durations over a fixed window
type RollingAverage struct {
	mu      sync.Mutex
	samples []time.Duration
	sum     time.Duration
	index   int
	filled  bool
}

// NewRollingAverage creates a rolling average tracker with specified window size
func NewRollingAverage(windowSize int) *RollingAverage {
	if windowSize <= 0 {
		windowSize = 1
	}
	return &RollingAverage{samples: make([]time.Duration, windowSize)}
}

// Add records a new sample, evicting the oldest one once the window is full
func (r *RollingAverage) Add(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.filled {
		r.sum -= r.samples[r.index]
	}
	r.samples[r.index] = d
	r.sum += d

	r.index++
	if r.index == len(r.samples) {
		r.index = 0
		r.filled = true
	}
}

// Average returns the current rolling average, or 0 without samples
func (r *RollingAverage) Average() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := r.count()
	if count == 0 {
		return 0
	}
	return r.sum / time.Duration(count)
}

// Count returns the number of samples currently tracked
func (r *RollingAverage) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count()
}

func (r *RollingAverage) count() int {
	if r.filled {
		return len(r.samples)
	}
	return r.index
}

// Reset clears all samples
func (r *RollingAverage) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.samples {
		r.samples[i] = 0
	}
	r.sum = 0
	r.index = 0
	r.filled = false
}

// Monitor tracks how decoded frames turn into rendered frames
type Monitor struct {
	mu          sync.Mutex
	renderTimes *RollingAverage
	rendered    int
	coalesced   int
	skipped     int
	startTime   time.Time
}

// Report contains aggregated render metrics
type Report struct {
	AvgRenderMs   float64 // Average render time in milliseconds
	Rendered      int     // Frames presented on the display
	Coalesced     int     // Render requests merged into an already pending one
	Skipped       int     // Requests dropped because the display was unavailable
	CoalesceRate  float64 // Percentage of requests that were merged
	IsHealthy     bool    // True when renders keep up with the decoder
	UptimeSeconds int64   // Seconds since the monitor started
}

// NewMonitor creates a new monitor.
// windowSize determines how many renders to average (50 = 2 seconds at 25fps)
func NewMonitor(windowSize int) *Monitor {
	return &Monitor{
		renderTimes: NewRollingAverage(windowSize),
		startTime:   time.Now(),
	}
}

// RecordFrameRender records the time taken to present a frame
func (m *Monitor) RecordFrameRender(d time.Duration) {
	m.renderTimes.Add(d)

	m.mu.Lock()
	m.rendered++
	m.mu.Unlock()
}

// RecordFrameCoalesced counts a render request merged into a pending one
func (m *Monitor) RecordFrameCoalesced() {
	m.mu.Lock()
	m.coalesced++
	m.mu.Unlock()
}

// RecordRenderSkipped counts a render that could not reach the display
func (m *Monitor) RecordRenderSkipped() {
	m.mu.Lock()
	m.skipped++
	m.mu.Unlock()
}

// GetReport generates a report with current metrics
func (m *Monitor) GetReport() Report {
	avg := m.renderTimes.Average()

	m.mu.Lock()
	defer m.mu.Unlock()

	requests := m.rendered + m.coalesced
	rate := 0.0
	if requests > 0 {
		rate = float64(m.coalesced) / float64(requests) * 100.0
	}

	// Healthy: fewer than 5% of frames merged and renders fit a 25fps budget.
	isHealthy := rate < 5.0 && avg < 40*time.Millisecond

	return Report{
		AvgRenderMs:   float64(avg.Microseconds()) / 1000.0,
		Rendered:      m.rendered,
		Coalesced:     m.coalesced,
		Skipped:       m.skipped,
		CoalesceRate:  rate,
		IsHealthy:     isHealthy,
		UptimeSeconds: int64(time.Since(m.startTime).Seconds()),
	}
}

// Reset clears all metrics
func (m *Monitor) Reset() {
	m.renderTimes.Reset()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rendered = 0
	m.coalesced = 0
	m.skipped = 0
	m.startTime = time.Now()
}
