package performance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRollingAverage(t *testing.T) {
	r := NewRollingAverage(3)
	assert.Equal(t, time.Duration(0), r.Average())

	r.Add(10 * time.Millisecond)
	r.Add(20 * time.Millisecond)
	assert.Equal(t, 15*time.Millisecond, r.Average())
	assert.Equal(t, 2, r.Count())

	r.Add(30 * time.Millisecond)
	r.Add(40 * time.Millisecond)
	assert.Equal(t, 30*time.Millisecond, r.Average())
	assert.Equal(t, 3, r.Count())

	r.Reset()
	assert.Equal(t, 0, r.Count())
	assert.Equal(t, time.Duration(0), r.Average())
}

func TestMonitorReport(t *testing.T) {
	m := NewMonitor(10)
	for i := 0; i < 19; i++ {
		m.RecordFrameRender(4 * time.Millisecond)
	}
	m.RecordFrameCoalesced()
	m.RecordRenderSkipped()

	report := m.GetReport()
	assert.Equal(t, 19, report.Rendered)
	assert.Equal(t, 1, report.Coalesced)
	assert.Equal(t, 1, report.Skipped)
	assert.InDelta(t, 5.0, report.CoalesceRate, 0.001)
	assert.InDelta(t, 4.0, report.AvgRenderMs, 0.001)
	assert.False(t, report.IsHealthy)

	m.Reset()
	report = m.GetReport()
	assert.Zero(t, report.Rendered)
	assert.Zero(t, report.Coalesced)
	assert.True(t, report.IsHealthy)
}
