package util

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerfTrackerMetrics(t *testing.T) {
	pt := NewPerfTracker()
	pt.Record("catalog GET", 100*time.Millisecond)
	pt.Record("catalog GET", 300*time.Millisecond)
	pt.Record("download", 2*time.Second)
	pt.IncrementCounter("catalog requests")
	pt.IncrementCounter("catalog requests")

	metrics := pt.Metrics()
	require.Len(t, metrics, 2)
	assert.Equal(t, "download", metrics[0].Name)
	assert.Equal(t, int64(2), metrics[1].Count)
	assert.Equal(t, 200*time.Millisecond, metrics[1].Average())
	assert.Equal(t, 300*time.Millisecond, metrics[1].Last)
	assert.Equal(t, int64(2), pt.Counter("catalog requests"))
	assert.Zero(t, pt.Counter("missing"))

	var buf bytes.Buffer
	pt.WriteReport(&buf)
	assert.Contains(t, buf.String(), "PERFORMANCE REPORT")
	assert.Contains(t, buf.String(), "catalog GET")
	assert.Contains(t, buf.String(), "catalog requests")
}

func TestPerfTrackerEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	NewPerfTracker().WriteReport(&buf)
	assert.Empty(t, buf.String())
}

func TestStartTimerDisabled(t *testing.T) {
	PerfEnabled = false
	timer := StartTimer("noop")
	assert.Nil(t, timer)
	assert.Zero(t, timer.Stop())
}
