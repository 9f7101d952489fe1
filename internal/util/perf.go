package util

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// PerfEnabled turns timing collection on; it follows --debug
var PerfEnabled bool

// PerfMetric aggregates the timings recorded under one name
type PerfMetric struct {
	Name      string
	Count     int64
	TotalTime time.Duration
	Last      time.Duration
}

// Average returns the mean duration of the metric
func (m PerfMetric) Average() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.TotalTime / time.Duration(m.Count)
}

// PerfTracker collects timings and counters for one process
type PerfTracker struct {
	mu       sync.Mutex
	metrics  map[string]*PerfMetric
	counters map[string]int64
	started  time.Time
}

var (
	globalPerf     *PerfTracker
	globalPerfOnce sync.Once
)

// NewPerfTracker returns an empty tracker
func NewPerfTracker() *PerfTracker {
	return &PerfTracker{
		metrics:  make(map[string]*PerfMetric),
		counters: make(map[string]int64),
		started:  time.Now(),
	}
}

// GetPerfTracker returns the process-wide tracker
func GetPerfTracker() *PerfTracker {
	globalPerfOnce.Do(func() {
		globalPerf = NewPerfTracker()
	})
	return globalPerf
}

// Timer is an operation being timed. A nil Timer is valid and does nothing.
type Timer struct {
	name    string
	start   time.Time
	tracker *PerfTracker
}

// StartTimer starts timing name on the global tracker. It returns nil when
// profiling is disabled.
func StartTimer(name string) *Timer {
	if !PerfEnabled {
		return nil
	}
	return &Timer{name: name, start: time.Now(), tracker: GetPerfTracker()}
}

// Stop records the elapsed time and logs it at debug level
func (t *Timer) Stop() time.Duration {
	if t == nil {
		return 0
	}
	d := time.Since(t.start)
	t.tracker.Record(t.name, d)
	Debugf("[PERF] %s took %v", t.name, d)
	return d
}

// Record adds one timing under name
func (pt *PerfTracker) Record(name string, d time.Duration) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	m, ok := pt.metrics[name]
	if !ok {
		m = &PerfMetric{Name: name}
		pt.metrics[name] = m
	}
	m.Count++
	m.TotalTime += d
	m.Last = d
}

// IncrementCounter adds one to the named counter
func (pt *PerfTracker) IncrementCounter(name string) {
	pt.mu.Lock()
	pt.counters[name]++
	pt.mu.Unlock()
}

// Counter returns the value of a counter
func (pt *PerfTracker) Counter(name string) int64 {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.counters[name]
}

// Metrics returns the metrics sorted by total time, slowest first
func (pt *PerfTracker) Metrics() []PerfMetric {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	out := make([]PerfMetric, 0, len(pt.metrics))
	for _, m := range pt.metrics {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalTime == out[j].TotalTime {
			return out[i].Name < out[j].Name
		}
		return out[i].TotalTime > out[j].TotalTime
	})
	return out
}

var (
	perfTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	perfHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4")).Bold(true)
	perfSlowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	perfSepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#636E72"))
)

// WriteReport prints the collected timings and counters to w. Nothing is
// written when no metric was recorded.
func (pt *PerfTracker) WriteReport(w io.Writer) {
	metrics := pt.Metrics()

	pt.mu.Lock()
	names := make([]string, 0, len(pt.counters))
	for name := range pt.counters {
		names = append(names, name)
	}
	counters := make(map[string]int64, len(pt.counters))
	for k, v := range pt.counters {
		counters[k] = v
	}
	uptime := time.Since(pt.started)
	pt.mu.Unlock()

	if len(metrics) == 0 && len(names) == 0 {
		return
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("\n" + perfSepStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(perfTitleStyle.Render("PERFORMANCE REPORT") + "\n")
	fmt.Fprintf(&b, "  Uptime: %s\n", uptime.Round(time.Millisecond))

	if len(metrics) > 0 {
		b.WriteString(perfHeaderStyle.Render("  Timings") + "\n")
		for _, m := range metrics {
			total := m.TotalTime.Round(time.Millisecond).String()
			if m.TotalTime > 5*time.Second {
				total = perfSlowStyle.Render(total)
			}
			fmt.Fprintf(&b, "    %-28s %10s  x%-4d avg %s\n", m.Name, total, m.Count, m.Average().Round(time.Millisecond))
		}
	}
	if len(names) > 0 {
		b.WriteString(perfHeaderStyle.Render("  Counters") + "\n")
		for _, name := range names {
			fmt.Fprintf(&b, "    %-28s %d\n", name, counters[name])
		}
	}
	b.WriteString(perfSepStyle.Render(strings.Repeat("─", 60)) + "\n")
	_, _ = io.WriteString(w, b.String())
}
