// Package metrics exposes process-local counters in Prometheus text format.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	syncRunsTotal         atomic.Uint64
	syncFailedTotal       atomic.Uint64
	syncFilesScannedTotal atomic.Uint64
	syncFilesPatchedTotal atomic.Uint64

	syncDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncSyncRun increments the completed sweep counter.
func IncSyncRun() {
	syncRunsTotal.Add(1)
}

// IncSyncFailed increments the failed sweep counter.
func IncSyncFailed() {
	syncFailedTotal.Add(1)
}

// AddSyncFiles records per-sweep file counters.
func AddSyncFiles(scanned, patched int) {
	if scanned > 0 {
		syncFilesScannedTotal.Add(uint64(scanned))
	}
	if patched > 0 {
		syncFilesPatchedTotal.Add(uint64(patched))
	}
}

// ObserveSyncDurationMs records a sweep duration in milliseconds.
func ObserveSyncDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	syncDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "sync_runs_total", "Total sync sweeps completed", syncRunsTotal.Load())
	writeCounter(&buf, "sync_failed_total", "Total sync sweeps failed", syncFailedTotal.Load())
	writeCounter(&buf, "sync_files_scanned_total", "Total files scanned across sweeps", syncFilesScannedTotal.Load())
	writeCounter(&buf, "sync_files_patched_total", "Total files patched across sweeps", syncFilesPatchedTotal.Load())
	writeHistogram(&buf, "sync_duration_ms", "Sync sweep duration in milliseconds", syncDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
