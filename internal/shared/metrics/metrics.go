package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	httpRequestsTotal atomic.Uint64

	candidatesCreatedTotal atomic.Uint64
	resumesUploadedTotal   atomic.Uint64

	parseStartedTotal   atomic.Uint64
	parseCompletedTotal atomic.Uint64
	parseFailedTotal    atomic.Uint64

	matchesComputedTotal     atomic.Uint64
	interviewsScheduledTotal atomic.Uint64

	workerJobsReceivedTotal  atomic.Uint64
	workerJobsCompletedTotal atomic.Uint64
	workerJobsFailedTotal    atomic.Uint64
	workerJobsDroppedTotal   atomic.Uint64

	parseDuration = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 2000, 5000, 10000})
)

// IncHTTPRequest counts one handled HTTP request.
func IncHTTPRequest() {
	httpRequestsTotal.Add(1)
}

// IncCandidateCreated counts one new candidate record.
func IncCandidateCreated() {
	candidatesCreatedTotal.Add(1)
}

// IncResumeUploaded counts one stored resume upload.
func IncResumeUploaded() {
	resumesUploadedTotal.Add(1)
}

// IncParseStarted increments the started counter.
func IncParseStarted() {
	parseStartedTotal.Add(1)
}

// IncParseCompleted increments the completed counter.
func IncParseCompleted() {
	parseCompletedTotal.Add(1)
}

// IncParseFailed increments the failed counter.
func IncParseFailed() {
	parseFailedTotal.Add(1)
}

// IncMatchComputed counts one candidate-job score calculation.
func IncMatchComputed() {
	matchesComputedTotal.Add(1)
}

// IncInterviewScheduled counts one booked interview.
func IncInterviewScheduled() {
	interviewsScheduledTotal.Add(1)
}

// IncWorkerJobsReceived counts one queue message picked up by a worker.
func IncWorkerJobsReceived() {
	workerJobsReceivedTotal.Add(1)
}

// IncWorkerJobsCompleted counts one queue message fully processed.
func IncWorkerJobsCompleted() {
	workerJobsCompletedTotal.Add(1)
}

// IncWorkerJobsFailed counts one queue message that failed and will retry.
func IncWorkerJobsFailed() {
	workerJobsFailedTotal.Add(1)
}

// IncWorkerJobsDropped counts one queue message discarded as unprocessable.
func IncWorkerJobsDropped() {
	workerJobsDroppedTotal.Add(1)
}

// ObserveParseDurationMs records a resume parse duration in milliseconds.
func ObserveParseDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	parseDuration.Observe(value)
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
	writeCounter(&buf, "http_requests_total", "Total HTTP requests handled", httpRequestsTotal.Load())
	writeCounter(&buf, "candidates_created_total", "Total candidate records created", candidatesCreatedTotal.Load())
	writeCounter(&buf, "resumes_uploaded_total", "Total resume files stored", resumesUploadedTotal.Load())
	writeCounter(&buf, "parse_started_total", "Total resume parses started", parseStartedTotal.Load())
	writeCounter(&buf, "parse_completed_total", "Total resume parses completed", parseCompletedTotal.Load())
	writeCounter(&buf, "parse_failed_total", "Total resume parses failed", parseFailedTotal.Load())
	writeCounter(&buf, "matches_computed_total", "Total match scores computed", matchesComputedTotal.Load())
	writeCounter(&buf, "interviews_scheduled_total", "Total interviews scheduled", interviewsScheduledTotal.Load())
	writeCounter(&buf, "worker_jobs_received_total", "Total queue messages received by workers", workerJobsReceivedTotal.Load())
	writeCounter(&buf, "worker_jobs_completed_total", "Total queue messages processed by workers", workerJobsCompletedTotal.Load())
	writeCounter(&buf, "worker_jobs_failed_total", "Total queue messages failed and left for retry", workerJobsFailedTotal.Load())
	writeCounter(&buf, "worker_jobs_dropped_total", "Total queue messages dropped as unprocessable", workerJobsDroppedTotal.Load())
	writeHistogram(&buf, "parse_duration_ms", "Resume parse duration in milliseconds", parseDuration.Snapshot())
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
	// counts holds per-bucket tallies; rendering accumulates them into
	// the cumulative le series. Values beyond the last bound only show
	// up in +Inf via count.
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
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
