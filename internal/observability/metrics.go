package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	authFailures map[string]int64
	events       map[string]int64
	totalLatency time.Duration
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Requests     map[string]int64 `json:"requests"`
	Errors       map[string]int64 `json:"errors"`
	AuthFailures map[string]int64 `json:"auth_failures"`
	Events       map[string]int64 `json:"events"`
	AvgLatencyMS float64          `json:"avg_latency_ms"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		authFailures: make(map[string]int64),
		events:       make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.totalLatency += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordAuthFailure counts rejected session cookies by failure kind.
func (m *Metrics) RecordAuthFailure(kind string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authFailures[kind]++
}

// RecordEvent counts published domain events by type.
func (m *Metrics) RecordEvent(eventType string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[eventType]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Requests:     copyCounts(m.requestCount),
		Errors:       copyCounts(m.errorCount),
		AuthFailures: copyCounts(m.authFailures),
		Events:       copyCounts(m.events),
	}
	var total int64
	for _, n := range m.requestCount {
		total += n
	}
	if total > 0 {
		snap.AvgLatencyMS = float64(m.totalLatency.Milliseconds()) / float64(total)
	}
	return snap
}

func copyCounts(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
