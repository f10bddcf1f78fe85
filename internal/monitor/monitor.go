// Package monitor aggregates per-run processing metrics in memory.
package monitor

import (
	"sync"
	"time"

	"github.com/piivault/piivault/internal/core"
)

// Record is one processing run's measurements
type Record struct {
	Timestamp      time.Time     `json:"timestamp"`
	Duration       time.Duration `json:"duration"`
	CharsProcessed int           `json:"chars_processed"`
	EntityCount    int           `json:"entity_count"`
	CacheHit       bool          `json:"cache_hit"`
}

// Summary holds aggregate performance figures
type Summary struct {
	TotalProcessed    int           `json:"total_processed"`
	TotalEntities     int           `json:"total_entities"`
	AvgDuration       time.Duration `json:"avg_duration"`
	CharsPerSecond    float64       `json:"chars_per_second"`
	AvgEntitiesPerRun float64       `json:"avg_entities_per_run"`
	CacheHits         int           `json:"cache_hits"`
}

// PerformanceMonitor records processing outcomes. Safe for concurrent use.
type PerformanceMonitor struct {
	mu      sync.Mutex
	records []Record
}

// New creates an empty monitor
func New() *PerformanceMonitor {
	return &PerformanceMonitor{}
}

// RecordProcessing stores a run's metrics
func (m *PerformanceMonitor) RecordProcessing(result *core.ProcessingResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, Record{
		Timestamp:      time.Now(),
		Duration:       result.Metrics.Duration,
		CharsProcessed: result.Metrics.CharsProcessed,
		EntityCount:    result.Metrics.EntityCount,
		CacheHit:       result.Metrics.CacheHit,
	})
}

// Summary computes aggregates over all recorded runs
func (m *PerformanceMonitor) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{TotalProcessed: len(m.records)}
	if len(m.records) == 0 {
		return s
	}

	var totalDuration time.Duration
	var totalChars int
	for _, r := range m.records {
		totalDuration += r.Duration
		totalChars += r.CharsProcessed
		s.TotalEntities += r.EntityCount
		if r.CacheHit {
			s.CacheHits++
		}
	}

	s.AvgDuration = totalDuration / time.Duration(len(m.records))
	if totalDuration > 0 {
		s.CharsPerSecond = float64(totalChars) / totalDuration.Seconds()
	}
	s.AvgEntitiesPerRun = float64(s.TotalEntities) / float64(len(m.records))
	return s
}

// Clear discards all recorded runs
func (m *PerformanceMonitor) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
}
