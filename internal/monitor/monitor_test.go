package monitor

import (
	"testing"
	"time"

	"github.com/piivault/piivault/internal/core"
)

func resultWith(duration time.Duration, chars, entities int, cacheHit bool) *core.ProcessingResult {
	return &core.ProcessingResult{
		Metrics: core.Metrics{
			Duration:       duration,
			CharsProcessed: chars,
			EntityCount:    entities,
			CacheHit:       cacheHit,
		},
	}
}

// TestPerformanceMonitor tests metric aggregation
func TestPerformanceMonitor(t *testing.T) {
	t.Run("EmptySummary", func(t *testing.T) {
		m := New()
		s := m.Summary()
		if s.TotalProcessed != 0 || s.TotalEntities != 0 {
			t.Errorf("Expected zeroed summary, got %+v", s)
		}
	})

	t.Run("Aggregates", func(t *testing.T) {
		m := New()
		m.RecordProcessing(resultWith(100*time.Millisecond, 1000, 3, false))
		m.RecordProcessing(resultWith(300*time.Millisecond, 3000, 5, true))

		s := m.Summary()
		if s.TotalProcessed != 2 {
			t.Errorf("Expected 2 runs, got %d", s.TotalProcessed)
		}
		if s.TotalEntities != 8 {
			t.Errorf("Expected 8 entities, got %d", s.TotalEntities)
		}
		if s.AvgDuration != 200*time.Millisecond {
			t.Errorf("Expected 200ms average, got %v", s.AvgDuration)
		}
		if s.CacheHits != 1 {
			t.Errorf("Expected 1 cache hit, got %d", s.CacheHits)
		}
		if s.AvgEntitiesPerRun != 4 {
			t.Errorf("Expected 4 entities per run, got %f", s.AvgEntitiesPerRun)
		}
		if s.CharsPerSecond != 10000 {
			t.Errorf("Expected 10000 chars/s, got %f", s.CharsPerSecond)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		m := New()
		m.RecordProcessing(resultWith(time.Millisecond, 10, 1, false))
		m.Clear()
		if s := m.Summary(); s.TotalProcessed != 0 {
			t.Errorf("Expected empty summary after Clear, got %+v", s)
		}
	})

	t.Run("ConcurrentRecording", func(t *testing.T) {
		m := New()
		done := make(chan struct{})
		for i := 0; i < 10; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					m.RecordProcessing(resultWith(time.Millisecond, 10, 1, false))
				}
				done <- struct{}{}
			}()
		}
		for i := 0; i < 10; i++ {
			<-done
		}
		if s := m.Summary(); s.TotalProcessed != 1000 {
			t.Errorf("Expected 1000 runs, got %d", s.TotalProcessed)
		}
	})
}
